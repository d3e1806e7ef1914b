package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakline/storefront/pkg/database"
	apperrors "github.com/oakline/storefront/pkg/errors"

	"github.com/oakline/storefront/internal/domain"
	"github.com/oakline/storefront/internal/repository"
)

// --- Test Helpers ---

func newTestRepo(t *testing.T) (*OrderRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewOrderRepository(mock)
	return repo, mock
}

func sampleOrder() *domain.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Order{
		ID:          "order-001",
		OrderNumber: "SF-1042",
		CustomerID:  "cust-001",
		Email:       "ada@x.com",
		Status:      domain.OrderStatusPaid,
		Subtotal:    300,
		Discount:    0,
		Total:       359,
		Currency:    "TRY",
		InvoiceURL:  "https://invoices.example/SF-1042.pdf",
		CreatedAt:   now,
		UpdatedAt:   now,
		Items: []domain.OrderItem{
			{ProductID: "prod-001", Name: "Ceramic Mug", Price: 120, Quantity: 2, ImageURL: "https://img.example/mug.jpg"},
			{ProductID: "prod-002", Name: "Linen Tote", Price: 60, Quantity: 1},
		},
	}
}

var orderColumns = []string{
	"id", "order_number", "customer_id", "email", "status",
	"subtotal", "discount", "total", "currency", "invoice_url",
	"created_at", "updated_at",
}

// --- Create Tests ---

func TestOrderRepository_Create_Success(t *testing.T) {
	repo, mock := newTestRepo(t)

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			o.ID, o.OrderNumber, o.CustomerID, o.Email, o.Status,
			o.Subtotal, o.Discount, o.Total, o.Currency, o.InvoiceURL,
			o.CreatedAt, o.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	for _, item := range o.Items {
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(o.ID, item.ProductID, item.Name, item.Price, item.Quantity, item.ImageURL).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	mock.ExpectCommit()

	err := repo.Create(context.Background(), o)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_BeginError(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), sampleOrder())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_ItemInsertError(t *testing.T) {
	repo, mock := newTestRepo(t)

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			o.ID, o.OrderNumber, o.CustomerID, o.Email, o.Status,
			o.Subtotal, o.Discount, o.Total, o.Currency, o.InvoiceURL,
			o.CreatedAt, o.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(o.ID, o.Items[0].ProductID, o.Items[0].Name, o.Items[0].Price, o.Items[0].Quantity, o.Items[0].ImageURL).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), o)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert order item")

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- GetByID Tests ---

func TestOrderRepository_GetByID_Success(t *testing.T) {
	repo, mock := newTestRepo(t)

	o := sampleOrder()
	itemsJSON, err := json.Marshal(o.Items)
	require.NoError(t, err)

	columns := append(append([]string{}, orderColumns...), "items")
	mock.ExpectQuery("SELECT").
		WithArgs(o.ID).
		WillReturnRows(pgxmock.NewRows(columns).AddRow(
			o.ID, o.OrderNumber, o.CustomerID, o.Email, o.Status,
			o.Subtotal, o.Discount, o.Total, o.Currency, o.InvoiceURL,
			o.CreatedAt, o.UpdatedAt, itemsJSON,
		))

	got, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)

	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, o.OrderNumber, got.OrderNumber)
	assert.Equal(t, o.Status, got.Status)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Ceramic Mug", got.Items[0].Name)
	assert.Equal(t, float64(120), got.Items[0].Price)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_NoItems(t *testing.T) {
	repo, mock := newTestRepo(t)

	o := sampleOrder()
	columns := append(append([]string{}, orderColumns...), "items")
	mock.ExpectQuery("SELECT").
		WithArgs(o.ID).
		WillReturnRows(pgxmock.NewRows(columns).AddRow(
			o.ID, o.OrderNumber, o.CustomerID, o.Email, o.Status,
			o.Subtotal, o.Discount, o.Total, o.Currency, o.InvoiceURL,
			o.CreatedAt, o.UpdatedAt, []byte("[]"),
		))

	got, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- List Tests ---

func TestOrderRepository_List_ByCustomer(t *testing.T) {
	repo, mock := newTestRepo(t)

	o := sampleOrder()
	customerID := o.CustomerID

	columns := append(append([]string{}, orderColumns...), "total_count")
	mock.ExpectQuery("SELECT").
		WithArgs(customerID, 20, 0).
		WillReturnRows(pgxmock.NewRows(columns).AddRow(
			o.ID, o.OrderNumber, o.CustomerID, o.Email, o.Status,
			o.Subtotal, o.Discount, o.Total, o.Currency, o.InvoiceURL,
			o.CreatedAt, o.UpdatedAt, 1,
		))

	orders, total, err := repo.List(context.Background(), repository.OrderFilter{CustomerID: &customerID})
	require.NoError(t, err)

	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, o.ID, orders[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_Empty(t *testing.T) {
	repo, mock := newTestRepo(t)

	customerID := "cust-unknown"
	columns := append(append([]string{}, orderColumns...), "total_count")
	mock.ExpectQuery("SELECT").
		WithArgs(customerID, 20, 0).
		WillReturnRows(pgxmock.NewRows(columns))

	orders, total, err := repo.List(context.Background(), repository.OrderFilter{CustomerID: &customerID})
	require.NoError(t, err)

	assert.Zero(t, total)
	assert.Empty(t, orders)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_Pagination(t *testing.T) {
	repo, mock := newTestRepo(t)

	customerID := "cust-001"
	columns := append(append([]string{}, orderColumns...), "total_count")
	mock.ExpectQuery("SELECT").
		WithArgs(customerID, 10, 10).
		WillReturnRows(pgxmock.NewRows(columns))

	_, _, err := repo.List(context.Background(), repository.OrderFilter{
		CustomerID: &customerID,
		Page:       2,
		PerPage:    10,
	})
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
