package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/oakline/storefront/pkg/errors"

	"github.com/oakline/storefront/internal/domain"
	"github.com/oakline/storefront/internal/repository"
)

// OrderService implements the order presentation logic. Orders are written
// by the checkout pipeline and read here; this service derives the money
// breakdown and the support link shown to the shopper.
type OrderService struct {
	repo   repository.OrderRepository
	policy domain.CheckoutPolicy
	logger *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(repo repository.OrderRepository, policy domain.CheckoutPolicy, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:   repo,
		policy: policy,
		logger: logger,
	}
}

// OrderDetail is an order together with its derived presentation fields.
type OrderDetail struct {
	Order       *domain.Order       `json:"order"`
	Summary     domain.OrderSummary `json:"summary"`
	SupportLink string              `json:"support_link,omitempty"`
}

// GetOrder returns one order with its derived summary. Only the owning
// customer can read it; a mismatch reports not-found rather than exposing
// that the id exists. The invoice link is only shown once the order is paid.
func (s *OrderService) GetOrder(ctx context.Context, customerID, id string) (*OrderDetail, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}

	if order.CustomerID != customerID {
		return nil, apperrors.NotFound("order", id)
	}

	if !order.IsPaid() {
		order.InvoiceURL = ""
	}

	return &OrderDetail{
		Order:       order,
		Summary:     order.Summarize(s.policy),
		SupportLink: order.SupportLink(s.policy),
	}, nil
}

// ListOrders returns the customer's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, customerID string, page, perPage int) ([]domain.Order, int, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	orders, total, err := s.repo.List(ctx, repository.OrderFilter{
		CustomerID: &customerID,
		Page:       page,
		PerPage:    perPage,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

// IngestOrder stores an order arriving from the checkout pipeline.
func (s *OrderService) IngestOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order.CustomerID == "" {
		return nil, apperrors.InvalidInput("customer id is required")
	}
	if order.OrderNumber == "" {
		return nil, apperrors.InvalidInput("order number is required")
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}
	if !domain.IsValidOrderStatus(order.Status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid order status %q", order.Status))
	}

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("ingest order: %w", err)
	}

	s.logger.InfoContext(ctx, "order ingested",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
		slog.String("customer_id", order.CustomerID),
	)

	return order, nil
}
