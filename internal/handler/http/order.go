package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oakline/storefront/pkg/httputil"
	"github.com/oakline/storefront/pkg/middleware"
	"github.com/oakline/storefront/pkg/validator"

	"github.com/oakline/storefront/internal/domain"
	"github.com/oakline/storefront/internal/service"
)

// OrderHandler handles HTTP requests for the customer's orders. All
// endpoints require an authenticated customer.
type OrderHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{service: svc, logger: logger}
}

// IngestOrderRequest is the JSON request body for ingesting an order from
// the checkout pipeline.
type IngestOrderRequest struct {
	OrderNumber string  `json:"order_number" validate:"required"`
	Email       string  `json:"email" validate:"omitempty,email"`
	Status      string  `json:"status"`
	Subtotal    float64 `json:"subtotal" validate:"gte=0"`
	Discount    float64 `json:"discount" validate:"gte=0"`
	Total       float64 `json:"total" validate:"gte=0"`
	Currency    string  `json:"currency"`
	InvoiceURL  string  `json:"invoice_url" validate:"omitempty,url"`
	Items       []struct {
		ProductID string  `json:"product_id" validate:"required"`
		Name      string  `json:"name" validate:"required"`
		Price     float64 `json:"price" validate:"gte=0"`
		Quantity  int     `json:"quantity" validate:"gte=1"`
		ImageURL  string  `json:"image_url"`
	} `json:"items" validate:"dive"`
}

// ListOrders handles GET /api/v1/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.CustomerIDFromContext(r.Context())
	if customerID == "" {
		writeUnauthorized(w)
		return
	}

	q := r.URL.Query()
	page := intQueryParam(q.Get("page"), 1)
	perPage := intQueryParam(q.Get("per_page"), 20)

	orders, total, err := h.service.ListOrders(r.Context(), customerID, page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: httputil.NewPaginatedResponse(orders, total, page, perPage),
	})
}

// GetOrder handles GET /api/v1/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.CustomerIDFromContext(r.Context())
	if customerID == "" {
		writeUnauthorized(w)
		return
	}

	detail, err := h.service.GetOrder(r.Context(), customerID, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}

// IngestOrder handles POST /api/v1/orders
func (h *OrderHandler) IngestOrder(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.CustomerIDFromContext(r.Context())
	if customerID == "" {
		writeUnauthorized(w)
		return
	}

	var req IngestOrderRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order := &domain.Order{
		OrderNumber: req.OrderNumber,
		CustomerID:  customerID,
		Email:       req.Email,
		Status:      req.Status,
		Subtotal:    req.Subtotal,
		Discount:    req.Discount,
		Total:       req.Total,
		Currency:    req.Currency,
		InvoiceURL:  req.InvoiceURL,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			ImageURL:  item.ImageURL,
		})
	}

	created, err := h.service.IngestOrder(r.Context(), order)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: created})
}

func writeUnauthorized(w http.ResponseWriter) {
	httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "customer not authenticated"},
	})
}
