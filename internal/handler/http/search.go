package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/oakline/storefront/pkg/httputil"
	"github.com/oakline/storefront/pkg/validator"

	"github.com/oakline/storefront/internal/search"
	"github.com/oakline/storefront/internal/service"
)

// SearchHandler handles HTTP requests for catalog search and indexing.
type SearchHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(svc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{service: svc, logger: logger}
}

// IndexProductRequest is the JSON request body for indexing a product.
type IndexProductRequest struct {
	ID          string  `json:"id" validate:"required"`
	Slug        string  `json:"slug"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	ImageURL    string  `json:"image_url"`
	InStock     bool    `json:"in_stock"`
}

func (req *IndexProductRequest) toInput() service.IndexProductInput {
	return service.IndexProductInput{
		ID:          req.ID,
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		InStock:     req.InStock,
	}
}

// Search handles GET /api/v1/search?q=&page=&per_page=&in_stock=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := &search.Query{
		Term:    q.Get("q"),
		Page:    intQueryParam(q.Get("page"), 1),
		PerPage: intQueryParam(q.Get("per_page"), search.DefaultPerPage),
	}
	if raw := q.Get("in_stock"); raw != "" {
		inStock := raw == "true" || raw == "1"
		query.InStock = &inStock
	}

	result, err := h.service.Search(r.Context(), query)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// IndexProduct handles POST /api/v1/search/index
func (h *SearchHandler) IndexProduct(w http.ResponseWriter, r *http.Request) {
	var req IndexProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := req.toInput()
	if err := h.service.IndexProduct(r.Context(), &input); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: map[string]string{"id": req.ID}})
}

// BulkIndexProducts handles POST /api/v1/search/index/bulk
func (h *SearchHandler) BulkIndexProducts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Products []IndexProductRequest `json:"products" validate:"required,min=1,dive"`
	}
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	inputs := make([]service.IndexProductInput, 0, len(req.Products))
	for i := range req.Products {
		inputs = append(inputs, req.Products[i].toInput())
	}

	if err := h.service.BulkIndexProducts(r.Context(), inputs); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: map[string]int{"count": len(inputs)}})
}

// DeleteProduct handles DELETE /api/v1/search/index/{id}
func (h *SearchHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func intQueryParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
