package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oakline/storefront/pkg/httputil"

	"github.com/oakline/storefront/internal/service"
)

// AddressHandler handles HTTP requests for the address book. The endpoints
// are public and keyed by the submitted email; there is no account entity.
type AddressHandler struct {
	service *service.AddressService
	logger  *slog.Logger
}

// NewAddressHandler creates a new address HTTP handler.
func NewAddressHandler(svc *service.AddressService, logger *slog.Logger) *AddressHandler {
	return &AddressHandler{service: svc, logger: logger}
}

// CreateAddressRequest is the JSON request body for submitting an address.
// Only email is validated; the remaining fields pass through as given. The
// default flag accepts any JSON value and is coerced to a boolean, since
// storefront clients have been observed sending 1 or "yes" for it.
type CreateAddressRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Default any    `json:"default"`
}

// truthy applies JavaScript-style truthiness to a decoded JSON value.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	default:
		// Objects and arrays.
		return true
	}
}

// CreateAddress handles POST /api/v1/addresses
func (h *AddressHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var req CreateAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	created, err := h.service.CreateAddress(r.Context(), &service.CreateAddressInput{
		Name:    req.Name,
		Email:   req.Email,
		Street:  req.Address,
		City:    req.City,
		State:   req.State,
		Zip:     req.Zip,
		Default: truthy(req.Default),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: created})
}

// ListAddresses handles GET /api/v1/addresses?email=
func (h *AddressHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	addresses, err := h.service.ListAddresses(r.Context(), email)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: addresses})
}

// GetAddress handles GET /api/v1/addresses/{id}
func (h *AddressHandler) GetAddress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	address, err := h.service.GetAddress(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: address})
}
