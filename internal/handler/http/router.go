package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oakline/storefront/pkg/health"
	"github.com/oakline/storefront/pkg/middleware"

	"github.com/oakline/storefront/internal/auth"
	"github.com/oakline/storefront/internal/service"
)

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	addressService *service.AddressService,
	searchService *service.SearchService,
	orderService *service.OrderService,
	jwtManager *auth.JWTManager,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig middleware.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Address book (public, keyed by submitted email)
	addressHandler := NewAddressHandler(addressService, logger)
	r.Route("/api/v1/addresses", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/", addressHandler.CreateAddress)
		r.Get("/", addressHandler.ListAddresses)
		r.Get("/{id}", addressHandler.GetAddress)
	})

	// Catalog search (public reads, indexing for the catalog pipeline)
	searchHandler := NewSearchHandler(searchService, logger)
	r.Route("/api/v1/search", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.With(middleware.CacheControl(30)).Get("/", searchHandler.Search)
		r.Post("/index", searchHandler.IndexProduct)
		r.Post("/index/bulk", searchHandler.BulkIndexProducts)
		r.Delete("/index/{id}", searchHandler.DeleteProduct)
	})

	// Token validator bridging to the internal JWT manager.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			CustomerID: claims.CustomerID,
			Email:      claims.Email,
		}, nil
	}

	// Orders (auth required)
	orderHandler := NewOrderHandler(orderService, logger)
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokenValidator))

		r.Get("/", orderHandler.ListOrders)
		r.Post("/", orderHandler.IngestOrder)
		r.Get("/{id}", orderHandler.GetOrder)
	})

	return r
}
