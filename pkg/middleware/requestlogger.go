package middleware

import (
	"log/slog"
	"net/http"

	"github.com/oakline/storefront/pkg/logger"
)

// RequestLogger builds a request-scoped logger enriched with correlation_id,
// customer, trace_id, and span_id, then stores it in context via
// logger.NewContext. Downstream handlers retrieve it with logger.FromContext.
//
// Mount AFTER RequestLogging (which sets the correlation id).
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if id := CustomerIDFromContext(ctx); id != "" {
				ctx = logger.WithCustomer(ctx, id)
			}

			enriched := logger.WithContext(ctx, base)
			ctx = logger.NewContext(ctx, enriched)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
