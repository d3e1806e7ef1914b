package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/oakline/storefront/pkg/httputil"
	"github.com/oakline/storefront/pkg/logger"
)

// Recovery converts a handler panic into a 500 response with the standard
// error envelope. The panic is logged with the request's context fields
// (correlation id, customer), so mount this after RequestLogging.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				logger.WithContext(r.Context(), l).Error("panic recovered",
					slog.Any("panic", rec),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)

				httputil.WriteJSON(w, http.StatusInternalServerError, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "INTERNAL_ERROR",
						Message: "an internal error occurred",
					},
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
