package middlewares

import (
	"net/http"

	httpx "github.com/dropDatabas3/haven/internal/http"
	"github.com/dropDatabas3/haven/internal/observability/logger"
)

// WithRecover atrapa panics del handler y responde 500 en vez de tirar
// abajo la conexión.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log := logger.From(r.Context())
					log.Error("panic recovered",
						logger.Op("recover"),
						logger.Any("panic", rec),
					)
					httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "error interno")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
