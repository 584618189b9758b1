package middlewares

import (
	"math"
	"net/http"
	"strconv"

	httpx "github.com/dropDatabas3/haven/internal/http"
	"github.com/dropDatabas3/haven/internal/observability/logger"
	"github.com/dropDatabas3/haven/internal/rate"
)

// IPPathRateKey genera una key basada en IP + path. Separa los límites por
// endpoint (verify vs confirm) sin depender del body.
func IPPathRateKey(r *http.Request) string {
	return clientIP(r) + "|" + r.URL.Path
}

// WithRateLimit limita requests por key usando un rate.Limiter. Con limiter
// nil es un no-op. Si el backend del limiter falla, el request pasa
// (fail-open) y se loguea.
func WithRateLimit(limiter rate.Limiter, keyFn func(*http.Request) string) Middleware {
	if keyFn == nil {
		keyFn = IPPathRateKey
	}
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.Allow(r.Context(), keyFn(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			if !res.Allowed {
				if res.RetryAfter > 0 {
					secs := int(math.Ceil(res.RetryAfter.Seconds()))
					if secs < 1 {
						secs = 1
					}
					w.Header().Set("Retry-After", strconv.Itoa(secs))
				}
				httpx.WriteError(w, http.StatusTooManyRequests, "rate_limited", "demasiados requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
