package middlewares

import (
	"net/http"
	"strconv"

	"github.com/dropDatabas3/frontdesk/internal/http/errors"
	"github.com/dropDatabas3/frontdesk/internal/observability/logger"
	"github.com/dropDatabas3/frontdesk/internal/rate"
)

// RateKeyFunc define cómo generar la clave de rate limiting.
type RateKeyFunc func(r *http.Request) string

// IPPathKey limita por (IP, path): suficiente para proteger login y
// signup de fuerza bruta sin leer el body.
func IPPathKey(r *http.Request) string {
	return clientIP(r) + "|" + r.URL.Path
}

// WithRateLimit aplica el limiter a cada request usando keyFn.
// Un limiter caído NO bloquea el tráfico: fail-open con log.
func WithRateLimit(limiter rate.Limiter, keyFn RateKeyFunc) Middleware {
	if keyFn == nil {
		keyFn = IPPathKey
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			res, err := limiter.Allow(r.Context(), keyFn(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable, failing open",
					logger.Op("rate"), logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			if !res.Allowed {
				if res.RetryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())))
				}
				errors.WriteError(w, errors.ErrRateLimitExceeded)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
