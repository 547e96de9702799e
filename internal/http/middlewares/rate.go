package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"time"

	httperrors "github.com/dropDatabas3/rippleid/internal/http/errors"
	"github.com/dropDatabas3/rippleid/internal/observability/logger"
	"github.com/dropDatabas3/rippleid/internal/rate"
)

// clientIP extrae la IP del cliente desde RemoteAddr. Los headers de proxy
// no se leen acá: detrás de un proxy confiable el router monta RealIP, que
// reescribe RemoteAddr antes de llegar a este middleware.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateKeyFunc define cómo generar la clave de rate limiting.
type RateKeyFunc func(r *http.Request) string

// IPOnlyRateKey genera una clave basada solo en IP.
func IPOnlyRateKey(r *http.Request) string {
	return clientIP(r)
}

// WithRateLimit limita requests por key (default: IP). Si el limiter falla
// el request pasa.
func WithRateLimit(limiter rate.Limiter, keyFunc RateKeyFunc) Middleware {
	if limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if keyFunc == nil {
		keyFunc = IPOnlyRateKey
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.Allow(r.Context(), keyFunc(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limit error", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			if res.WindowTTL > 0 {
				resetAt := time.Now().Add(res.WindowTTL).Unix()
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt, 10))
			}
			if !res.Allowed {
				if secs := int(res.RetryAfter.Seconds()); secs > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(secs))
				} else {
					w.Header().Set("Retry-After", "1")
				}
				httperrors.WriteError(w, httperrors.ErrRateLimitExceeded)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			next.ServeHTTP(w, r)
		})
	}
}
