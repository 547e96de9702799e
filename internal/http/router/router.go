// Package router arma el http.Handler del servicio de login.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	healthctrl "github.com/dropDatabas3/rippleid/internal/http/controllers/health"
	socialctrl "github.com/dropDatabas3/rippleid/internal/http/controllers/social"
	httperrors "github.com/dropDatabas3/rippleid/internal/http/errors"
	mw "github.com/dropDatabas3/rippleid/internal/http/middlewares"
	"github.com/dropDatabas3/rippleid/internal/rate"
)

// Deps contiene todo lo que el router necesita.
type Deps struct {
	Social *socialctrl.Controllers
	Health *healthctrl.HealthController

	// Metrics es opcional. Si está, instrumenta las rutas y expone /metrics.
	Metrics MetricsHandler

	// RateLimiter es opcional: límite por IP en las rutas de login.
	RateLimiter rate.Limiter

	// TrustProxyHeaders monta chi RealIP: la IP del cliente sale de
	// True-Client-IP, X-Real-IP o X-Forwarded-For. Solo con un proxy delante.
	TrustProxyHeaders bool
}

// MetricsHandler es el lado HTTP de *metrics.Metrics.
type MetricsHandler interface {
	Handler() http.Handler
	Middleware(next http.Handler) http.Handler
}

// New registra todas las rutas y devuelve el handler raíz.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.WithRecover(), mw.WithRequestID())
	if deps.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("method not allowed"))
	})

	// Infra: sin logging por request (muy frecuentes).
	if deps.Health != nil {
		r.Get("/healthz", deps.Health.Health)
	}
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	if deps.Social != nil {
		r.Group(func(r chi.Router) {
			r.Use(mw.WithLogging(), mw.WithNoStore())
			if deps.Metrics != nil {
				r.Use(deps.Metrics.Middleware)
			}
			if deps.RateLimiter != nil {
				r.Use(mw.WithRateLimit(deps.RateLimiter, mw.IPOnlyRateKey))
			}
			registerSocialRoutes(r, deps.Social)
		})
	}

	return r
}
