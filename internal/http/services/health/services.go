// Package health contiene el service de health check.
package health

import (
	"context"
	"time"
)

// Pinger es cualquier dependencia que sabe responder a un ping (cache.Client).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps contiene las dependencias del health check.
type Deps struct {
	Providers interface{ Names() []string }
	Cache     Pinger        // opcional
	Timeout   time.Duration // timeout del ping; default 2s
}

// Result es el estado del servicio.
type Result struct {
	Status    string            `json:"status"` // ok | degraded
	Providers []string          `json:"providers"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Healthy indica si el servicio puede atender logins.
func (r Result) Healthy() bool { return r.Status == "ok" }

// HealthService reporta el estado del servicio.
type HealthService interface {
	Check(ctx context.Context) Result
}

type healthService struct {
	deps Deps
}

// NewHealthService crea el service de health.
func NewHealthService(d Deps) HealthService {
	if d.Timeout <= 0 {
		d.Timeout = 2 * time.Second
	}
	return &healthService{deps: d}
}

func (s *healthService) Check(ctx context.Context) Result {
	res := Result{Status: "ok", Providers: []string{}}
	if s.deps.Providers != nil {
		res.Providers = s.deps.Providers.Names()
	}

	if s.deps.Cache != nil {
		pctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
		defer cancel()

		res.Checks = map[string]string{"cache": "ok"}
		if err := s.deps.Cache.Ping(pctx); err != nil {
			res.Status = "degraded"
			res.Checks["cache"] = err.Error()
		}
	}
	return res
}
