// Package server arma las dependencias del servicio HTTP a partir de la config.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dropDatabas3/rippleid/internal/cache"
	"github.com/dropDatabas3/rippleid/internal/config"
	healthctrl "github.com/dropDatabas3/rippleid/internal/http/controllers/health"
	socialctrl "github.com/dropDatabas3/rippleid/internal/http/controllers/social"
	"github.com/dropDatabas3/rippleid/internal/http/router"
	healthsvc "github.com/dropDatabas3/rippleid/internal/http/services/health"
	socialsvc "github.com/dropDatabas3/rippleid/internal/http/services/social"
	"github.com/dropDatabas3/rippleid/internal/metrics"
	"github.com/dropDatabas3/rippleid/internal/observability/logger"
	"github.com/dropDatabas3/rippleid/internal/providers"
	"github.com/dropDatabas3/rippleid/internal/providers/ripple"
	"github.com/dropDatabas3/rippleid/internal/rate"
)

// App es el servicio ya cableado.
type App struct {
	Handler  http.Handler
	Registry *providers.Registry
	Cache    cache.Client
	Metrics  *metrics.Metrics
}

// Options permite reemplazar piezas al construir (tests, CLI).
type Options struct {
	// Verify decide qué usuario devuelve el callback. Default: VerifyProfile.
	Verify ripple.VerifyFunc
	// HTTPClient para las llamadas a Ripple ID.
	HTTPClient *http.Client
	// RuntimeCollectors registra las métricas de Go y del proceso.
	RuntimeCollectors bool
}

// VerifyProfile acepta cualquier perfil con identidad y lo devuelve como usuario.
func VerifyProfile(_ context.Context, _ ripple.Tokens, p *ripple.Profile) (any, error) {
	if p == nil || p.IdentityString() == "" {
		return nil, nil
	}
	return p, nil
}

// Build crea cache, métricas, estrategias, services y router.
// cleanup libera el cache y debe llamarse al apagar.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*App, func() error, error) {
	log := logger.Named("wiring")

	store, err := cache.New(ctx, cache.Config{
		Driver:     cfg.Cache.Kind,
		Addr:       cfg.Cache.Redis.Addr,
		Password:   cfg.Cache.Redis.Password,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Prefix,
		DefaultTTL: cfg.State.TTL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init cache: %w", err)
	}
	cleanup := store.Close

	reg := prometheus.NewRegistry()
	if opts.RuntimeCollectors {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m, err := metrics.New(reg)
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("init metrics: %w", err)
	}

	registry := providers.NewRegistry()
	if cfg.Providers.Ripple.Enabled {
		strategy, err := NewRippleStrategy(cfg, opts, m)
		if err != nil {
			_ = cleanup()
			return nil, nil, err
		}
		if err := registry.Register(strategy); err != nil {
			_ = cleanup()
			return nil, nil, err
		}
	}

	signer, err := socialsvc.NewHMACStateSigner([]byte(cfg.State.SigningKey), cfg.State.Issuer, cfg.State.TTL)
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("init state signer: %w", err)
	}

	social := socialsvc.NewServices(socialsvc.CallbackDeps{
		Providers:   registry,
		StateSigner: signer,
		Cache:       store,
		Observer:    m,
	})
	health := healthsvc.NewHealthService(healthsvc.Deps{Providers: registry, Cache: store})

	deps := router.Deps{
		Social:  socialctrl.NewControllers(social),
		Health:  healthctrl.NewHealthController(health),
		Metrics: m,

		TrustProxyHeaders: cfg.Server.TrustProxyHeaders,
	}
	if cfg.RateLimit.Enabled {
		deps.RateLimiter = rate.NewWindowLimiter(store, "rl:", cfg.RateLimit.Max, cfg.RateLimit.Window)
	}
	handler := router.New(deps)

	log.Info("service wired",
		logger.Strings("providers", registry.Names()),
		logger.ClientID(cfg.Providers.Ripple.ClientID),
		logger.String("cache", cfg.Cache.Kind),
		logger.Any("rate_limit", cfg.RateLimit.Enabled),
	)

	return &App{Handler: handler, Registry: registry, Cache: store, Metrics: m}, cleanup, nil
}

// NewRippleStrategy crea la estrategia Ripple ID desde la config.
// obs puede ser nil.
func NewRippleStrategy(cfg *config.Config, opts Options, obs ripple.ProfileObserver) (*ripple.Strategy, error) {
	verify := opts.Verify
	if verify == nil {
		verify = VerifyProfile
	}

	var sopts []ripple.Option
	if opts.HTTPClient != nil {
		sopts = append(sopts, ripple.WithHTTPClient(opts.HTTPClient))
	}
	if obs != nil {
		sopts = append(sopts, ripple.WithObserver(obs))
	}

	s, err := ripple.New(cfg.Providers.Ripple.Strategy(), verify, sopts...)
	if err != nil {
		return nil, fmt.Errorf("init ripple strategy: %w", err)
	}
	return s, nil
}
