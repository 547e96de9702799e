package social

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/rippleid/internal/cache"
	"github.com/dropDatabas3/rippleid/internal/observability/logger"
	"github.com/dropDatabas3/rippleid/internal/providers"
)

const usedStatePrefix = "social:state:"

// CallbackDeps contains dependencies for callback service.
type CallbackDeps struct {
	Providers   ProviderLookup
	StateSigner StateSigner
	Cache       cache.Client
	Observer    LoginObserver // opcional
}

type callbackService struct {
	providers   ProviderLookup
	stateSigner StateSigner
	cache       cache.Client
	observer    LoginObserver
}

// NewCallbackService creates a new CallbackService.
func NewCallbackService(d CallbackDeps) CallbackService {
	return &callbackService{
		providers:   d.Providers,
		stateSigner: d.StateSigner,
		cache:       d.Cache,
		observer:    d.Observer,
	}
}

func (s *callbackService) Callback(ctx context.Context, req CallbackRequest) (*CallbackResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("social.callback"),
		logger.Provider(req.Provider),
	)

	if req.Error != "" {
		log.Warn("provider returned error",
			logger.String("error", req.Error),
			logger.String("description", req.ErrorDescription),
		)
		s.observe(req.Provider, LoginRejected)
		return nil, fmt.Errorf("%w: %s", ErrCallbackProviderError, req.Error)
	}
	if req.State == "" {
		return nil, ErrCallbackMissingState
	}
	if req.Code == "" {
		return nil, ErrCallbackMissingCode
	}

	claims, err := s.stateSigner.ParseState(req.State)
	if err != nil {
		log.Warn("state rejected", logger.Err(err))
		return nil, err
	}
	if claims.Provider != req.Provider {
		log.Warn("state provider mismatch", logger.String("state_provider", claims.Provider))
		return nil, ErrStateProvider
	}

	p, err := s.providers.Get(req.Provider)
	if err != nil {
		if errors.Is(err, providers.ErrProviderNotFound) {
			return nil, ErrCallbackProviderUnknown
		}
		return nil, err
	}

	if err := s.consumeState(ctx, claims); err != nil {
		if errors.Is(err, ErrStateReplayed) {
			log.Warn("state replayed", logger.String("nonce", claims.Nonce))
		}
		return nil, err
	}

	user, err := p.Authenticate(ctx, req.Code)
	if err != nil {
		if errors.Is(err, providers.ErrAuthenticationFailed) {
			s.observe(req.Provider, LoginRejected)
			log.Info("user rejected by verify callback")
		} else {
			s.observe(req.Provider, LoginError)
			log.Error("authentication failed", logger.Err(err))
		}
		return nil, err
	}

	s.observe(req.Provider, LoginSuccess)
	log.Info("social login completed")

	return &CallbackResult{
		Provider: req.Provider,
		User:     user,
		Options:  claims.Options,
	}, nil
}

// consumeState marca el nonce como usado hasta que el state expire.
func (s *callbackService) consumeState(ctx context.Context, claims *StateClaims) error {
	ttl := stateLeeway
	if claims.ExpiresAt != nil {
		ttl += time.Until(claims.ExpiresAt.Time)
	}
	if ttl < time.Second {
		ttl = time.Second
	}

	ok, err := s.cache.SetNX(ctx, usedStatePrefix+claims.Nonce, "1", ttl)
	if err != nil {
		return fmt.Errorf("consume state: %w", err)
	}
	if !ok {
		return ErrStateReplayed
	}
	return nil
}

func (s *callbackService) observe(provider, result string) {
	if s.observer != nil {
		s.observer.ObserveLogin(provider, result)
	}
}
