package social

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dropDatabas3/rippleid/internal/observability/logger"
	"github.com/dropDatabas3/rippleid/internal/providers"
)

// ProviderLookup resuelve estrategias por nombre. *providers.Registry la implementa.
type ProviderLookup interface {
	Get(name string) (providers.Provider, error)
	Names() []string
}

// StartDeps contains dependencies for start service.
type StartDeps struct {
	Providers   ProviderLookup
	StateSigner StateSigner
}

type startService struct {
	providers   ProviderLookup
	stateSigner StateSigner
}

// NewStartService creates a new StartService.
func NewStartService(d StartDeps) StartService {
	return &startService{
		providers:   d.Providers,
		stateSigner: d.StateSigner,
	}
}

func (s *startService) Start(ctx context.Context, req StartRequest) (*StartResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("social.start"))

	if req.Provider == "" {
		return nil, ErrStartProviderUnknown
	}
	p, err := s.providers.Get(req.Provider)
	if err != nil {
		if errors.Is(err, providers.ErrProviderNotFound) {
			return nil, ErrStartProviderUnknown
		}
		return nil, err
	}

	state, err := s.stateSigner.SignState(StateClaims{
		Provider: p.Name(),
		Nonce:    uuid.NewString(),
		Options:  req.Options,
	})
	if err != nil {
		log.Error("failed to sign state", logger.Provider(p.Name()), logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrStartStateFailed, err)
	}

	redirect := p.AuthorizeURL(state, req.Options)
	log.Debug("social login started", logger.Provider(p.Name()))

	return &StartResult{RedirectURL: redirect}, nil
}
