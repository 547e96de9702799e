package social

import (
	"context"
	"errors"

	"github.com/dropDatabas3/rippleid/internal/providers"
)

// StartService handles the start phase of social login.
type StartService interface {
	// Start initiates social login flow and returns the redirect URL.
	Start(ctx context.Context, req StartRequest) (*StartResult, error)
}

// StartRequest contains the parameters for starting social login.
type StartRequest struct {
	Provider string
	Options  providers.AuthOptions
}

// StartResult contains the result of starting social login.
type StartResult struct {
	RedirectURL string
}

// Errors for start service.
var (
	ErrStartProviderUnknown = errors.New("unknown provider")
	ErrStartStateFailed     = errors.New("failed to sign state")
)
