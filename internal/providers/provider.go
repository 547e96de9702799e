// Package providers defines the pluggable login strategy system.
//
// A strategy adapts one third-party identity provider to the host login flow.
// Strategies register under a fixed name and the HTTP layer looks them up per
// request.
//
// Architecture:
// - Provider interface: what the login flow needs from a strategy
// - Registry: name -> Provider, filled at startup
// - Implementations: one sub-package per identity provider (ripple)
package providers

import (
	"context"
	"errors"
)

// Provider is a login strategy backed by a third-party identity provider.
type Provider interface {
	// Name is the registry key, e.g. "ripple".
	Name() string

	// AuthorizeURL builds the redirect to the provider's authorization dialog.
	// opts carries per-request options; the strategy decides which of them
	// reach the provider.
	AuthorizeURL(state string, opts AuthOptions) string

	// Authenticate exchanges the authorization code, fetches the user profile
	// and runs the host verify callback. It returns whatever the callback
	// returned as the user.
	Authenticate(ctx context.Context, code string) (any, error)
}

// AuthOptions are per-request options handed to a strategy when a login starts.
type AuthOptions map[string]any

// Errors for registry operations.
var (
	ErrProviderNotFound  = errors.New("provider not found")
	ErrDuplicateProvider = errors.New("provider already registered")
)

// Errors shared by strategies. Authenticate failures match one of these with
// errors.Is so the HTTP layer can map them without knowing the strategy.
var (
	// ErrIdentityLookup marks a failed call to a profile endpoint.
	ErrIdentityLookup = errors.New("identity lookup failed")

	// ErrTokenExchange marks a failed authorization code exchange.
	ErrTokenExchange = errors.New("token exchange failed")

	// ErrAuthenticationFailed is returned when the host rejects the user.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrMalformedProfile marks a profile body that decodes but is unusable.
	ErrMalformedProfile = errors.New("malformed profile")
)
