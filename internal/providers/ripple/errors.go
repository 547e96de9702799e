package ripple

import (
	"errors"
	"fmt"

	"github.com/dropDatabas3/rippleid/internal/providers"
)

var (
	// ErrIdentityLookup marks a failed call to the identity profile endpoint.
	ErrIdentityLookup = providers.ErrIdentityLookup

	// ErrTokenExchange marks a failed authorization code exchange.
	ErrTokenExchange = providers.ErrTokenExchange

	// ErrAuthenticationFailed is returned when the verify callback rejects the user.
	ErrAuthenticationFailed = providers.ErrAuthenticationFailed

	ErrNilVerify = errors.New("ripple: verify callback is required")
)

// InternalOAuthError wraps a failure of a request made on the user's behalf
// to Ripple ID. Kind is one of ErrIdentityLookup or ErrTokenExchange.
type InternalOAuthError struct {
	Message string
	Kind    error
	Err     error
}

func (e *InternalOAuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ripple: %s: %v", e.Message, e.Err)
	}
	return "ripple: " + e.Message
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *InternalOAuthError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// StatusError is a non-2xx answer from Ripple ID.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}
