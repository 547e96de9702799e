package social

import (
	"context"
	"errors"
)

// CallbackService handles the callback phase of social login.
type CallbackService interface {
	// Callback validates the state, runs the provider strategy and returns the
	// authenticated user.
	Callback(ctx context.Context, req CallbackRequest) (*CallbackResult, error)
}

// CallbackRequest contains the parameters for processing callback.
type CallbackRequest struct {
	Provider string
	State    string
	Code     string
	// Error es el parámetro error que agrega el proveedor cuando el usuario
	// cancela o la autorización falla.
	Error            string
	ErrorDescription string
}

// CallbackResult contains the result of callback processing.
type CallbackResult struct {
	Provider string
	User     any
	Options  map[string]any
}

// Errors for callback service.
var (
	ErrCallbackProviderError   = errors.New("provider returned an error")
	ErrCallbackMissingState    = errors.New("missing state")
	ErrCallbackMissingCode     = errors.New("missing code")
	ErrCallbackProviderUnknown = errors.New("unknown provider")
)

// Resultados de login para métricas.
const (
	LoginSuccess  = "success"
	LoginRejected = "rejected"
	LoginError    = "error"
)

// LoginObserver recibe el resultado de cada callback. *metrics.Metrics la implementa.
type LoginObserver interface {
	ObserveLogin(provider, result string)
}
