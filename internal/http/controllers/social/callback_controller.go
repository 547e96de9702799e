package social

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dropDatabas3/rippleid/internal/http/errors"
	svc "github.com/dropDatabas3/rippleid/internal/http/services/social"
	"github.com/dropDatabas3/rippleid/internal/observability/logger"
	"github.com/dropDatabas3/rippleid/internal/providers"
)

// CallbackController handles social login callback endpoint.
type CallbackController struct {
	service svc.CallbackService
}

// NewCallbackController creates a new CallbackController.
func NewCallbackController(service svc.CallbackService) *CallbackController {
	return &CallbackController{service: service}
}

// CallbackResponse is the JSON body of a successful callback.
type CallbackResponse struct {
	User any `json:"user"`
}

// Callback handles GET /auth/{provider}/callback
func (c *CallbackController) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider := chi.URLParam(r, "provider")
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("CallbackController.Callback"), logger.Provider(provider))

	q := r.URL.Query()
	result, err := c.service.Callback(ctx, svc.CallbackRequest{
		Provider:         provider,
		State:            strings.TrimSpace(q.Get("state")),
		Code:             strings.TrimSpace(q.Get("code")),
		Error:            strings.TrimSpace(q.Get("error")),
		ErrorDescription: strings.TrimSpace(q.Get("error_description")),
	})
	if err != nil {
		appErr := mapCallbackError(err)
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			log.Error("callback failed", logger.Err(err))
		}
		httperrors.WriteError(w, appErr)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	httperrors.WriteJSON(w, http.StatusOK, CallbackResponse{User: result.User})
}

// mapCallbackError maps a service or strategy error to the HTTP error.
func mapCallbackError(err error) *httperrors.AppError {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.Is(err, svc.ErrCallbackProviderError):
		return httperrors.ErrAccessDenied.WithDetail(err.Error())
	case errors.Is(err, svc.ErrCallbackMissingState):
		return httperrors.ErrBadRequest.WithDetail("state required")
	case errors.Is(err, svc.ErrCallbackMissingCode):
		return httperrors.ErrBadRequest.WithDetail("code required")
	case errors.Is(err, svc.ErrStateExpired):
		return httperrors.ErrInvalidState.WithDetail("state expired")
	case errors.Is(err, svc.ErrStateReplayed):
		return httperrors.ErrInvalidState.WithDetail("state already used")
	case errors.Is(err, svc.ErrStateProvider):
		return httperrors.ErrInvalidState.WithDetail("provider mismatch")
	case errors.Is(err, svc.ErrStateInvalid):
		return httperrors.ErrInvalidState.WithDetail("invalid state")
	case errors.Is(err, svc.ErrCallbackProviderUnknown):
		return httperrors.ErrNotFound.WithDetail("unknown provider")
	case errors.Is(err, providers.ErrAuthenticationFailed):
		return httperrors.ErrAuthenticationFailed
	case errors.Is(err, providers.ErrTokenExchange):
		return httperrors.ErrBadGateway.WithDetail("token exchange failed").WithCause(err)
	case errors.Is(err, providers.ErrIdentityLookup):
		return httperrors.ErrBadGateway.WithDetail("identity lookup failed").WithCause(err)
	case errors.Is(err, providers.ErrMalformedProfile), errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return httperrors.ErrBadGateway.WithDetail("malformed profile").WithCause(err)
	default:
		return httperrors.ErrInternalServerError.WithCause(err)
	}
}
