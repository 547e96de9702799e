package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	svc "github.com/dropDatabas3/rippleid/internal/http/services/social"
	"github.com/dropDatabas3/rippleid/internal/providers"
	"github.com/dropDatabas3/rippleid/internal/providers/ripple"
)

type stubStart struct {
	got svc.StartRequest
	err error
}

func (s *stubStart) Start(_ context.Context, req svc.StartRequest) (*svc.StartResult, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &svc.StartResult{RedirectURL: "https://id.ripple.com/oauth/authorize?state=s"}, nil
}

type stubCallback struct {
	got  svc.CallbackRequest
	user any
	err  error
}

func (s *stubCallback) Callback(_ context.Context, req svc.CallbackRequest) (*svc.CallbackResult, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &svc.CallbackResult{Provider: req.Provider, User: s.user}, nil
}

func newRouter(start svc.StartService, cb svc.CallbackService) http.Handler {
	c := NewControllers(svc.Services{Start: start, Callback: cb})
	r := chi.NewRouter()
	r.Get("/auth/{provider}/login", c.Start.Login)
	r.Get("/auth/{provider}/register", c.Start.Register)
	r.Get("/auth/{provider}/callback", c.Callback.Callback)
	return r
}

func serve(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestLogin_Redirects(t *testing.T) {
	start := &stubStart{}
	rec := serve(newRouter(start, &stubCallback{}), "/auth/ripple/login?cip_done=true")

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "https://id.ripple.com/oauth/authorize?state=s", rec.Header().Get("Location"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.Equal(t, "ripple", start.got.Provider)
	require.Equal(t, providers.AuthOptions{ripple.OptionCIPDone: true}, start.got.Options)
}

func TestLogin_CIPDoneFalseAndRaw(t *testing.T) {
	start := &stubStart{}
	h := newRouter(start, &stubCallback{})

	serve(h, "/auth/ripple/login?cip_done=false")
	require.Equal(t, false, start.got.Options[ripple.OptionCIPDone])

	serve(h, "/auth/ripple/login?cip_done=yes")
	require.Equal(t, "yes", start.got.Options[ripple.OptionCIPDone])

	serve(h, "/auth/ripple/login")
	require.Empty(t, start.got.Options)
}

func TestRegister_SetsSignup(t *testing.T) {
	start := &stubStart{}
	rec := serve(newRouter(start, &stubCallback{}), "/auth/ripple/register")

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, ripple.TypeSignup, start.got.Options[ripple.OptionType])
}

func TestLogin_UnknownProvider(t *testing.T) {
	rec := serve(newRouter(&stubStart{err: svc.ErrStartProviderUnknown}, &stubCallback{}), "/auth/github/login")

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"NOT_FOUND"`)
}

func TestCallback_Success(t *testing.T) {
	cb := &stubCallback{user: map[string]any{"identity": "rUser"}}
	rec := serve(newRouter(&stubStart{}, cb), "/auth/ripple/callback?code=abc&state=xyz")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, svc.CallbackRequest{Provider: "ripple", Code: "abc", State: "xyz"}, cb.got)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, map[string]any{"user": map[string]any{"identity": "rUser"}}, body)
}

func TestCallback_ForwardsProviderError(t *testing.T) {
	cb := &stubCallback{err: fmt.Errorf("%w: access_denied", svc.ErrCallbackProviderError)}
	rec := serve(newRouter(&stubStart{}, cb), "/auth/ripple/callback?error=access_denied&error_description=nope")

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "access_denied", cb.got.Error)
	require.Equal(t, "nope", cb.got.ErrorDescription)
}

func TestCallback_ErrorMapping(t *testing.T) {
	var syntaxErr error = &json.SyntaxError{Offset: 1}

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"missing code", svc.ErrCallbackMissingCode, http.StatusBadRequest, "BAD_REQUEST"},
		{"missing state", svc.ErrCallbackMissingState, http.StatusBadRequest, "BAD_REQUEST"},
		{"expired", svc.ErrStateExpired, http.StatusBadRequest, "INVALID_STATE"},
		{"replayed", svc.ErrStateReplayed, http.StatusBadRequest, "INVALID_STATE"},
		{"mismatch", svc.ErrStateProvider, http.StatusBadRequest, "INVALID_STATE"},
		{"invalid", svc.ErrStateInvalid, http.StatusBadRequest, "INVALID_STATE"},
		{"unknown provider", svc.ErrCallbackProviderUnknown, http.StatusNotFound, "NOT_FOUND"},
		{"rejected", ripple.ErrAuthenticationFailed, http.StatusUnauthorized, "AUTHENTICATION_FAILED"},
		{"token exchange", &ripple.InternalOAuthError{Message: "failed to obtain access token", Kind: ripple.ErrTokenExchange, Err: errors.New("x")}, http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"identity lookup", &ripple.InternalOAuthError{Message: "failed to fetch user profile", Kind: ripple.ErrIdentityLookup, Err: errors.New("x")}, http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"malformed profile", syntaxErr, http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"null profile", ripple.ErrEmptyProfile, http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"other", errors.New("verify exploded"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newRouter(&stubStart{}, &stubCallback{err: tt.err}), "/auth/ripple/callback?code=abc&state=xyz")

			require.Equal(t, tt.wantCode, rec.Code)
			require.Contains(t, rec.Body.String(), `"code":"`+tt.wantBody+`"`)
			require.NotContains(t, rec.Body.String(), "verify exploded")
		})
	}
}
