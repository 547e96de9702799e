package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/rippleid/internal/config"
	"github.com/dropDatabas3/rippleid/internal/providers/ripple"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Cache.Kind = "memory"
	cfg.Cache.Prefix = "test"
	cfg.State.SigningKey = strings.Repeat("s", 32)
	cfg.State.Issuer = "rippleid-test"
	cfg.Providers.Ripple.Enabled = true
	cfg.Providers.Ripple.ClientID = "cid"
	cfg.Providers.Ripple.CallbackURL = "http://localhost:8080/auth/ripple/callback"
	return cfg
}

func TestVerifyProfile(t *testing.T) {
	u, err := VerifyProfile(context.Background(), ripple.Tokens{}, &ripple.Profile{Identity: "rAlice"})
	require.NoError(t, err)
	require.NotNil(t, u)

	u, err = VerifyProfile(context.Background(), ripple.Tokens{}, &ripple.Profile{})
	require.NoError(t, err)
	require.Nil(t, u)

	// identidad numérica: se acepta tal cual
	u, err = VerifyProfile(context.Background(), ripple.Tokens{}, &ripple.Profile{Identity: float64(42)})
	require.NoError(t, err)
	require.NotNil(t, u)
}

func TestBuild(t *testing.T) {
	app, cleanup, err := Build(context.Background(), testConfig(), Options{RuntimeCollectors: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	require.Equal(t, []string{"ripple"}, app.Registry.Names())

	rec := httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/ripple/login", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Location"), ripple.DefaultAuthorizationURL+"?"))

	rec = httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestBuild_ShortSigningKey(t *testing.T) {
	cfg := testConfig()
	cfg.State.SigningKey = "short"

	_, _, err := Build(context.Background(), cfg, Options{})
	require.Error(t, err)
}

func TestBuild_UnknownCache(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Kind = "memcached"

	_, _, err := Build(context.Background(), cfg, Options{})
	require.Error(t, err)
}
