package social

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/rippleid/internal/cache"
	"github.com/dropDatabas3/rippleid/internal/providers"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

type fakeProvider struct {
	name     string
	user     any
	err      error
	gotCodes []string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) AuthorizeURL(state string, opts providers.AuthOptions) string {
	v := url.Values{"state": {state}}
	if t, ok := opts["_type"].(string); ok {
		v.Set("_login", t)
	}
	return "https://idp.test/authorize?" + v.Encode()
}

func (f *fakeProvider) Authenticate(ctx context.Context, code string) (any, error) {
	f.gotCodes = append(f.gotCodes, code)
	return f.user, f.err
}

type loginRecorder struct {
	mu      sync.Mutex
	results []string
}

func (r *loginRecorder) ObserveLogin(provider, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, provider+":"+result)
}

type fixture struct {
	provider *fakeProvider
	signer   *HMACStateSigner
	observer *loginRecorder
	services Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	p := &fakeProvider{name: "ripple", user: map[string]any{"identity": "rUser"}}
	reg := providers.NewRegistry()
	require.NoError(t, reg.Register(p))

	signer, err := NewHMACStateSigner(testKey, "rippleid-test", time.Minute)
	require.NoError(t, err)

	obs := &loginRecorder{}
	store := cache.NewMemory("test", time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	return &fixture{
		provider: p,
		signer:   signer,
		observer: obs,
		services: NewServices(CallbackDeps{
			Providers:   reg,
			StateSigner: signer,
			Cache:       store,
			Observer:    obs,
		}),
	}
}

func stateFrom(t *testing.T, redirect string) string {
	t.Helper()
	u, err := url.Parse(redirect)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestNewHMACStateSigner_ShortKey(t *testing.T) {
	_, err := NewHMACStateSigner([]byte("short"), "iss", time.Minute)
	require.Error(t, err)
}

func TestStateSigner_RoundTrip(t *testing.T) {
	signer, err := NewHMACStateSigner(testKey, "rippleid-test", time.Minute)
	require.NoError(t, err)

	tok, err := signer.SignState(StateClaims{
		Provider: "ripple",
		Nonce:    "n-1",
		Options:  map[string]any{"_type": "signup"},
	})
	require.NoError(t, err)

	claims, err := signer.ParseState(tok)
	require.NoError(t, err)
	require.Equal(t, "ripple", claims.Provider)
	require.Equal(t, "n-1", claims.Nonce)
	require.Equal(t, "signup", claims.Options["_type"])
	require.Equal(t, "rippleid-test", claims.Issuer)
	require.NotEmpty(t, claims.ID)
}

func TestStateSigner_Rejections(t *testing.T) {
	signer, err := NewHMACStateSigner(testKey, "rippleid-test", time.Minute)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		signer.now = func() time.Time { return time.Now().Add(-time.Hour) }
		tok, err := signer.SignState(StateClaims{Provider: "ripple", Nonce: "n"})
		signer.now = time.Now
		require.NoError(t, err)

		_, err = signer.ParseState(tok)
		require.ErrorIs(t, err, ErrStateExpired)
	})

	t.Run("other key", func(t *testing.T) {
		other, err := NewHMACStateSigner([]byte(strings.Repeat("x", 32)), "rippleid-test", time.Minute)
		require.NoError(t, err)
		tok, err := other.SignState(StateClaims{Provider: "ripple", Nonce: "n"})
		require.NoError(t, err)

		_, err = signer.ParseState(tok)
		require.ErrorIs(t, err, ErrStateInvalid)
	})

	t.Run("other issuer", func(t *testing.T) {
		other, err := NewHMACStateSigner(testKey, "someone-else", time.Minute)
		require.NoError(t, err)
		tok, err := other.SignState(StateClaims{Provider: "ripple", Nonce: "n"})
		require.NoError(t, err)

		_, err = signer.ParseState(tok)
		require.ErrorIs(t, err, ErrStateInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := signer.ParseState("not-a-jwt")
		require.ErrorIs(t, err, ErrStateInvalid)
	})

	t.Run("missing nonce", func(t *testing.T) {
		tok, err := signer.SignState(StateClaims{Provider: "ripple"})
		require.NoError(t, err)

		_, err = signer.ParseState(tok)
		require.ErrorIs(t, err, ErrStateInvalid)
	})
}

func TestStart_UnknownProvider(t *testing.T) {
	f := newFixture(t)

	_, err := f.services.Start.Start(context.Background(), StartRequest{Provider: "github"})
	require.ErrorIs(t, err, ErrStartProviderUnknown)

	_, err = f.services.Start.Start(context.Background(), StartRequest{})
	require.ErrorIs(t, err, ErrStartProviderUnknown)
}

func TestStart_SignsStateAndPassesOptions(t *testing.T) {
	f := newFixture(t)

	res, err := f.services.Start.Start(context.Background(), StartRequest{
		Provider: "ripple",
		Options:  providers.AuthOptions{"_type": "signup"},
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(res.RedirectURL, "https://idp.test/authorize?"))
	require.Contains(t, res.RedirectURL, "_login=signup")

	claims, err := f.signer.ParseState(stateFrom(t, res.RedirectURL))
	require.NoError(t, err)
	require.Equal(t, "ripple", claims.Provider)
	require.NotEmpty(t, claims.Nonce)
}

func TestStart_FreshNoncePerLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.services.Start.Start(ctx, StartRequest{Provider: "ripple"})
	require.NoError(t, err)
	b, err := f.services.Start.Start(ctx, StartRequest{Provider: "ripple"})
	require.NoError(t, err)

	ca, err := f.signer.ParseState(stateFrom(t, a.RedirectURL))
	require.NoError(t, err)
	cb, err := f.signer.ParseState(stateFrom(t, b.RedirectURL))
	require.NoError(t, err)
	require.NotEqual(t, ca.Nonce, cb.Nonce)
}

func TestCallback_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start, err := f.services.Start.Start(ctx, StartRequest{Provider: "ripple", Options: providers.AuthOptions{"_type": "signup"}})
	require.NoError(t, err)

	res, err := f.services.Callback.Callback(ctx, CallbackRequest{
		Provider: "ripple",
		State:    stateFrom(t, start.RedirectURL),
		Code:     "abc",
	})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"identity": "rUser"}, res.User)
	require.Equal(t, "signup", res.Options["_type"])
	require.Equal(t, []string{"abc"}, f.provider.gotCodes)
	require.Equal(t, []string{"ripple:success"}, f.observer.results)
}

func TestCallback_StateIsSingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start, err := f.services.Start.Start(ctx, StartRequest{Provider: "ripple"})
	require.NoError(t, err)
	req := CallbackRequest{Provider: "ripple", State: stateFrom(t, start.RedirectURL), Code: "abc"}

	_, err = f.services.Callback.Callback(ctx, req)
	require.NoError(t, err)

	_, err = f.services.Callback.Callback(ctx, req)
	require.ErrorIs(t, err, ErrStateReplayed)
	require.Len(t, f.provider.gotCodes, 1)
}

func TestCallback_RequestErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start, err := f.services.Start.Start(ctx, StartRequest{Provider: "ripple"})
	require.NoError(t, err)
	state := stateFrom(t, start.RedirectURL)

	tests := []struct {
		name string
		req  CallbackRequest
		want error
	}{
		{"provider error", CallbackRequest{Provider: "ripple", Error: "access_denied", State: state}, ErrCallbackProviderError},
		{"missing state", CallbackRequest{Provider: "ripple", Code: "abc"}, ErrCallbackMissingState},
		{"missing code", CallbackRequest{Provider: "ripple", State: state}, ErrCallbackMissingCode},
		{"bad state", CallbackRequest{Provider: "ripple", State: "nope", Code: "abc"}, ErrStateInvalid},
		{"provider mismatch", CallbackRequest{Provider: "github", State: state, Code: "abc"}, ErrStateProvider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.services.Callback.Callback(ctx, tt.req)
			require.ErrorIs(t, err, tt.want)
		})
	}
	require.Empty(t, f.provider.gotCodes)
	require.Equal(t, []string{"ripple:rejected"}, f.observer.results)
}

func TestCallback_AuthenticateErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		result string
	}{
		{"rejected", providers.ErrAuthenticationFailed, "ripple:rejected"},
		{"lookup", errors.Join(providers.ErrIdentityLookup, errors.New("boom")), "ripple:error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.provider.user = nil
			f.provider.err = tt.err
			ctx := context.Background()

			start, err := f.services.Start.Start(ctx, StartRequest{Provider: "ripple"})
			require.NoError(t, err)

			_, err = f.services.Callback.Callback(ctx, CallbackRequest{
				Provider: "ripple",
				State:    stateFrom(t, start.RedirectURL),
				Code:     "abc",
			})
			require.ErrorIs(t, err, tt.err)
			require.Equal(t, []string{tt.result}, f.observer.results)
		})
	}
}
