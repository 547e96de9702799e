package ripple

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithDefaults_Endpoints(t *testing.T) {
	cfg := WithDefaults(Config{ClientID: "id"})

	require.Equal(t, "https://id.ripple.com/dialog/authorize", cfg.AuthorizationURL)
	require.Equal(t, "https://id.ripple.com/oauth/token", cfg.TokenURL)
	require.Equal(t, "https://id.ripple.com/api/identity/profile", cfg.UserProfileURL)
	require.Equal(t, ",", cfg.ScopeSeparator)
	require.Equal(t, "id", cfg.ClientID)
}

func TestWithDefaults_KeepsExplicitEndpoints(t *testing.T) {
	cfg := WithDefaults(Config{
		AuthorizationURL: "https://staging.example/authorize",
		TokenURL:         "https://staging.example/token",
		UserProfileURL:   "https://staging.example/profile",
		ScopeSeparator:   " ",
	})

	require.Equal(t, "https://staging.example/authorize", cfg.AuthorizationURL)
	require.Equal(t, "https://staging.example/token", cfg.TokenURL)
	require.Equal(t, "https://staging.example/profile", cfg.UserProfileURL)
	require.Equal(t, " ", cfg.ScopeSeparator)
}

func TestWithDefaults_UserAgent(t *testing.T) {
	tests := []struct {
		name string
		in   Config
		want string
	}{
		{
			name: "from user agent option",
			in:   Config{UserAgent: "myapp.com"},
			want: "myapp.com",
		},
		{
			name: "fallback literal",
			in:   Config{},
			want: DefaultUserAgent,
		},
		{
			name: "explicit header wins over user agent",
			in: Config{
				UserAgent:     "myapp.com",
				CustomHeaders: map[string]string{"User-Agent": "custom/1.0"},
			},
			want: "custom/1.0",
		},
		{
			name: "header key is canonicalized",
			in:   Config{CustomHeaders: map[string]string{"user-agent": "lower/1.0"}},
			want: "lower/1.0",
		},
		{
			name: "empty explicit header falls through",
			in: Config{
				UserAgent:     "myapp.com",
				CustomHeaders: map[string]string{"User-Agent": ""},
			},
			want: "myapp.com",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := WithDefaults(tt.in)
			require.Equal(t, tt.want, cfg.CustomHeaders["User-Agent"])
			require.NotEmpty(t, cfg.CustomHeaders["User-Agent"])
		})
	}
}

func TestWithDefaults_DoesNotMutateInput(t *testing.T) {
	headers := map[string]string{"X-Trace": "1"}
	scope := []string{ScopeUser}
	in := Config{CustomHeaders: headers, Scope: scope}

	out := WithDefaults(in)
	out.CustomHeaders["X-Other"] = "2"
	out.Scope[0] = ScopeFunds

	require.Equal(t, map[string]string{"X-Trace": "1"}, headers)
	require.Empty(t, in.AuthorizationURL)
	require.Equal(t, ScopeUser, scope[0])
	require.Equal(t, "1", out.CustomHeaders["X-Trace"])
}
