package ripple

import "net/http"

const (
	// ProviderName is the registry key of this strategy.
	ProviderName = "ripple"

	// ProfileProvider is the provider value stamped on every Profile.
	ProfileProvider = "Ripple"

	DefaultAuthorizationURL = "https://id.ripple.com/dialog/authorize"
	DefaultTokenURL         = "https://id.ripple.com/oauth/token"
	DefaultUserProfileURL   = "https://id.ripple.com/api/identity/profile"
	DefaultScopeSeparator   = ","

	// DefaultUserAgent is sent when neither CustomHeaders nor UserAgent set one.
	// Ripple ID rejects API requests without a User-Agent.
	DefaultUserAgent = "rippleid-go"

	headerUserAgent = "User-Agent"
)

// Scopes understood by Ripple ID.
const (
	ScopeUser  = "user"
	ScopeFunds = "funds"
)

// Config holds the Ripple ID application settings.
type Config struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string

	// Scope is sent joined with ScopeSeparator. Empty means no scope parameter.
	Scope []string

	AuthorizationURL string
	TokenURL         string
	UserProfileURL   string
	ScopeSeparator   string

	// UserAgent identifies the calling application, e.g. its domain name.
	UserAgent string

	// CustomHeaders are added to every request sent to Ripple ID.
	// An explicit "User-Agent" entry wins over UserAgent.
	CustomHeaders map[string]string
}

// WithDefaults returns a copy of cfg with every unset endpoint, the scope
// separator and the User-Agent header filled in. cfg and its maps are not
// modified.
func WithDefaults(cfg Config) Config {
	out := cfg

	if out.AuthorizationURL == "" {
		out.AuthorizationURL = DefaultAuthorizationURL
	}
	if out.TokenURL == "" {
		out.TokenURL = DefaultTokenURL
	}
	if out.UserProfileURL == "" {
		out.UserProfileURL = DefaultUserProfileURL
	}
	if out.ScopeSeparator == "" {
		out.ScopeSeparator = DefaultScopeSeparator
	}
	if len(cfg.Scope) > 0 {
		out.Scope = append([]string(nil), cfg.Scope...)
	}

	headers := make(map[string]string, len(cfg.CustomHeaders)+1)
	for k, v := range cfg.CustomHeaders {
		headers[http.CanonicalHeaderKey(k)] = v
	}
	if headers[headerUserAgent] == "" {
		ua := cfg.UserAgent
		if ua == "" {
			ua = DefaultUserAgent
		}
		headers[headerUserAgent] = ua
	}
	out.CustomHeaders = headers

	return out
}
