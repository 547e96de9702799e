package ripple

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/dropDatabas3/rippleid/internal/observability/logger"
	"github.com/dropDatabas3/rippleid/internal/providers"
	"github.com/dropDatabas3/rippleid/internal/util"
)

// OAuth2Core is the part of the OAuth 2.0 authorization-code flow the strategy
// delegates to. *oauth2.Config satisfies it.
type OAuth2Core interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
	Client(ctx context.Context, t *oauth2.Token) *http.Client
}

// Tokens are the credentials obtained from the code exchange.
type Tokens struct {
	AccessToken  string
	RefreshToken string

	// Raw gives access to the full token response (Raw.Extra).
	Raw *oauth2.Token
}

// VerifyFunc is supplied by the host application. It returns the application
// user for the profile, or nil to reject the login.
type VerifyFunc func(ctx context.Context, tokens Tokens, profile *Profile) (any, error)

// ProfileObserver receives the outcome of each profile fetch.
type ProfileObserver interface {
	ObserveProfileFetch(provider, outcome string, d time.Duration)
}

// Profile fetch outcomes reported to ProfileObserver.
const (
	OutcomeOK           = "ok"
	OutcomeLookupFailed = "lookup_failed"
	OutcomeParseFailed  = "parse_failed"
)

// Strategy authenticates users against Ripple ID. It is safe for concurrent
// use; its configuration is fixed by New.
type Strategy struct {
	cfg    Config
	verify VerifyFunc

	core       OAuth2Core
	httpClient *http.Client
	baseClient *http.Client

	log      *zap.Logger
	observer ProfileObserver
}

var _ providers.Provider = (*Strategy)(nil)

// Option customizes a Strategy.
type Option func(*Strategy)

// WithHTTPClient sets the client used for every request to Ripple ID.
// CustomHeaders are layered on top of its transport.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Strategy) { s.baseClient = c }
}

// WithOAuth2Core replaces the golang.org/x/oauth2 core.
func WithOAuth2Core(core OAuth2Core) Option {
	return func(s *Strategy) { s.core = core }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Strategy) { s.log = l }
}

func WithObserver(o ProfileObserver) Option {
	return func(s *Strategy) { s.observer = o }
}

// New builds a Strategy from cfg. Unset fields take their defaults (see
// WithDefaults); cfg itself is left untouched. Client credentials are not
// checked here: a bad pair fails at code exchange.
func New(cfg Config, verify VerifyFunc, opts ...Option) (*Strategy, error) {
	if verify == nil {
		return nil, ErrNilVerify
	}

	s := &Strategy{
		cfg:    WithDefaults(cfg),
		verify: verify,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpClient = withHeaders(s.baseClient, s.cfg.CustomHeaders)

	if s.core == nil {
		s.core = &oauth2.Config{
			ClientID:     s.cfg.ClientID,
			ClientSecret: s.cfg.ClientSecret,
			RedirectURL:  s.cfg.CallbackURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   s.cfg.AuthorizationURL,
				TokenURL:  s.cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		}
	}

	return s, nil
}

// Name returns "ripple".
func (s *Strategy) Name() string { return ProviderName }

// Config returns the effective configuration, defaults included.
func (s *Strategy) Config() Config {
	cfg := s.cfg
	cfg.Scope = append([]string(nil), s.cfg.Scope...)
	cfg.CustomHeaders = make(map[string]string, len(s.cfg.CustomHeaders))
	for k, v := range s.cfg.CustomHeaders {
		cfg.CustomHeaders[k] = v
	}
	return cfg
}

// AuthorizeURL builds the Ripple ID dialog URL for state. Scopes are joined
// with the configured separator and AuthorizationParams(opts) is appended.
func (s *Strategy) AuthorizeURL(state string, opts providers.AuthOptions) string {
	var extra []oauth2.AuthCodeOption
	if len(s.cfg.Scope) > 0 {
		extra = append(extra, oauth2.SetAuthURLParam("scope", strings.Join(s.cfg.Scope, s.cfg.ScopeSeparator)))
	}

	params := s.AuthorizationParams(opts)
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		extra = append(extra, oauth2.SetAuthURLParam(k, fmt.Sprint(params[k])))
	}

	return s.core.AuthCodeURL(state, extra...)
}

// Authenticate exchanges code for tokens, loads the profile and hands both to
// the verify callback.
func (s *Strategy) Authenticate(ctx context.Context, code string) (any, error) {
	tok, err := s.core.Exchange(s.clientContext(ctx), code)
	if err != nil {
		return nil, &InternalOAuthError{Message: "failed to obtain access token", Kind: ErrTokenExchange, Err: err}
	}

	profile, err := s.UserProfile(ctx, tok.AccessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.verify(ctx, Tokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Raw:          tok,
	}, profile)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAuthenticationFailed
	}
	return user, nil
}

// UserProfile fetches the identity of the access token's owner.
//
// A transport failure or non-2xx answer yields an *InternalOAuthError matching
// ErrIdentityLookup. A body that is not a JSON object yields the decode error
// unchanged, a JSON null yields ErrEmptyProfile. Exactly one of the results is
// non-nil.
func (s *Strategy) UserProfile(ctx context.Context, accessToken string) (*Profile, error) {
	start := time.Now()

	body, err := s.get(ctx, s.cfg.UserProfileURL, accessToken)
	if err != nil {
		s.observe(OutcomeLookupFailed, start)
		s.logFor(ctx).Warn("ripple identity lookup failed",
			logger.Provider(ProviderName),
			logger.Op("Strategy.UserProfile"),
			logger.Err(err),
		)
		return nil, &InternalOAuthError{Message: "failed to fetch user profile", Kind: ErrIdentityLookup, Err: err}
	}

	profile, err := parseProfile(body)
	if err != nil {
		s.observe(OutcomeParseFailed, start)
		s.logFor(ctx).Warn("ripple profile malformed",
			logger.Provider(ProviderName),
			logger.Op("Strategy.UserProfile"),
			logger.Err(err),
		)
		return nil, err
	}

	s.observe(OutcomeOK, start)
	s.logFor(ctx).Debug("ripple profile loaded",
		logger.Provider(ProviderName),
		logger.Identity(util.MaskIdentity(profile.IdentityString())),
		logger.String("email", util.MaskEmail(profile.EmailString())),
	)
	return profile, nil
}

func (s *Strategy) get(ctx context.Context, url, accessToken string) ([]byte, error) {
	client := s.core.Client(s.clientContext(ctx), &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}

// clientContext makes the oauth2 core use our header-carrying client.
func (s *Strategy) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

// logFor prefers the injected logger, then the request-scoped one.
func (s *Strategy) logFor(ctx context.Context) *zap.Logger {
	if s.log != nil {
		return s.log
	}
	return logger.From(ctx)
}

func (s *Strategy) observe(outcome string, start time.Time) {
	if s.observer != nil {
		s.observer.ObserveProfileFetch(ProviderName, outcome, time.Since(start))
	}
}
