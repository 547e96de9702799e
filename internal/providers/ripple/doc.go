// Package ripple implements the Ripple ID login strategy.
//
// Ripple ID speaks plain OAuth 2.0: there is no ID token, so the user is
// identified by a separate call to the identity profile endpoint once the
// authorization code has been exchanged. The protocol itself is handled by
// golang.org/x/oauth2; this package only supplies endpoints, the mandatory
// User-Agent header, profile normalization, and the extra authorization
// parameters the Ripple dialog understands.
//
// Usage:
//
//	s, err := ripple.New(ripple.Config{
//	    ClientID:     "123-456-789",
//	    ClientSecret: "shhh-its-a-secret",
//	    CallbackURL:  "https://www.example.net/auth/ripple/callback",
//	    UserAgent:    "myapp.com",
//	}, func(ctx context.Context, tokens ripple.Tokens, p *ripple.Profile) (any, error) {
//	    return users.FindOrCreate(ctx, p.IdentityString())
//	})
//
// Registration flows pass {"_type": "signup"} as options to AuthorizeURL;
// callers that already ran the Customer Identification Process pass
// {"_cip_done": true}.
package ripple
