package ripple

import (
	"encoding/json"
	"fmt"

	"github.com/dropDatabas3/rippleid/internal/providers"
)

// Profile is the normalized Ripple ID user. The four identity fields hold the
// values exactly as decoded from the response (string, float64, []any, ...);
// a field Ripple ID did not send is nil.
type Profile struct {
	Provider     string `json:"provider"`
	Identity     any    `json:"identity"`
	Email        any    `json:"email,omitempty"`
	Attestations any    `json:"attestations,omitempty"`
	CreatedAt    any    `json:"created_at,omitempty"`

	// Raw is the decoded response body as Ripple ID sent it.
	Raw map[string]any `json:"-"`
}

// ErrEmptyProfile is returned when the identity endpoint answers with a JSON
// null instead of an object.
var ErrEmptyProfile = fmt.Errorf("ripple: identity response is null: %w", providers.ErrMalformedProfile)

// IdentityString devuelve la identidad como texto ("" si falta).
func (p *Profile) IdentityString() string {
	return textOf(p.Identity)
}

// EmailString devuelve el email como texto ("" si falta).
func (p *Profile) EmailString() string {
	return textOf(p.Email)
}

func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// parseProfile decodes an identity response. Missing fields stay nil; decode
// errors are returned as is.
func parseProfile(body []byte) (*Profile, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrEmptyProfile
	}
	return &Profile{
		Provider:     ProfileProvider,
		Identity:     raw["identity"],
		Email:        raw["email"],
		Attestations: raw["attestations"],
		CreatedAt:    raw["created_at"],
		Raw:          raw,
	}, nil
}
