package social

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StateClaims contains the claims for social login state JWT.
type StateClaims struct {
	Provider string         `json:"provider"`
	Nonce    string         `json:"nonce"`
	Options  map[string]any `json:"opts,omitempty"`
	jwtv5.RegisteredClaims
}

// StateAudience is the expected audience for social state tokens.
const StateAudience = "social-state"

// stateLeeway tolera desfase de reloj al validar exp/iat.
const stateLeeway = 30 * time.Second

// StateSigner interface for signing state JWTs.
type StateSigner interface {
	SignState(claims StateClaims) (string, error)
	ParseState(tokenString string) (*StateClaims, error)
}

// Errors for state operations.
var (
	ErrStateInvalid  = errors.New("invalid state token")
	ErrStateExpired  = errors.New("state token expired")
	ErrStateProvider = errors.New("state provider mismatch")
	ErrStateReplayed = errors.New("state token already used")
)

// HMACStateSigner firma el state con HS256 y una clave compartida.
type HMACStateSigner struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewHMACStateSigner crea un signer. La clave debe tener al menos 32 bytes.
func NewHMACStateSigner(key []byte, issuer string, ttl time.Duration) (*HMACStateSigner, error) {
	if len(key) < 32 {
		return nil, fmt.Errorf("state signing key too short: %d bytes", len(key))
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &HMACStateSigner{
		key:    append([]byte(nil), key...),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// SignState signs a state JWT. iss/aud/exp/iat/jti se completan acá.
func (s *HMACStateSigner) SignState(claims StateClaims) (string, error) {
	now := s.now().UTC()
	claims.RegisteredClaims = jwtv5.RegisteredClaims{
		Issuer:    s.issuer,
		Audience:  jwtv5.ClaimStrings{StateAudience},
		ExpiresAt: jwtv5.NewNumericDate(now.Add(s.ttl)),
		IssuedAt:  jwtv5.NewNumericDate(now),
		NotBefore: jwtv5.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
	return jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(s.key)
}

// ParseState parses and validates a state JWT.
func (s *HMACStateSigner) ParseState(tokenString string) (*StateClaims, error) {
	claims := &StateClaims{}
	tk, err := jwtv5.ParseWithClaims(tokenString, claims,
		func(*jwtv5.Token) (any, error) { return s.key, nil },
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithIssuer(s.issuer),
		jwtv5.WithAudience(StateAudience),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithLeeway(stateLeeway),
		jwtv5.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrStateExpired
		}
		return nil, ErrStateInvalid
	}
	if !tk.Valid || claims.Nonce == "" || claims.Provider == "" {
		return nil, ErrStateInvalid
	}
	return claims, nil
}
