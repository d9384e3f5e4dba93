package upstream

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultIssuer identifies this service in upstream bearer tokens.
const DefaultIssuer = "onboard"

// DefaultTokenTTL keeps bearer tokens valid for a single call plus clock skew.
const DefaultTokenTTL = time.Minute

// CallClaims are the claims carried by the bearer token on upstream calls.
type CallClaims struct {
	Env string `json:"env,omitempty"`
	jwt.RegisteredClaims
}

// TokenSigner mints short-lived HS256 bearer tokens for upstream calls.
type TokenSigner struct {
	signingKey []byte
	issuer     string
	env        string
	ttl        time.Duration
	now        func() time.Time
}

// SignerOption configures the TokenSigner.
type SignerOption func(*TokenSigner)

func WithTokenTTL(ttl time.Duration) SignerOption {
	return func(s *TokenSigner) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithEnvironment(env string) SignerOption {
	return func(s *TokenSigner) {
		s.env = env
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) SignerOption {
	return func(s *TokenSigner) {
		s.now = now
	}
}

func NewTokenSigner(signingKey string, opts ...SignerOption) *TokenSigner {
	s := &TokenSigner{
		signingKey: []byte(signingKey),
		issuer:     DefaultIssuer,
		ttl:        DefaultTokenTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sign returns a token scoped to audience.
func (s *TokenSigner) Sign(audience string) (string, error) {
	now := s.now()
	claims := CallClaims{
		Env: s.env,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign upstream token: %w", err)
	}
	return signed, nil
}

// Credentials decorates outgoing requests. The zero value sends nothing.
type Credentials struct {
	APIKey string
	Signer *TokenSigner
}

// Apply sets the API key header and, when a signer is configured, a bearer token for audience.
func (c Credentials) Apply(req *http.Request, audience string) error {
	if c.APIKey != "" {
		req.Header.Set("X-API-Key", c.APIKey)
	}
	if c.Signer == nil {
		return nil
	}
	token, err := c.Signer.Sign(audience)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}
