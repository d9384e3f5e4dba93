package upstream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSigningKey = "test-upstream-signing-key"

func parseCallToken(t *testing.T, raw string, opts ...jwt.ParserOption) (*CallClaims, error) {
	t.Helper()
	claims := &CallClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (any, error) {
		return []byte(testSigningKey), nil
	}, append([]jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}, opts...)...)
	return claims, err
}

func TestTokenSignerSign(t *testing.T) {
	signer := NewTokenSigner(testSigningKey, WithEnvironment("test"))

	raw, err := signer.Sign("corporation-registry")
	require.NoError(t, err)

	claims, err := parseCallToken(t, raw, jwt.WithAudience("corporation-registry"), jwt.WithIssuer(DefaultIssuer))
	require.NoError(t, err)
	assert.Equal(t, "test", claims.Env)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenSignerExpiry(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	signer := NewTokenSigner(testSigningKey, WithClock(func() time.Time { return past }), WithTokenTTL(time.Minute))

	raw, err := signer.Sign("profile-api")
	require.NoError(t, err)

	_, err = parseCallToken(t, raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokensAreUnique(t *testing.T) {
	signer := NewTokenSigner(testSigningKey)
	a, err := signer.Sign("profile-api")
	require.NoError(t, err)
	b, err := signer.Sign("profile-api")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCredentialsApply(t *testing.T) {
	t.Run("zero value adds nothing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		require.NoError(t, Credentials{}.Apply(req, "profile-api"))
		assert.Empty(t, req.Header.Get("X-API-Key"))
		assert.Empty(t, req.Header.Get("Authorization"))
	})

	t.Run("api key and bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		creds := Credentials{APIKey: "key-123", Signer: NewTokenSigner(testSigningKey)}
		require.NoError(t, creds.Apply(req, "profile-api"))

		assert.Equal(t, "key-123", req.Header.Get("X-API-Key"))
		auth := req.Header.Get("Authorization")
		require.True(t, strings.HasPrefix(auth, "Bearer "))
		_, err := parseCallToken(t, strings.TrimPrefix(auth, "Bearer "), jwt.WithAudience("profile-api"))
		assert.NoError(t, err)
	})
}
