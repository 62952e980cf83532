package helpers

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(now *time.Time) *JWTManager {
	m := NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	m.Now = func() time.Time { return *now }
	return m
}

func TestAccessTokenRoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
	m := newTestManager(&now)

	tok, exp, err := m.GenerateAccessToken("u-1", "accountant")
	require.NoError(t, err)
	assert.Equal(t, now.Add(15*time.Minute), exp)

	c, err := m.ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.UserID)
	assert.Equal(t, "accountant", c.Role)
	assert.Equal(t, TokenTypeAccess, c.Type)
	assert.NotEmpty(t, c.ID)
}

func TestAccessTokenExpiresAfterTTL(t *testing.T) {
	now := time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
	m := newTestManager(&now)
	tok, _, err := m.GenerateAccessToken("u-1", "admin")
	require.NoError(t, err)

	now = now.Add(14 * time.Minute)
	_, err = m.ParseAccessToken(tok)
	assert.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = m.ParseAccessToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTamperedTokenIsInvalidNotExpired(t *testing.T) {
	now := time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
	m := newTestManager(&now)
	tok, _, err := m.GenerateAccessToken("u-1", "admin")
	require.NoError(t, err)

	// flip the first signature character
	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = m.ParseAccessToken(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// an expired tampered token is still reported as invalid
	now = now.Add(time.Hour)
	_, err = m.ParseAccessToken(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = m.ParseAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	now := time.Now()
	m := newTestManager(&now)

	access, _, err := m.GenerateAccessToken("u-1", "admin")
	require.NoError(t, err)
	refresh, _, err := m.GenerateRefreshToken("u-1")
	require.NoError(t, err)

	_, err = m.ParseRefreshToken(access)
	assert.Error(t, err)
	_, err = m.ParseAccessToken(refresh)
	assert.Error(t, err)
}

func TestWrongTypeClaimRejectedEvenWithRightSecret(t *testing.T) {
	now := time.Now()
	m := newTestManager(&now)

	sign := func(typ string, secret []byte) string {
		c := &Claims{UserID: "u-1", Role: "admin", Type: typ, RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		}}
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
		require.NoError(t, err)
		return s
	}

	for _, typ := range []string{TokenTypeRefresh, "", "ACCESS", "id"} {
		_, err := m.ParseAccessToken(sign(typ, m.AccessSecret))
		assert.ErrorIs(t, err, ErrTokenWrongType, "type %q", typ)
	}
	for _, typ := range []string{TokenTypeAccess, "", "Refresh"} {
		_, err := m.ParseRefreshToken(sign(typ, m.RefreshSecret))
		assert.ErrorIs(t, err, ErrTokenWrongType, "type %q", typ)
	}
}

func TestRejectsNoneAndMissingExpiry(t *testing.T) {
	now := time.Now()
	m := newTestManager(&now)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u-1", Type: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))}})
	s, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.ParseAccessToken(s)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "u-1", Type: TokenTypeAccess}).
		SignedString(m.AccessSecret)
	require.NoError(t, err)
	_, err = m.ParseAccessToken(noExp)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshTokensAreUniquePerIssue(t *testing.T) {
	now := time.Now()
	m := newTestManager(&now)
	a, _, err := m.GenerateRefreshToken("u-1")
	require.NoError(t, err)
	b, _, err := m.GenerateRefreshToken("u-1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
