package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator(accessExp time.Duration) *JWTAuthenticator {
	return NewJWTAuthenticator("access-secret", "refresh-secret", "parfumvilag", "parfumvilag", accessExp, 24*time.Hour)
}

func TestGenerateAndValidateTokens(t *testing.T) {
	a := newTestAuthenticator(time.Hour)

	access, refresh, err := a.GenerateTokens(42)
	require.NoError(t, err)

	tok, err := a.ValidateAccessToken(access)
	require.NoError(t, err)
	id, err := UserID(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	tok, err = a.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	id, err = UserID(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	a := newTestAuthenticator(time.Hour)
	access, refresh, err := a.GenerateTokens(7)
	require.NoError(t, err)

	_, err = a.ValidateAccessToken(refresh)
	assert.Error(t, err)
	_, err = a.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	a := newTestAuthenticator(-time.Minute)
	access, _, err := a.GenerateTokens(1)
	require.NoError(t, err)

	_, err = a.ValidateAccessToken(access)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateAccessToken_WrongIssuer(t *testing.T) {
	other := NewJWTAuthenticator("access-secret", "refresh-secret", "someone-else", "parfumvilag", time.Hour, time.Hour)
	access, _, err := other.GenerateTokens(1)
	require.NoError(t, err)

	_, err = newTestAuthenticator(time.Hour).ValidateAccessToken(access)
	assert.Error(t, err)
}

func TestUserID_RejectsBadSubject(t *testing.T) {
	for _, sub := range []any{"42", 0.0, -3.0, 1.5, nil} {
		tok := &jwt.Token{Claims: jwt.MapClaims{"sub": sub}}
		_, err := UserID(tok)
		assert.ErrorIs(t, err, ErrInvalidSubject, "sub=%v", sub)
	}
}
