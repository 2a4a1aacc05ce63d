package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef-test"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, "42", false, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Exp, 5*time.Second)

	claims, err := ParseAccessToken(testSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.False(t, claims.IsAdmin)

	admin, err := NewAccessToken(testSecret, AdminSubject, true, time.Hour)
	require.NoError(t, err)
	claims, err = ParseAccessToken(testSecret, admin.Token)
	require.NoError(t, err)
	assert.Equal(t, AdminSubject, claims.Subject)
	assert.True(t, claims.IsAdmin)
}

func TestParseAccessTokenRejects(t *testing.T) {
	expired, err := NewAccessToken(testSecret, "1", false, -time.Minute)
	require.NoError(t, err)
	_, err = ParseAccessToken(testSecret, expired.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	good, err := NewAccessToken(testSecret, "1", false, time.Hour)
	require.NoError(t, err)
	_, err = ParseAccessToken("another-secret-value", good.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseAccessToken(testSecret, "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// HS512 with the right key is still rejected.
	other := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := other.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = ParseAccessToken(testSecret, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Secret#123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "Secret#123", hash)
	assert.True(t, VerifyPassword(hash, "Secret#123"))
	assert.False(t, VerifyPassword(hash, "secret#123"))
	assert.False(t, VerifyPassword("not-a-hash", "Secret#123"))
}

func TestNewPaymentReference(t *testing.T) {
	re := regexp.MustCompile(`^MPS[0-9]{10}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		ref, err := NewPaymentReference()
		require.NoError(t, err)
		assert.Regexp(t, re, ref)
		seen[ref] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestSecretsEqual(t *testing.T) {
	assert.True(t, SecretsEqual("k3y", "k3y"))
	assert.False(t, SecretsEqual("k3y", "k3Y"))
	assert.False(t, SecretsEqual("k3y", ""))
	assert.False(t, SecretsEqual("", ""))
}
