package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(7, "abebe@example.com", "BORROWER", secret, 15)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "abebe@example.com", claims.Email)
	assert.Equal(t, "BORROWER", claims.Role)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(7, "abebe@example.com", "BORROWER", secret, 15)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ValidateAccessToken("garbage", secret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken(7, "abebe@example.com", "BORROWER", secret, -1)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, secret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRejectsForeignIssuerAndAlgorithm(t *testing.T) {
	foreign := gojwt.NewWithClaims(gojwt.SigningMethodHS256, Claims{
		UserID: 1,
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := foreign.SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ValidateAccessToken(signed, secret)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	none := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{
		UserID:           1,
		RegisteredClaims: gojwt.RegisteredClaims{Issuer: issuer},
	})
	unsigned, err := none.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ValidateAccessToken(unsigned, secret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(9, "token-id", secret, 7)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(9), claims.UserID)
	assert.Equal(t, "token-id", claims.TokenID)

	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), GetExpiryTime(7), time.Minute)
}
