package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-unit-tests-only!"

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateAccessToken(t *testing.T) {
	mgr := NewJWTManager(testSecret)

	tokenString := signToken(t, testSecret, jwt.SigningMethodHS256, &Claims{
		CustomerID: "cust-001",
		Email:      "ada@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "cust-001",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := mgr.ValidateAccessToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "cust-001", claims.CustomerID)
	assert.Equal(t, "ada@x.com", claims.Email)
}

func TestValidateAccessTokenFallsBackToSubject(t *testing.T) {
	mgr := NewJWTManager(testSecret)

	tokenString := signToken(t, testSecret, jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		Subject:   "cust-002",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	claims, err := mgr.ValidateAccessToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "cust-002", claims.CustomerID)
}

func TestValidateAccessTokenExpired(t *testing.T) {
	mgr := NewJWTManager(testSecret)

	tokenString := signToken(t, testSecret, jwt.SigningMethodHS256, &Claims{
		CustomerID: "cust-001",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	_, err := mgr.ValidateAccessToken(tokenString)
	assert.Error(t, err)
}

func TestValidateAccessTokenWrongSecret(t *testing.T) {
	mgr := NewJWTManager(testSecret)

	tokenString := signToken(t, "some-other-secret", jwt.SigningMethodHS256, &Claims{
		CustomerID: "cust-001",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := mgr.ValidateAccessToken(tokenString)
	assert.Error(t, err)
}

func TestValidateAccessTokenGarbage(t *testing.T) {
	mgr := NewJWTManager(testSecret)

	_, err := mgr.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}
