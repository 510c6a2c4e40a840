package github

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func generateTestKeyPEM(t *testing.T) ([]byte, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pemData := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	return pemData, key
}

func TestNewAppAuth_RequiresAppID(t *testing.T) {
	pemData, _ := generateTestKeyPEM(t)

	_, err := NewAppAuth("", pemData, zap.NewNop())

	assert.ErrorContains(t, err, "app ID cannot be empty")
}

func TestNewAppAuth_RejectsGarbageKey(t *testing.T) {
	_, err := NewAppAuth("12345", []byte("not a pem block"), zap.NewNop())

	assert.ErrorContains(t, err, "failed to parse private key")
}

func TestNewAppAuth_AcceptsPKCS8(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	pemData := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	auth, err := NewAppAuth("12345", pemData, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, auth)
}

func TestGenerateJWT_SignsVerifiableClaims(t *testing.T) {
	pemData, key := generateTestKeyPEM(t)

	auth, err := NewAppAuth("12345", pemData, zap.NewNop())
	require.NoError(t, err)

	signed, err := auth.GenerateJWT()
	require.NoError(t, err)

	parsed, err := jwt.ParseWithClaims(signed, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		assert.Equal(t, jwt.SigningMethodRS256, token.Method)
		return &key.PublicKey, nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	require.True(t, ok)
	assert.Equal(t, "12345", claims.Issuer)

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, maxAppJWTDuration, lifetime)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Minute)
}
