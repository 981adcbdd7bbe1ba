//go:build !integration

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT("admin", "ADMIN", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
}

func TestJWT_RejectsExpired(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT("admin", "ADMIN", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token)
	assert.Error(t, err)
}

func TestJWT_RejectsOtherSecret(t *testing.T) {
	SetJWTSecret("first")
	token, err := GenerateJWT("admin", "ADMIN", time.Hour)
	require.NoError(t, err)

	SetJWTSecret("second")
	_, err = ParseJWT(token)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.True(t, CheckPassword("hunter22", string(hash)))
	assert.False(t, CheckPassword("hunter23", string(hash)))
}
