package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadboard/config"
	"leadboard/models"
)

func TestJWTTokenRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	user := &models.User{ID: 7, Email: "jwt@example.com"}

	accessToken, refreshToken, err := GenerateJWTToken(user, 3)
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	// Both halves of the pair carry the same identity, so the refresh
	// exchange can rebuild the session from either.
	claims, err := ParseJWTToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, uint(3), claims.SessionID)

	claims, err = ParseJWTToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, uint(3), claims.SessionID)
}

func TestJWTTokenWrongSecret(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	user := &models.User{ID: 7, Email: "jwt@example.com"}

	_, refreshToken, err := GenerateJWTToken(user, 3)
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "rotated-secret"
	_, err = ParseJWTToken(refreshToken)
	assert.Error(t, err)
}

func TestParseJWTTokenGarbage(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	_, err := ParseJWTToken("not-a-token")
	assert.Error(t, err)
}
