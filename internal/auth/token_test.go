package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/project-service/internal/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("secret", 15)

	token, exp, err := tm.GenerateToken("u1", domain.RoleManager)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, exp.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)
	require.Equal(t, domain.RoleManager, claims.Role)
}

func TestParseTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret", 15)
	other := NewTokenManager("different", 15)

	token, _, err := tm.GenerateToken("u1", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	// negative ttl puts the expiry in the past
	tm := &TokenManager{secret: []byte("secret"), ttl: -1}

	token, _, err := tm.GenerateToken("u1", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	require.Error(t, err)
}
