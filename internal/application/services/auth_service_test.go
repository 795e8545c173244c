package services

import (
	"testing"

	"github.com/Gerrylewin/shopguide-blog/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		AdminPasswordHash: string(hash),
		JWTSecret:         "test-secret",
		LegacyAPIToken:    "legacy-token",
	}
	return NewAuthService(cfg, newTestLogger(t))
}

func TestAuth_LoginAndValidate(t *testing.T) {
	svc := newTestAuthService(t)

	token, err := svc.Login("correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, svc.ValidateToken(token))
}

func TestAuth_LoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login("battery-staple")
	assert.Error(t, err)
}

func TestAuth_ValidateRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(t)

	assert.Error(t, svc.ValidateToken("not.a.jwt"))
	assert.Error(t, svc.ValidateToken(""))
}

func TestAuth_LegacyToken(t *testing.T) {
	svc := newTestAuthService(t)

	assert.True(t, svc.ValidLegacyToken("legacy-token"))
	assert.False(t, svc.ValidLegacyToken("wrong"))

	unconfigured := NewAuthService(&config.Config{}, newTestLogger(t))
	assert.False(t, unconfigured.ValidLegacyToken(""), "empty configured token must never match")
	assert.False(t, unconfigured.Configured())
}
