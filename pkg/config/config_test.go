package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load(".env.missing")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "test-secret", cfg.Jwt.Secret)
	assert.InDelta(t, 1000.0, cfg.Account.StartingBalance, 0.001)
	assert.Equal(t, 700, cfg.Account.StartingCreditScore)
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("ACCOUNT_STARTING_CREDIT_SCORE", "650")

	cfg, err := Load(".env.missing")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 650, cfg.Account.StartingCreditScore)
}

func TestLoadRequiresJwtSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "placeholder")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	_, err := Load(".env.missing")
	require.Error(t, err, "a missing JWT secret should fail startup")
}
