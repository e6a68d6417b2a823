package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg := FromEnv()

	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "Password1234.", cfg.DefaultResetPassword)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 366, cfg.MaxLeaveRangeDays)
	assert.Error(t, cfg.Validate(), "missing secret must be rejected")
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "dev-secret")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("RATE_LIMIT_PER_SECOND", "2.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("RUN_SEED", "false")
	t.Setenv("MAX_LEAVE_RANGE_DAYS", "90")

	cfg := FromEnv()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.InDelta(t, 2.5, cfg.RateLimitPerSecond, 0.0001)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.RunSeed)
	assert.Equal(t, 90, cfg.MaxLeaveRangeDays)
}

func TestValidateRejectsNonPositiveLeaveRange(t *testing.T) {
	t.Setenv("JWT_SECRET", "dev-secret")
	t.Setenv("MAX_LEAVE_RANGE_DAYS", "0")

	cfg := FromEnv()

	assert.ErrorContains(t, cfg.Validate(), "MAX_LEAVE_RANGE_DAYS")
}

func TestValidateProductionSecretLength(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "short")

	cfg := FromEnv()

	assert.ErrorContains(t, cfg.Validate(), "at least 32 characters")
}
