package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadDefaults verifies the development defaults.
func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 20*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 5*time.Second, cfg.RateLimitAI)
	assert.Equal(t, "0 * * * *", cfg.LeagueRefreshCron)
	assert.Equal(t, 5, cfg.DefaultDailyTarget)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.NotEmpty(t, cfg.JWTSecret)
}

// TestLoadRejectsBadValues verifies malformed settings fail at startup.
func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	t.Setenv("LLM_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("JWT_TTL_HOURS", "-1")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("JWT_TTL_HOURS", "12")
	t.Setenv("LLM_PROVIDER", "claude")
	_, err = Load()
	assert.Error(t, err)
}

// TestLoadRequiresSecretInProduction verifies production never signs with the dev secret.
func TestLoadRequiresSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}
