package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "REDIS_DB", "AUTH_PROVIDERS", "ACTIVITY_DEFAULT_LIMIT", "POSTGRES_RUN_MIGRATIONS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.True(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, 5, cfg.Dashboard.RecentLimit)
	assert.Equal(t, 10, cfg.Dashboard.ActivityDefaultLimit)
	assert.Equal(t, 6, cfg.Dashboard.AnalyticsMonths)
	assert.Nil(t, cfg.Auth.Providers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_PROVIDERS", "github, google,,")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("POSTGRES_MAX_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, []string{"github", "google"}, cfg.Auth.Providers)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "primary")

	_, err := Load()
	assert.Error(t, err)
}

func TestRequestTimeout_Disabled(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{RequestTimeoutSeconds: 0}.RequestTimeout())
	assert.Equal(t, time.Hour, AuthConfig{}.AccessTokenTTL())
	assert.Equal(t, 5*time.Second, NotificationConfig{}.WebhookTimeout())
	assert.Equal(t, 2*time.Second, NotificationConfig{WebhookTimeoutSeconds: 2}.WebhookTimeout())
}
