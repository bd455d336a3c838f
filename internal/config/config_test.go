package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTP.Addr)
	require.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	require.Equal(t, time.Hour, cfg.Auth.TicketTTL)
	require.True(t, cfg.Auth.AllowAdminSignup)
	require.Equal(t, "data/collab.json", cfg.Store.Path)
	require.NotZero(t, cfg.HTTP.MaxBodyBytes)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ACADCOLLAB_HTTP_ADDR", ":9090")
	t.Setenv("ACADCOLLAB_AUTH_SECRET", "sekret")
	t.Setenv("ACADCOLLAB_AUTH_TOKEN_TTL", "30m")
	t.Setenv("ACADCOLLAB_AUTH_ALLOW_ADMIN_SIGNUP", "false")
	t.Setenv("ACADCOLLAB_STORE_PG_DSN", "postgres://localhost/collab")
	t.Setenv("ACADCOLLAB_HTTP_ALLOWED_ORIGINS", "https://app.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Addr)
	require.Equal(t, "sekret", cfg.Auth.Secret)
	require.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	require.False(t, cfg.Auth.AllowAdminSignup)
	require.Equal(t, "postgres://localhost/collab", cfg.Store.PGDSN)
	require.Equal(t, []string{"https://app.example.com"}, cfg.HTTP.AllowedOrigins)
}

func TestSanitizeClampsValues(t *testing.T) {
	cfg := &Config{}
	cfg.RateLimitPerSecond = -5
	cfg.HTTP.MaxBodyBytes = -1
	cfg.Sanitize()
	require.Equal(t, 0, cfg.RateLimitPerSecond)
	require.Equal(t, int64(1<<20), cfg.HTTP.MaxBodyBytes)
	require.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
}
