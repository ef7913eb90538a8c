package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_URL", "JWT_SECRET", "LOG_RETENTION_DAYS", "CORS_ORIGINS", "ACCESS_TTL_SECONDS", "TRUSTED_PROXIES"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	assert.Equal(t, "5000", cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.True(t, cfg.UsesDevSecret())
	assert.Equal(t, 7, cfg.LogRetentionDays)
	assert.Nil(t, cfg.CorsOrigins)
	assert.Nil(t, cfg.TrustedProxies)
	assert.Equal(t, 24*time.Hour, cfg.AccessTTL())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "postgres://localhost/portfolio")
	t.Setenv("JWT_SECRET", "  real-secret ")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("LOG_RETENTION_DAYS", "30")
	t.Setenv("CACHE_TTL_SECONDS", "not-a-number")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres://localhost/portfolio", cfg.DatabaseURL)
	assert.Equal(t, "real-secret", cfg.JWTSecret)
	assert.False(t, cfg.UsesDevSecret())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CorsOrigins)
	assert.Equal(t, 7, cfg.LogRetentionDays)
	assert.Equal(t, 60, cfg.CacheTTLSeconds)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)
}
