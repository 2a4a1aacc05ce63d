package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "rental")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "car_rental")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADMIN_SECRET_KEY", "let-me-in")
	t.Setenv("PUBLIC_BASE_URL", "https://cdn.example.com/")
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("RATE_LIMIT_CAPACITY", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.App.Env)
	assert.Equal(t, ":8080", cfg.ListenAddr())
	assert.Equal(t, "rental", cfg.DB.User)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "let-me-in", cfg.Auth.AdminSecretKey)
	assert.Equal(t, 60*time.Minute, cfg.Auth.AccessTTL())
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "https://cdn.example.com", cfg.Upload.PublicBaseURL)
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Cache.Methods)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 5, cfg.RateLimit.Capacity)
	assert.Equal(t, 3*time.Second, cfg.RateLimit.RefillInterval)
}

func TestLoadMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_USER", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User")
}

func TestLoadRejectsShortSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWTSecret")
}

func TestRateLimitNormalize(t *testing.T) {
	c := RateLimitConfig{Capacity: 0, RefillTokens: -2, RefillInterval: 0, TTL: time.Second}
	c.normalize()
	assert.Equal(t, 1, c.Capacity)
	assert.Equal(t, 1, c.RefillTokens)
	assert.Equal(t, time.Second, c.RefillInterval)
	assert.Equal(t, 5*time.Second, c.TTL)
}

func TestRedisAddress(t *testing.T) {
	assert.Equal(t, "localhost:6379", RedisConfig{}.Address())
	assert.Equal(t, "cache:6380", RedisConfig{Addr: "cache:6380"}.Address())
	assert.Equal(t, "redis:6379", RedisConfig{Addr: "cache:6380", Host: "redis", Port: "6379"}.Address())
}
