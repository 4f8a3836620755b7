package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("MOVIE_API_TOKEN", "tok")
	t.Setenv("SEAT_HOLD_DURATION", "90s")
	t.Setenv("SEAT_DEMO_OVERLAY", "yes")
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("AMQP_URL", "amqp://a")
	t.Setenv("RABBITMQ_URL", "")
	for _, k := range []string{"APP_PORT", "MOVIE_API_GROUP", "LOGIN_IDLE_TIMEOUT"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "GP07", cfg.APIGroup)
	assert.Equal(t, 90*time.Second, cfg.HoldDuration)
	assert.Equal(t, 5*time.Minute, cfg.IdleTimeout)
	assert.True(t, cfg.DemoOverlay)
	assert.Equal(t, BackendRedis, cfg.StorageBackend)
	assert.Equal(t, "amqp://a", cfg.AMQPURL)
	assert.Empty(t, cfg.DB.Host)
}

func TestValidate(t *testing.T) {
	ok := Config{StorageBackend: BackendMemory, HoldDuration: time.Minute, VisitorTTL: time.Hour}
	require.NoError(t, ok.Validate())

	bad := ok
	bad.StorageBackend = "etcd"
	assert.Error(t, bad.Validate())

	bad = ok
	bad.HoldDuration = 0
	assert.Error(t, bad.Validate())
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	rl := LoadRateLimitConfig()
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 5*time.Minute, rl.TTL)
}

func TestLoadCacheConfig_Methods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	cc := LoadCacheConfig()
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cc.Methods)
	assert.Equal(t, "catalog", cc.Prefix)
}

func TestNewRedisClient_NoClientWhenPingFails(t *testing.T) {
	client, err := NewRedisClient(RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Nil(t, client)
}
