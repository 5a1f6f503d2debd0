package config

import (
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestLoadLockConfigDefaults(t *testing.T) {
    t.Setenv("LOCK_BACKEND", "")
    t.Setenv("LOCK_TTL", "")
    t.Setenv("LOCK_WAIT", "")
    c := LoadLockConfig()
    assert.Equal(t, LockLocal, c.Backend)
    assert.Equal(t, 10*time.Second, c.TTL)
    assert.Equal(t, 5*time.Second, c.Wait)
}

func TestLoadLockConfigClampsWait(t *testing.T) {
    t.Setenv("LOCK_BACKEND", "redis")
    t.Setenv("LOCK_TTL", "2s")
    t.Setenv("LOCK_WAIT", "1m")
    c := LoadLockConfig()
    assert.Equal(t, LockRedis, c.Backend)
    assert.Equal(t, 2*time.Second, c.Wait)

    t.Setenv("LOCK_BACKEND", "zookeeper")
    assert.Equal(t, LockLocal, LoadLockConfig().Backend)
}

func TestLoadMemoryBackendSkipsDatabase(t *testing.T) {
    t.Setenv("APP_ENV", "test")
    t.Setenv("APP_PORT", "8080")
    t.Setenv("STORE_BACKEND", StoreMemory)
    t.Setenv("JWT_SECRET", "s3cret")
    t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
    t.Setenv("BCRYPT_COST", "4")
    t.Setenv("RABBITMQ_URL", "")
    t.Setenv("AMQP_URL", "amqp://legacy/")

    cfg := Load()
    assert.Equal(t, StoreMemory, cfg.StoreBackend)
    assert.Empty(t, cfg.DBHost)
    assert.Equal(t, 15, cfg.AccessTTLMin)
    assert.Equal(t, "amqp://legacy/", cfg.AMQPURL)
    assert.Equal(t, "logs", cfg.LogDir)
}

func TestLoadEnvFilesKeepsExistingValues(t *testing.T) {
    dir := t.TempDir()
    f := filepath.Join(dir, "test.env")
    require.NoError(t, os.WriteFile(f, []byte("SEATCTL_A=from-file\nSEATCTL_B=from-file\n"), 0o600))
    t.Setenv("SEATCTL_A", "from-env")
    t.Setenv("SEATCTL_B", "")
    os.Unsetenv("SEATCTL_B")
    t.Cleanup(func() { os.Unsetenv("SEATCTL_B") })

    LoadEnvFiles(f, filepath.Join(dir, "missing.env"))
    assert.Equal(t, "from-env", os.Getenv("SEATCTL_A"))
    assert.Equal(t, "from-file", os.Getenv("SEATCTL_B"))
}

func TestLoadCacheConfigDropsUnsafeMethods(t *testing.T) {
    t.Setenv("CACHE_METHODS", "get, post ,HEAD")
    t.Setenv("CACHE_TTL", "-1s")
    c := LoadCacheConfig()
    assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, c.Methods)
    assert.Equal(t, 10*time.Second, c.TTL)
    assert.Equal(t, "seats:cache", c.Prefix)
}

func TestLoadRateLimitConfigShorthands(t *testing.T) {
    t.Setenv("RATE_LIMIT_BURST", "3")
    t.Setenv("RATE_LIMIT_REFILL_EVERY", "1m")
    t.Setenv("RATE_LIMIT_TTL", "1s")
    t.Setenv("RATE_LIMIT_ENABLED", "off")
    c := LoadRateLimitConfig()
    assert.False(t, c.Enabled)
    assert.Equal(t, 3, c.Capacity)
    assert.Equal(t, 1, c.RefillTokens)
    assert.Equal(t, time.Minute, c.RefillInterval)
    assert.Equal(t, 5*time.Minute, c.TTL)
    assert.Equal(t, "user_route", c.KeyStrategy)
}

func TestLoadRedisConfig(t *testing.T) {
    t.Setenv("REDIS_ADDR", "cache:6380")
    t.Setenv("REDIS_HOST", "")
    t.Setenv("REDIS_PORT", "")
    t.Setenv("REDIS_DB", "2")
    t.Setenv("REDIS_TLS", "1")
    c := LoadRedisConfig()
    assert.Equal(t, "cache:6380", c.Addr)
    assert.Equal(t, 2, c.Options().DB)
    assert.NotNil(t, c.Options().TLSConfig)

    t.Setenv("REDIS_HOST", "r1")
    t.Setenv("REDIS_PORT", "7000")
    assert.Equal(t, "r1:7000", LoadRedisConfig().Addr)
}

func TestLoadConsumerConfig(t *testing.T) {
    t.Setenv("RABBITMQ_URL", "")
    t.Setenv("AMQP_URL", "amqp://old/")
    t.Setenv("LOG_DIR", "")
    c := LoadConsumerConfig()
    assert.Equal(t, "amqp://old/", c.AMQPURL)
    assert.Equal(t, "logs", c.LogDir)
}
