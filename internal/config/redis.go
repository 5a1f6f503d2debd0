package config

import (
    "context"
    "crypto/tls"
    "net"
    "time"

    "github.com/redis/go-redis/v9"
)

// RedisConfig locates the Redis server shared by the rate limiter, the
// inventory cache and, with LOCK_BACKEND=redis, the per-event lock.
//
//   REDIS_ADDR            host:port (default localhost:6379)
//   REDIS_HOST/REDIS_PORT override REDIS_ADDR when both are set
//   REDIS_PASSWORD, REDIS_DB
//   REDIS_TLS             enable TLS
type RedisConfig struct {
    Addr     string
    Password string
    DB       int
    TLS      bool
}

func LoadRedisConfig() RedisConfig {
    c := RedisConfig{
        Addr:     envStr("REDIS_ADDR", "localhost:6379"),
        Password: envStr("REDIS_PASSWORD", ""),
        DB:       envInt("REDIS_DB", 0),
        TLS:      envBool("REDIS_TLS", false),
    }
    if host, port := envStr("REDIS_HOST", ""), envStr("REDIS_PORT", ""); host != "" && port != "" {
        c.Addr = net.JoinHostPort(host, port)
    }
    return c
}

// Options converts the config into go-redis client options.
func (c RedisConfig) Options() *redis.Options {
    o := &redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB}
    if c.TLS {
        o.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
    }
    return o
}

// NewRedisClient connects using LoadRedisConfig and pings the server.
// It returns nil when Redis is unreachable; callers then run without
// cache and rate limiting, and with in-process locks.
func NewRedisClient() *redis.Client {
    client := redis.NewClient(LoadRedisConfig().Options())
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        client.Close()
        return nil
    }
    return client
}
