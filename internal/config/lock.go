package config

import "time"

// Lock backends selectable through LOCK_BACKEND.
const (
    LockLocal = "local"
    LockRedis = "redis"
)

// LockConfig controls the per-event lock held while a reservation is
// validated and committed.  The Redis backend lets several server
// instances share one lock; it falls back to local when Redis is down.
type LockConfig struct {
    Backend string
    Prefix  string
    TTL     time.Duration
    Wait    time.Duration
}

func LoadLockConfig() LockConfig {
    c := LockConfig{
        Backend: envStr("LOCK_BACKEND", LockLocal),
        Prefix:  envStr("LOCK_PREFIX", "lock"),
        TTL:     envDur("LOCK_TTL", 10*time.Second),
        Wait:    envDur("LOCK_WAIT", 5*time.Second),
    }
    if c.Backend != LockRedis {
        c.Backend = LockLocal
    }
    if c.Wait > c.TTL {
        c.Wait = c.TTL
    }
    return c
}
