package config

import "time"

// CacheConfig defines settings for the response cache in front of the
// public inventory reads (event list, reserved seats, counts).  Entries
// of one event are purged whenever a reservation for it commits or is
// cancelled, so TTL only bounds staleness when a purge is missed.
//
// KeyStrategy selects which request parts form the key: "route",
// "method_route", "route_query" (default) or "method_route_query".
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool
    TTL          time.Duration
    KeyStrategy  string
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables.  Only safe methods may be
// cached; anything else listed in CACHE_METHODS is ignored.
func LoadCacheConfig() CacheConfig {
    c := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        Methods:      envSet("CACHE_METHODS", "GET"),
        TTL:          envDur("CACHE_TTL", 10*time.Second),
        KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
        Prefix:       envStr("CACHE_PREFIX", "seats:cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
    for m := range c.Methods {
        if m != "GET" && m != "HEAD" {
            delete(c.Methods, m)
        }
    }
    if c.TTL <= 0 {
        c.TTL = 10 * time.Second
    }
    return c
}
