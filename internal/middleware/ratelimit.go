package middleware

import (
    "math"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/concert-seat-reservation/internal/config"
)

// bucketScript refills and takes one token atomically.  It returns
// {allowed, remaining, retry_after_ms}.
var bucketScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local interval = tonumber(ARGV[4])
local ttl = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last')
local tokens = tonumber(state[1])
local last = tonumber(state[2])
if tokens == nil or last == nil then
    tokens = capacity
    last = now
end

local steps = math.floor(math.max(0, now - last) / interval)
if steps > 0 then
    tokens = math.min(capacity, tokens + steps * refill)
    last = last + steps * interval
end

local allowed, wait = 0, 0
if tokens > 0 then
    allowed = 1
    tokens = tokens - 1
else
    wait = math.max(0, interval - (now - last))
end

redis.call('HSET', key, 'tokens', tokens, 'last', last)
redis.call('EXPIRE', key, ttl)
return {allowed, tokens, wait}
`)

// bucketResult is the decoded reply of bucketScript.
type bucketResult struct {
    Allowed   bool
    Remaining int64
    Wait      time.Duration
}

func parseBucket(v any) (bucketResult, bool) {
    arr, ok := v.([]any)
    if !ok || len(arr) != 3 {
        return bucketResult{}, false
    }
    return bucketResult{
        Allowed:   asInt64(arr[0]) == 1,
        Remaining: asInt64(arr[1]),
        Wait:      time.Duration(asInt64(arr[2])) * time.Millisecond,
    }, true
}

// retryAfterSeconds rounds a wait up to whole seconds for Retry-After.
func retryAfterSeconds(d time.Duration) int {
    return max(int(math.Ceil(d.Seconds())), 1)
}

// NewTokenBucket throttles reservation writes with a Redis token bucket
// per key (see buildRateKey).  Without Redis, or when a script call
// fails, requests pass through unthrottled.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    ttl := int64(cfg.TTL / time.Second)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := buildRateKey(cfg, c)
            vals, err := bucketScript.Run(c.Request().Context(), rdb, []string{key},
                time.Now().UnixMilli(), cfg.Capacity, cfg.RefillTokens,
                cfg.RefillInterval.Milliseconds(), ttl).Result()
            if err != nil {
                if cfg.Debug {
                    c.Logger().Warnf("ratelimit: key=%s: %v", key, err)
                }
                return next(c)
            }
            res, ok := parseBucket(vals)
            if !ok {
                if cfg.Debug {
                    c.Logger().Warnf("ratelimit: key=%s: unexpected reply %#v", key, vals)
                }
                return next(c)
            }

            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
            if !res.Allowed {
                secs := retryAfterSeconds(res.Wait)
                h.Set("Retry-After", strconv.Itoa(secs))
                if cfg.Debug {
                    c.Logger().Infof("ratelimit: blocked key=%s retry=%s", key, res.Wait)
                }
                return c.JSON(http.StatusTooManyRequests, echo.Map{
                    "error":       "too many reservation attempts",
                    "retry_after": secs,
                })
            }
            return next(c)
        }
    }
}

func asInt64(v any) int64 {
    switch t := v.(type) {
    case int64:
        return t
    case int:
        return int64(t)
    case float64:
        return int64(t)
    case string:
        n, _ := strconv.ParseInt(t, 10, 64)
        return n
    }
    return 0
}

// buildRateKey joins the parts named by cfg.KeyStrategy.  Reservation
// routes sit behind JWT auth, so the default keys per user and route;
// anonymous callers share the "guest" user and are told apart by IP.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
    ip := c.RealIP()
    if ip == "" {
        ip = "unknown"
    }
    user := userKey(c)
    if user == "guest" {
        user += "@" + ip
    }
    route := c.Request().Method + " " + c.Path()

    parts := []string{cfg.Prefix}
    switch strings.ToLower(cfg.KeyStrategy) {
    case "ip":
        parts = append(parts, "ip", ip)
    case "user":
        parts = append(parts, "user", user)
    case "ip_route":
        parts = append(parts, "ip", ip, "route", route)
    case "ip_user_route":
        parts = append(parts, "ip", ip, "user", user, "route", route)
    default: // user_route
        parts = append(parts, "user", user, "route", route)
    }
    return strings.Join(parts, ":")
}
