package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/concert-seat-reservation/internal/config"
    "github.com/iliyamo/concert-seat-reservation/internal/queue"
)

// captureWriter forwards the response to the client and keeps a copy of
// the body up to limit bytes.  overflow is set once the body exceeds it.
type captureWriter struct {
    http.ResponseWriter
    status   int
    buf      bytes.Buffer
    limit    int
    overflow bool
}

func (cw *captureWriter) WriteHeader(code int) {
    cw.status = code
    cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
    if !cw.overflow {
        if cw.limit > 0 && cw.buf.Len()+len(b) > cw.limit {
            cw.overflow = true
            cw.buf.Reset()
        } else {
            cw.buf.Write(b)
        }
    }
    return cw.ResponseWriter.Write(b)
}

// cacheKeyFrom builds a stable cache key honoring prefix/strategy.  Keys of
// routes carrying an :id parameter are scoped to that event so they can be
// purged when its reservations change; every other key lives under "all".
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
    r := c.Request()
    method := r.Method
    path := r.URL.Path
    query := r.URL.RawQuery

    var parts []string
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        parts = append(parts, "route", path)
    case "method_route":
        parts = append(parts, "method", method, "route", path)
    case "method_route_query":
        parts = append(parts, "method", method, "route", path, "q", query)
    default: // "route_query"
        parts = append(parts, "route", path, "q", query)
    }

    sum := sha1.Sum([]byte(strings.Join(parts, ":")))
    return fmt.Sprintf("%s:%s:%x", cfg.Prefix, cacheScope(c.Param("id")), sum[:])
}

func cacheScope(eventID string) string {
    if eventID == "" {
        return "all"
    }
    return "event:" + eventID
}

// cachedResponse is what a cache entry stores.  Inventory reads are
// always JSON, so the content type is the only header kept.
type cachedResponse struct {
    Status      int    `json:"s"`
    ContentType string `json:"t"`
    Body        []byte `json:"b"`
}

func encodeEntry(r cachedResponse) ([]byte, error) { return json.Marshal(r) }

func decodeEntry(bs []byte) (cachedResponse, bool) {
    var r cachedResponse
    if err := json.Unmarshal(bs, &r); err != nil || r.Status == 0 {
        return cachedResponse{}, false
    }
    return r, true
}

// NewRedisCache serves repeated inventory reads from Redis.  Only 200
// responses no larger than cfg.MaxBodyBytes are stored.  Entries expire
// after cfg.TTL and are purged early by CacheInvalidator.  Responses
// carry X-Cache: HIT or MISS.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cfg.Methods[c.Request().Method] {
                return next(c)
            }
            ctx := c.Request().Context()
            key := cacheKeyFrom(cfg, c)

            if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
                if hit, ok := decodeEntry(bs); ok {
                    c.Response().Header().Set("X-Cache", "HIT")
                    return c.Blob(hit.Status, hit.ContentType, hit.Body)
                }
            } else if !errors.Is(err, redis.Nil) {
                c.Logger().Warnf("cache: get %s: %v", key, err)
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")
            if err := next(c); err != nil {
                return err
            }
            if cw.status != http.StatusOK || cw.overflow {
                return nil
            }
            entry, err := encodeEntry(cachedResponse{
                Status:      cw.status,
                ContentType: c.Response().Header().Get(echo.HeaderContentType),
                Body:        cw.buf.Bytes(),
            })
            if err == nil {
                err = rdb.Set(context.WithoutCancel(ctx), key, entry, cfg.TTL).Err()
            }
            if err != nil {
                c.Logger().Warnf("cache: set %s: %v", key, err)
            }
            return nil
        }
    }
}

// CacheInvalidator purges cached responses that may embed an event's seat
// inventory.  It is registered as a reservation notifier.
type CacheInvalidator struct {
    rdb    *redis.Client
    prefix string
}

// NewCacheInvalidator returns nil when caching is disabled.
func NewCacheInvalidator(cfg config.CacheConfig, rdb *redis.Client) *CacheInvalidator {
    if !cfg.Enabled || rdb == nil {
        return nil
    }
    return &CacheInvalidator{rdb: rdb, prefix: cfg.Prefix}
}

// Notify deletes the event's cached responses and the event listing.
func (ci *CacheInvalidator) Notify(ctx context.Context, ev queue.ReservationEvent) error {
    for _, scope := range invalidationScopes(ev.EventID) {
        if err := ci.purge(ctx, ci.prefix+":"+scope+":*"); err != nil {
            return err
        }
    }
    return nil
}

func invalidationScopes(eventID uint64) []string {
    return []string{cacheScope(strconv.FormatUint(eventID, 10)), cacheScope("")}
}

func (ci *CacheInvalidator) purge(ctx context.Context, pattern string) error {
    var keys []string
    iter := ci.rdb.Scan(ctx, 0, pattern, 100).Iterator()
    for iter.Next(ctx) {
        keys = append(keys, iter.Val())
    }
    if err := iter.Err(); err != nil {
        return err
    }
    if len(keys) == 0 {
        return nil
    }
    return ci.rdb.Del(ctx, keys...).Err()
}
