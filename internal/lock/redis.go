package lock

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only if it still holds our token, so an
// expired lock that was taken over by another instance is left alone.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// Redis is a Locker shared by every server instance pointing at the same
// Redis.  Locks are SET NX PX keys holding a random token; TTL bounds how
// long a crashed holder can block an event.
type Redis struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

// NewRedis builds a Redis locker.  ttl is the lock lifetime and wait the
// longest a caller polls before giving up with ErrNotAcquired.
func NewRedis(rdb *redis.Client, prefix string, ttl, wait time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if wait <= 0 {
		wait = 5 * time.Second
	}
	return &Redis{rdb: rdb, prefix: prefix, ttl: ttl, wait: wait, retry: 25 * time.Millisecond}
}

// Lock polls SET NX until it succeeds, ctx ends or the wait elapses.
func (r *Redis) Lock(ctx context.Context, eventID uint64) (func(), error) {
	key := Key(r.prefix, eventID)
	token := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, r.wait)
	defer cancel()
	for {
		ok, err := r.rdb.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return nil, err
		}
		if ok {
			return func() { r.release(key, token) }, nil
		}
		select {
		case <-time.After(r.retry):
		case <-ctx.Done():
			return nil, errors.Join(ErrNotAcquired, ctx.Err())
		}
	}
}

func (r *Redis) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, r.rdb, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		log.Printf("lock: release %s failed: %v", key, err)
	}
}
