// Package lock provides mutual exclusion keyed by event.  The reservation
// engine holds the event's lock across validate and commit so that a
// conflict check can never be invalidated by a concurrent writer.
package lock

import (
	"context"
	"errors"
	"strconv"
	"sync"
)

// ErrNotAcquired is returned when a lock could not be obtained before the
// context expired or the configured wait elapsed.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker hands out exclusive locks for an event.  The returned release
// function must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, eventID uint64) (release func(), err error)
}

// Key is the lock name used for an event.
func Key(prefix string, eventID uint64) string {
	return prefix + ":event:" + strconv.FormatUint(eventID, 10)
}

// Local serializes callers within one process.  Each event gets a
// one-slot channel, which lets waiters give up when their context ends.
type Local struct {
	mu    sync.Mutex
	slots map[uint64]chan struct{}
}

// NewLocal returns an empty in-process locker.
func NewLocal() *Local { return &Local{slots: make(map[uint64]chan struct{})} }

func (l *Local) slot(eventID uint64) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[eventID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[eventID] = ch
	}
	return ch
}

// Lock blocks until the event is free or ctx is done.
func (l *Local) Lock(ctx context.Context, eventID uint64) (func(), error) {
	ch := l.slot(eventID)
	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }, nil
	case <-ctx.Done():
		return nil, errors.Join(ErrNotAcquired, ctx.Err())
	}
}
