// Package reservation is the seat allocation engine.  It validates
// requests against a venue's grid, picks seats for auto-fill requests and
// commits or cancels reservations atomically per event.  The engine holds
// no state of its own: the inventory lives in a repository.Store, and
// concurrent writers for the same event are serialized by a lock.Locker
// plus the store's unit of work.
package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/concert-seat-reservation/internal/lock"
	"github.com/iliyamo/concert-seat-reservation/internal/model"
	"github.com/iliyamo/concert-seat-reservation/internal/queue"
	"github.com/iliyamo/concert-seat-reservation/internal/repository"
)

// Engine implements reservation, auto-fill, cancellation and inventory
// queries.  It is safe for concurrent use.
type Engine struct {
	store    repository.Store
	locker   lock.Locker
	notifier queue.Notifier
	now      func() time.Time
}

// Option customises an Engine.
type Option func(*Engine)

// WithLocker replaces the default in-process locker, e.g. with a Redis
// lock shared by several server instances.
func WithLocker(l lock.Locker) Option { return func(e *Engine) { e.locker = l } }

// WithNotifier sets where reservation events are sent after commit.
func WithNotifier(n queue.Notifier) Option { return func(e *Engine) { e.notifier = n } }

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// New builds an engine over store.
func New(store repository.Store, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		locker:   lock.NewLocal(),
		notifier: queue.Nop{},
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// withEvent runs fn while holding the event lock inside one store unit
// of work.  Every check fn makes is therefore still true when it writes.
func (e *Engine) withEvent(ctx context.Context, eventID uint64, fn func(tx repository.Tx) error) error {
	release, err := e.locker.Lock(ctx, eventID)
	if err != nil {
		return err
	}
	defer release()
	return e.store.InTx(ctx, eventID, fn)
}

// classify maps storage and lock failures onto the engine's error set.
// Errors that already belong to it pass through untouched.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case isClientError(err):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicateUser):
		return ErrAlreadyReserved
	case errors.Is(err, lock.ErrNotAcquired):
		return &StorageError{Op: op, Err: err, retry: true}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &StorageError{Op: op, Err: err}
	}
	return &StorageError{Op: op, Err: err, retry: repositoryRetryable(err)}
}

func isClientError(err error) bool {
	for _, target := range []error{
		ErrInvalidSeatFormat, ErrOutOfBounds, ErrAlreadyReserved, ErrSeatConflict,
		ErrInsufficientCapacity, ErrInvalidCount, ErrNoSeats, ErrNotFound, ErrForbidden,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func repositoryRetryable(err error) bool {
	var r interface{ Retryable() bool }
	return errors.As(err, &r) && r.Retryable()
}

func (e *Engine) notify(ctx context.Context, typ string, r *model.Reservation) {
	_ = e.notifier.Notify(context.WithoutCancel(ctx), queue.ReservationEvent{
		Type:          typ,
		ReservationID: r.ID,
		EventID:       r.EventID,
		UserID:        r.UserID,
		Seats:         append([]string(nil), r.Seats...),
		OccurredAt:    e.now(),
	})
}
