package queue

import (
    "context"
    "errors"
    "log"
)

// Notifier delivers reservation events to some downstream system.
type Notifier interface {
    Notify(ctx context.Context, ev ReservationEvent) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Notify(context.Context, ReservationEvent) error { return nil }

// Fanout delivers each event to every notifier and joins their errors.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, ev ReservationEvent) error {
    var errs []error
    for _, n := range f {
        if err := n.Notify(ctx, ev); err != nil {
            errs = append(errs, err)
        }
    }
    return errors.Join(errs...)
}

// Logging wraps a notifier and logs, rather than returns, its failures.
// Reservation commits must never be rolled back because a broker is down.
type Logging struct {
    Next Notifier
}

func (l Logging) Notify(ctx context.Context, ev ReservationEvent) error {
    if err := l.Next.Notify(ctx, ev); err != nil {
        log.Printf("notify: %s reservation_id=%d event_id=%d: %v", ev.Type, ev.ReservationID, ev.EventID, err)
    }
    return nil
}
