package reservation

import (
	"context"
	"errors"

	"github.com/iliyamo/concert-seat-reservation/internal/model"
	"github.com/iliyamo/concert-seat-reservation/internal/queue"
	"github.com/iliyamo/concert-seat-reservation/internal/repository"
	"github.com/iliyamo/concert-seat-reservation/internal/seat"
)

// Reserve books exactly the given seats for userID at eventID.  The
// request is rejected as a whole, in this order, when
//
//   - a label is malformed (ErrInvalidSeatFormat),
//   - a label lies outside the venue (ErrOutOfBounds),
//   - the user already holds a reservation for the event (ErrAlreadyReserved),
//   - any seat is already taken (ErrSeatConflict).
//
// Labels are canonicalised ("01A" becomes "1A") and repeated labels are
// collapsed, keeping the order of first appearance.  Rejections carrying
// labels are *SeatError values listing exactly the offending seats.
func (e *Engine) Reserve(ctx context.Context, eventID, userID uint64, labels []string) (*model.Reservation, error) {
	seats, err := normalize(labels)
	if err != nil {
		return nil, err
	}

	var created *model.Reservation
	err = e.withEvent(ctx, eventID, func(tx repository.Tx) error {
		dims, err := tx.Dimensions(ctx, eventID)
		if err != nil {
			return err
		}
		if out := outside(dims, seats); len(out) > 0 {
			return &SeatError{Seats: out, Err: ErrOutOfBounds}
		}
		if err := ensureNoReservation(ctx, tx, eventID, userID); err != nil {
			return err
		}
		taken, err := reservedSet(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if conflicts := intersect(seats, taken); len(conflicts) > 0 {
			return &SeatError{Seats: conflicts, Err: ErrSeatConflict}
		}
		r := &model.Reservation{EventID: eventID, UserID: userID, CreatedAt: e.now(), Seats: seats}
		if err := tx.InsertReservation(ctx, r); err != nil {
			return err
		}
		created = r
		return nil
	})
	if errors.Is(err, repository.ErrDuplicateSeat) {
		// The unique key caught a writer that bypassed the engine's lock.
		return nil, e.conflictAfterRollback(ctx, eventID, seats)
	}
	if err != nil {
		return nil, classify("reserve", err)
	}
	e.notify(ctx, queue.TypeReservationCreated, created)
	return created, nil
}

// ReserveAuto books count seats chosen by the engine.  Seats are taken in
// row-major order (1A, 1B, ... then 2A ...), skipping reserved ones, so
// the same inventory always yields the same allocation.  ErrInvalidCount
// is returned for count < 1, ErrAlreadyReserved when the user already
// holds a reservation and ErrInsufficientCapacity when fewer than count
// seats are free.
func (e *Engine) ReserveAuto(ctx context.Context, eventID, userID uint64, count int) (*model.Reservation, error) {
	if count < 1 {
		return nil, ErrInvalidCount
	}

	var created *model.Reservation
	err := e.withEvent(ctx, eventID, func(tx repository.Tx) error {
		dims, err := tx.Dimensions(ctx, eventID)
		if err != nil {
			return err
		}
		if err := ensureNoReservation(ctx, tx, eventID, userID); err != nil {
			return err
		}
		taken, err := reservedSet(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if dims.Capacity()-len(taken) < count {
			return ErrInsufficientCapacity
		}
		seats := dims.FirstFree(count, taken)
		if len(seats) < count {
			return ErrInsufficientCapacity
		}
		r := &model.Reservation{EventID: eventID, UserID: userID, CreatedAt: e.now(), Seats: seats}
		if err := tx.InsertReservation(ctx, r); err != nil {
			return err
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, classify("reserve auto", err)
	}
	e.notify(ctx, queue.TypeReservationCreated, created)
	return created, nil
}

// normalize checks every label's format, canonicalises it and drops
// repeats.  Format is checked before anything touches the store.
func normalize(labels []string) ([]string, error) {
	if len(labels) == 0 {
		return nil, ErrNoSeats
	}
	var bad []string
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		c, err := seat.Canonical(l)
		if err != nil {
			bad = append(bad, l)
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	if len(bad) > 0 {
		return nil, &SeatError{Seats: bad, Err: ErrInvalidSeatFormat}
	}
	return out, nil
}

func outside(dims seat.Dimensions, seats []string) []string {
	var out []string
	for _, s := range seats {
		if _, err := dims.Index(s); err != nil {
			out = append(out, s)
		}
	}
	return out
}

func ensureNoReservation(ctx context.Context, tx repository.Reader, eventID, userID uint64) error {
	_, err := tx.ReservationByUser(ctx, eventID, userID)
	switch {
	case err == nil:
		return ErrAlreadyReserved
	case errors.Is(err, repository.ErrNotFound):
		return nil
	}
	return err
}

func reservedSet(ctx context.Context, r repository.Reader, eventID uint64) (map[string]struct{}, error) {
	labels, err := r.ReservedSeats(ctx, eventID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set, nil
}

// intersect returns the members of seats found in taken, in request order.
func intersect(seats []string, taken map[string]struct{}) []string {
	var out []string
	for _, s := range seats {
		if _, ok := taken[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

func (e *Engine) conflictAfterRollback(ctx context.Context, eventID uint64, seats []string) error {
	taken, err := reservedSet(ctx, e.store, eventID)
	if err != nil {
		return classify("reserve", err)
	}
	conflicts := intersect(seats, taken)
	if len(conflicts) == 0 {
		conflicts = seats
	}
	return &SeatError{Seats: conflicts, Err: ErrSeatConflict}
}
