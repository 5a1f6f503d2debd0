package memory

import (
	"context"
	"fmt"

	"github.com/iliyamo/concert-seat-reservation/internal/model"
	"github.com/iliyamo/concert-seat-reservation/internal/repository"
	"github.com/iliyamo/concert-seat-reservation/internal/seat"
)

// memTx sees committed state minus its own deletes plus its own inserts.
// Only the holder of the event mutex can create one, so committed state
// for the event cannot change underneath it.
type memTx struct {
	store    *Store
	eventID  uint64
	inserted []model.Reservation
	deleted  map[uint64]bool
}

// live returns every reservation of the event visible to the unit.
func (t *memTx) live() []model.Reservation {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	out := make([]model.Reservation, 0, len(t.inserted))
	for _, r := range t.store.reservations {
		if r.EventID == t.eventID && !t.deleted[r.ID] {
			out = append(out, r)
		}
	}
	return append(out, t.inserted...)
}

func (t *memTx) Dimensions(_ context.Context, eventID uint64) (seat.Dimensions, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return t.store.dimensionsLocked(eventID)
}

func (t *memTx) ReservedSeats(_ context.Context, eventID uint64) ([]string, error) {
	if eventID != t.eventID {
		return nil, fmt.Errorf("unit of work is scoped to event %d, not %d", t.eventID, eventID)
	}
	seats := make([]string, 0)
	for _, r := range t.live() {
		seats = append(seats, r.Seats...)
	}
	return seats, nil
}

func (t *memTx) ReservationByUser(_ context.Context, eventID, userID uint64) (*model.Reservation, error) {
	if eventID != t.eventID {
		return nil, fmt.Errorf("unit of work is scoped to event %d, not %d", t.eventID, eventID)
	}
	for _, r := range t.live() {
		if r.UserID == userID {
			return clone(r), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (t *memTx) ReservationByID(_ context.Context, reservationID uint64) (*model.Reservation, error) {
	for _, r := range t.live() {
		if r.ID == reservationID {
			return clone(r), nil
		}
	}
	return nil, repository.ErrNotFound
}

// InsertReservation enforces the same unique keys as the SQL schema:
// (event, user) and (event, seat).
func (t *memTx) InsertReservation(_ context.Context, r *model.Reservation) error {
	if r.EventID != t.eventID {
		return fmt.Errorf("unit of work is scoped to event %d, not %d", t.eventID, r.EventID)
	}
	taken := make(map[string]bool)
	for _, existing := range t.live() {
		if existing.UserID == r.UserID {
			return repository.ErrDuplicateUser
		}
		for _, label := range existing.Seats {
			taken[label] = true
		}
	}
	for _, label := range r.Seats {
		if taken[label] {
			return fmt.Errorf("%w: %s", repository.ErrDuplicateSeat, label)
		}
		taken[label] = true
	}
	t.store.mu.Lock()
	t.store.nextID.reservation++
	r.ID = t.store.nextID.reservation
	t.store.mu.Unlock()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = t.store.now()
	}
	t.inserted = append(t.inserted, *clone(*r))
	return nil
}

func (t *memTx) DeleteReservation(_ context.Context, reservationID uint64) error {
	for i, r := range t.inserted {
		if r.ID == reservationID {
			t.inserted = append(t.inserted[:i], t.inserted[i+1:]...)
			return nil
		}
	}
	t.store.mu.RLock()
	r, ok := t.store.reservations[reservationID]
	t.store.mu.RUnlock()
	if !ok || r.EventID != t.eventID || t.deleted[reservationID] {
		return repository.ErrNotFound
	}
	t.deleted[reservationID] = true
	return nil
}

func (t *memTx) apply() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for id := range t.deleted {
		delete(t.store.reservations, id)
	}
	for _, r := range t.inserted {
		t.store.reservations[r.ID] = r
	}
}
