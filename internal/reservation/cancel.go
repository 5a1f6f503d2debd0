package reservation

import (
	"context"

	"github.com/iliyamo/concert-seat-reservation/internal/model"
	"github.com/iliyamo/concert-seat-reservation/internal/queue"
	"github.com/iliyamo/concert-seat-reservation/internal/repository"
)

// Cancel removes a reservation and frees its seats.  Only the user who
// made it may cancel it: ErrNotFound is returned for unknown IDs and
// ErrForbidden for anyone else.  The removed reservation is returned.
func (e *Engine) Cancel(ctx context.Context, reservationID, userID uint64) (*model.Reservation, error) {
	found, err := e.store.ReservationByID(ctx, reservationID)
	if err != nil {
		return nil, classify("cancel", err)
	}
	if found.UserID != userID {
		return nil, ErrForbidden
	}

	var removed *model.Reservation
	err = e.withEvent(ctx, found.EventID, func(tx repository.Tx) error {
		// a concurrent cancel may have won the lock first
		cur, err := tx.ReservationByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if cur.UserID != userID {
			return ErrForbidden
		}
		if err := tx.DeleteReservation(ctx, reservationID); err != nil {
			return err
		}
		removed = cur
		return nil
	})
	if err != nil {
		return nil, classify("cancel", err)
	}
	e.notify(ctx, queue.TypeReservationCancelled, removed)
	return removed, nil
}
