package repository

import (
	"context"

	"github.com/iliyamo/concert-seat-reservation/internal/model"
	"github.com/iliyamo/concert-seat-reservation/internal/seat"
)

// Reader is the read side of the storage contract.  Results are
// snapshots; the engine re-validates inside a unit of work before it
// writes anything.
type Reader interface {
	// Dimensions returns the seat grid of the venue hosting eventID, or
	// ErrNotFound when the event or its venue does not exist.
	Dimensions(ctx context.Context, eventID uint64) (seat.Dimensions, error)
	// ReservedSeats returns every seat label held by a live reservation
	// of the event.  Order is unspecified.
	ReservedSeats(ctx context.Context, eventID uint64) ([]string, error)
	// ReservationByUser returns the user's reservation for the event or
	// ErrNotFound.
	ReservationByUser(ctx context.Context, eventID, userID uint64) (*model.Reservation, error)
	// ReservationByID returns a reservation with its seats or ErrNotFound.
	ReservationByID(ctx context.Context, reservationID uint64) (*model.Reservation, error)
}

// Tx is one all-or-nothing unit of work scoped to a single event.
type Tx interface {
	Reader
	// InsertReservation stores the reservation and one ticket per seat,
	// populating ID and CreatedAt.  A seat already held for the event
	// yields ErrDuplicateSeat; a second reservation by the same user
	// yields ErrDuplicateUser.
	InsertReservation(ctx context.Context, r *model.Reservation) error
	// DeleteReservation removes the reservation's tickets and then the
	// reservation itself.
	DeleteReservation(ctx context.Context, reservationID uint64) error
}

// Store is the seat inventory.  It is the only shared mutable state of
// the reservation engine and is injected rather than global.
type Store interface {
	Reader
	// Events lists every event with its venue and reserved seat count,
	// ordered by date.
	Events(ctx context.Context) ([]model.EventSummary, error)
	// EventTitle returns the title of an event or ErrNotFound.
	EventTitle(ctx context.Context, eventID uint64) (string, error)
	// ReservationsByUser lists the user's reservations across events,
	// ordered by event date.
	ReservationsByUser(ctx context.Context, userID uint64) ([]model.ReservationDetail, error)
	// InTx runs fn in a unit of work serialized against every other unit
	// for the same event.  If fn returns an error nothing it wrote is
	// kept.  ErrNotFound is returned without calling fn when the event
	// does not exist.
	InTx(ctx context.Context, eventID uint64, fn func(tx Tx) error) error
}
