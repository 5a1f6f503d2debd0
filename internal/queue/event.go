// Package queue defines message payloads exchanged over the message brokers.
package queue

import "time"

// Reservation event types.
const (
    TypeReservationCreated   = "reservation.created"
    TypeReservationCancelled = "reservation.cancelled"
)

// ReservationEvent is published after a reservation is committed or
// cancelled.  It carries enough information for downstream consumers to
// log, notify or refresh seat maps without querying the primary database.
type ReservationEvent struct {
    Type          string    `json:"type"`
    ReservationID uint64    `json:"reservation_id"`
    EventID       uint64    `json:"event_id"`
    UserID        uint64    `json:"user_id"`
    Seats         []string  `json:"seats"`
    OccurredAt    time.Time `json:"occurred_at"`
}
