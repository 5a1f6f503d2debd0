package model

import "time"

// Reservation records the seats a user holds for one event.  A user
// has at most one live reservation per event, its seat list is never
// empty and it is never edited: it is created whole and removed whole.
//
// Fields:
//  ID        – primary key identifier.
//  EventID   – event being attended.
//  UserID    – user who made the reservation.
//  CreatedAt – creation timestamp (UTC).
//  Seats     – seat labels in the order they were requested.
type Reservation struct {
    ID        uint64    `json:"reservation_id"` // reservations.id
    EventID   uint64    `json:"event_id"`       // reservations.event_id
    UserID    uint64    `json:"user_id"`        // reservations.user_id
    CreatedAt time.Time `json:"created_at"`     // reservations.created_at
    Seats     []string  `json:"seats"`          // tickets.seat_label ordered by tickets.position
}

// Ticket is one seat of a reservation.  Tickets are deleted together
// with their reservation.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – owning reservation.
//  EventID       – copied from the reservation so (event, seat) can be unique.
//  SeatLabel     – canonical seat label.
//  Position      – index of the seat in the submitted list.
type Ticket struct {
    ID            uint64 // tickets.id
    ReservationID uint64 // tickets.reservation_id
    EventID       uint64 // tickets.event_id
    SeatLabel     string // tickets.seat_label
    Position      int    // tickets.position
}

// ReservationDetail is a reservation enriched with event and venue
// information for the "my reservations" listing.
type ReservationDetail struct {
    Reservation
    Title     string    `json:"title"`
    EventDate time.Time `json:"event_date"`
    VenueName string    `json:"venue_name"`
    City      string    `json:"city"`
}
