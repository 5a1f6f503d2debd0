package model

// Venue describes the seating grid of a concert venue.  Seats are
// addressed as "<row><column letter>", so Columns can never exceed 26.
// A venue is immutable once an event has been scheduled against it.
//
// Fields:
//  ID      – primary key identifier.
//  Name    – display name of the venue.
//  City    – city the venue is located in.
//  Rows    – number of seating rows (> 0).
//  Columns – number of seats per row (> 0).
type Venue struct {
    ID      uint64 `json:"venue_id"` // venues.id
    Name    string `json:"name"`     // venues.name
    City    string `json:"city"`     // venues.city
    Rows    int    `json:"rows"`     // venues.seat_rows
    Columns int    `json:"columns"`  // venues.seat_cols
}

// Capacity returns the number of seats in the venue.
func (v Venue) Capacity() int { return v.Rows * v.Columns }
