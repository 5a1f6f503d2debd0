package model

import "time"

// Event is a concert scheduled in a venue.  It owns zero or more
// reservations and never changes after creation.
//
// Fields:
//  ID      – primary key identifier.
//  VenueID – venue hosting the event.
//  Title   – headline artist or event name.
//  Date    – calendar date of the event (UTC midnight).
type Event struct {
    ID      uint64    `json:"event_id"` // events.id
    VenueID uint64    `json:"venue_id"` // events.venue_id
    Title   string    `json:"title"`    // events.title
    Date    time.Time `json:"date"`     // events.event_date
}

// EventSummary joins an event with its venue geometry and the number of
// seats currently reserved.  It backs the public event listing.
type EventSummary struct {
    Event
    VenueName string `json:"venue_name"`
    City      string `json:"city"`
    Rows      int    `json:"rows"`
    Columns   int    `json:"columns"`
    Reserved  int    `json:"reserved"`
}
