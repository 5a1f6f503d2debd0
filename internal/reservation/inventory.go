package reservation

import (
	"context"
	"sort"

	"github.com/iliyamo/concert-seat-reservation/internal/model"
	"github.com/iliyamo/concert-seat-reservation/internal/seat"
)

// Counts summarises an event's inventory.  Reserved + Available == Total.
type Counts struct {
	Reserved  int `json:"reserved"`
	Available int `json:"available"`
	Total     int `json:"total"`
	Rows      int `json:"rows"`
	Columns   int `json:"columns"`
}

// SeatMap is an event's title together with its reserved seats.
type SeatMap struct {
	EventID  uint64          `json:"event_id"`
	Title    string          `json:"title"`
	Venue    seat.Dimensions `json:"venue"`
	Reserved []string        `json:"reserved"`
}

// ReservedSeats returns every reserved label of the event in row-major
// order.  ErrNotFound is returned for unknown events.
func (e *Engine) ReservedSeats(ctx context.Context, eventID uint64) ([]string, error) {
	dims, err := e.store.Dimensions(ctx, eventID)
	if err != nil {
		return nil, classify("reserved seats", err)
	}
	labels, err := e.store.ReservedSeats(ctx, eventID)
	if err != nil {
		return nil, classify("reserved seats", err)
	}
	sortRowMajor(dims, labels)
	return labels, nil
}

// Counts returns the reserved and available seat counts of the event.
func (e *Engine) Counts(ctx context.Context, eventID uint64) (Counts, error) {
	dims, err := e.store.Dimensions(ctx, eventID)
	if err != nil {
		return Counts{}, classify("counts", err)
	}
	labels, err := e.store.ReservedSeats(ctx, eventID)
	if err != nil {
		return Counts{}, classify("counts", err)
	}
	total := dims.Capacity()
	return Counts{
		Reserved:  len(labels),
		Available: total - len(labels),
		Total:     total,
		Rows:      dims.Rows,
		Columns:   dims.Columns,
	}, nil
}

// SeatMap returns the event title, venue grid and reserved seats.
func (e *Engine) SeatMap(ctx context.Context, eventID uint64) (*SeatMap, error) {
	title, err := e.store.EventTitle(ctx, eventID)
	if err != nil {
		return nil, classify("seat map", err)
	}
	dims, err := e.store.Dimensions(ctx, eventID)
	if err != nil {
		return nil, classify("seat map", err)
	}
	labels, err := e.ReservedSeats(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if labels == nil {
		labels = []string{}
	}
	return &SeatMap{EventID: eventID, Title: title, Venue: dims, Reserved: labels}, nil
}

// UserReservation returns the user's reservation for the event, or
// ErrNotFound when there is none.
func (e *Engine) UserReservation(ctx context.Context, eventID, userID uint64) (*model.Reservation, error) {
	r, err := e.store.ReservationByUser(ctx, eventID, userID)
	if err != nil {
		return nil, classify("user reservation", err)
	}
	return r, nil
}

// UserReservations lists every reservation the user holds.
func (e *Engine) UserReservations(ctx context.Context, userID uint64) ([]model.ReservationDetail, error) {
	list, err := e.store.ReservationsByUser(ctx, userID)
	if err != nil {
		return nil, classify("user reservations", err)
	}
	return list, nil
}

// Events lists all events with their venue and reserved seat count.
func (e *Engine) Events(ctx context.Context) ([]model.EventSummary, error) {
	list, err := e.store.Events(ctx)
	if err != nil {
		return nil, classify("events", err)
	}
	return list, nil
}

func sortRowMajor(dims seat.Dimensions, labels []string) {
	idx := func(l string) int {
		i, err := dims.Index(l)
		if err != nil {
			return dims.Capacity()
		}
		return i
	}
	sort.SliceStable(labels, func(a, b int) bool { return idx(labels[a]) < idx(labels[b]) })
}
