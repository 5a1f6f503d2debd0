// Package memory provides an in-process implementation of
// repository.Store.  Each Store is fully isolated, which makes it the
// store of choice for engine and handler tests; it also backs the
// server when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/concert-seat-reservation/internal/model"
	"github.com/iliyamo/concert-seat-reservation/internal/repository"
	"github.com/iliyamo/concert-seat-reservation/internal/seat"
)

// Store keeps venues, events and reservations in maps.  Units of work
// for the same event are serialized with a per-event mutex and buffer
// their writes until fn returns successfully.
type Store struct {
	mu           sync.RWMutex
	venues       map[uint64]model.Venue
	events       map[uint64]model.Event
	reservations map[uint64]model.Reservation
	nextID       struct{ venue, event, reservation uint64 }

	locksMu sync.Mutex
	locks   map[uint64]*sync.Mutex

	now func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		venues:       make(map[uint64]model.Venue),
		events:       make(map[uint64]model.Event),
		reservations: make(map[uint64]model.Reservation),
		locks:        make(map[uint64]*sync.Mutex),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// AddVenue registers a venue and returns it with its ID.
func (s *Store) AddVenue(name, city string, rows, columns int) (model.Venue, error) {
	if err := (seat.Dimensions{Rows: rows, Columns: columns}).Validate(); err != nil {
		return model.Venue{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID.venue++
	v := model.Venue{ID: s.nextID.venue, Name: name, City: city, Rows: rows, Columns: columns}
	s.venues[v.ID] = v
	return v, nil
}

// AddEvent schedules an event in an existing venue.
func (s *Store) AddEvent(venueID uint64, title string, date time.Time) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.venues[venueID]; !ok {
		return model.Event{}, repository.ErrNotFound
	}
	s.nextID.event++
	e := model.Event{ID: s.nextID.event, VenueID: venueID, Title: title, Date: date.UTC()}
	s.events[e.ID] = e
	return e, nil
}

func (s *Store) Dimensions(_ context.Context, eventID uint64) (seat.Dimensions, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimensionsLocked(eventID)
}

func (s *Store) dimensionsLocked(eventID uint64) (seat.Dimensions, error) {
	e, ok := s.events[eventID]
	if !ok {
		return seat.Dimensions{}, repository.ErrNotFound
	}
	v, ok := s.venues[e.VenueID]
	if !ok {
		return seat.Dimensions{}, repository.ErrNotFound
	}
	return seat.Dimensions{Rows: v.Rows, Columns: v.Columns}, nil
}

func (s *Store) ReservedSeats(_ context.Context, eventID uint64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seats := make([]string, 0)
	for _, r := range s.reservations {
		if r.EventID == eventID {
			seats = append(seats, r.Seats...)
		}
	}
	return seats, nil
}

func (s *Store) ReservationByUser(_ context.Context, eventID, userID uint64) (*model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reservations {
		if r.EventID == eventID && r.UserID == userID {
			return clone(r), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ReservationByID(_ context.Context, reservationID uint64) (*model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reservations[reservationID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(r), nil
}

func (s *Store) Events(_ context.Context) ([]model.EventSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reserved := make(map[uint64]int)
	for _, r := range s.reservations {
		reserved[r.EventID] += len(r.Seats)
	}
	out := make([]model.EventSummary, 0, len(s.events))
	for _, e := range s.events {
		v := s.venues[e.VenueID]
		out = append(out, model.EventSummary{
			Event:     e,
			VenueName: v.Name,
			City:      v.City,
			Rows:      v.Rows,
			Columns:   v.Columns,
			Reserved:  reserved[e.ID],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) EventTitle(_ context.Context, eventID uint64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[eventID]
	if !ok {
		return "", repository.ErrNotFound
	}
	return e.Title, nil
}

func (s *Store) ReservationsByUser(_ context.Context, userID uint64) ([]model.ReservationDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ReservationDetail, 0)
	for _, r := range s.reservations {
		if r.UserID != userID {
			continue
		}
		e := s.events[r.EventID]
		v := s.venues[e.VenueID]
		out = append(out, model.ReservationDetail{
			Reservation: *clone(r),
			Title:       e.Title,
			EventDate:   e.Date,
			VenueName:   v.Name,
			City:        v.City,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EventDate.Equal(out[j].EventDate) {
			return out[i].EventDate.Before(out[j].EventDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// InTx serializes on the event's mutex, runs fn against a buffered view
// and applies the buffered writes only if fn succeeds.
func (s *Store) InTx(ctx context.Context, eventID uint64, fn func(tx repository.Tx) error) error {
	s.mu.RLock()
	_, ok := s.events[eventID]
	s.mu.RUnlock()
	if !ok {
		return repository.ErrNotFound
	}
	lock := s.eventLock(eventID)
	lock.Lock()
	defer lock.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memTx{store: s, eventID: eventID, deleted: make(map[uint64]bool)}
	if err := fn(tx); err != nil {
		return err
	}
	tx.apply()
	return nil
}

func (s *Store) eventLock(eventID uint64) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[eventID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[eventID] = l
	}
	return l
}

func clone(r model.Reservation) *model.Reservation {
	r.Seats = append([]string(nil), r.Seats...)
	return &r
}
