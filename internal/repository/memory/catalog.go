package memory

import (
	"context"

	"github.com/iliyamo/concert-seat-reservation/internal/model"
)

// CreateVenue stores v and populates its ID.
func (s *Store) CreateVenue(_ context.Context, v *model.Venue) error {
	created, err := s.AddVenue(v.Name, v.City, v.Rows, v.Columns)
	if err != nil {
		return err
	}
	*v = created
	return nil
}

// CreateEvent stores e and populates its ID.
func (s *Store) CreateEvent(_ context.Context, e *model.Event) error {
	created, err := s.AddEvent(e.VenueID, e.Title, e.Date)
	if err != nil {
		return err
	}
	*e = created
	return nil
}
