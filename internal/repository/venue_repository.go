package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/concert-seat-reservation/internal/model"
	"github.com/iliyamo/concert-seat-reservation/internal/seat"
)

// VenueRepo writes venues.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the given DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

// Create inserts a venue after checking that its grid is addressable by
// seat labels.  On success the venue's ID is populated.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	if err := (seat.Dimensions{Rows: v.Rows, Columns: v.Columns}).Validate(); err != nil {
		return err
	}
	const q = `INSERT INTO venues (name, city, seat_rows, seat_cols) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.City, v.Rows, v.Columns)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}
