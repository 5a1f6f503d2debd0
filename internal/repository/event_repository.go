package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparisons

	"github.com/iliyamo/concert-seat-reservation/internal/model"
	"github.com/iliyamo/concert-seat-reservation/internal/seat"
)

// queryer is satisfied by both *sql.DB and *sql.Tx so the same query
// code runs inside and outside a unit of work.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// EventRepo provides access to the events table and the venue geometry
// each event is scheduled against.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo constructs an EventRepo with the given DB handle.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// Create inserts an event and populates its ID.  The venue must exist.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const q = `INSERT INTO events (venue_id, title, event_date) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, e.VenueID, e.Title, e.Date.UTC().Format("2006-01-02"))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// Dimensions returns the rows and columns of the venue the event is held
// in.  A missing event, or an event whose venue row is missing, yields
// ErrNotFound.
func (r *EventRepo) Dimensions(ctx context.Context, q queryer, eventID uint64) (seat.Dimensions, error) {
	const sel = `SELECT v.seat_rows, v.seat_cols
	             FROM events e
	             JOIN venues v ON v.id = e.venue_id
	             WHERE e.id = ?`
	var d seat.Dimensions
	if err := q.QueryRowContext(ctx, sel, eventID).Scan(&d.Rows, &d.Columns); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return seat.Dimensions{}, ErrNotFound
		}
		return seat.Dimensions{}, err
	}
	return d, nil
}

// LockTx takes a row lock on the event for the rest of the transaction.
// Every allocation and cancellation for the event goes through this lock,
// which serializes their read-validate-write sequences.
func (r *EventRepo) LockTx(ctx context.Context, tx *sql.Tx, eventID uint64) error {
	var id uint64
	err := tx.QueryRowContext(ctx, `SELECT id FROM events WHERE id = ? FOR UPDATE`, eventID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Title returns the title of an event.
func (r *EventRepo) Title(ctx context.Context, eventID uint64) (string, error) {
	var title string
	err := r.db.QueryRowContext(ctx, `SELECT title FROM events WHERE id = ?`, eventID).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return title, err
}

// List returns all events joined with their venue and the number of
// reserved seats, ordered by date.
func (r *EventRepo) List(ctx context.Context) ([]model.EventSummary, error) {
	const q = `SELECT e.id, e.venue_id, e.title, e.event_date,
	                  v.name, v.city, v.seat_rows, v.seat_cols,
	                  COUNT(t.id)
	           FROM events e
	           JOIN venues v ON v.id = e.venue_id
	           LEFT JOIN tickets t ON t.event_id = e.id
	           GROUP BY e.id, e.venue_id, e.title, e.event_date, v.name, v.city, v.seat_rows, v.seat_cols
	           ORDER BY e.event_date, e.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.EventSummary, 0)
	for rows.Next() {
		var s model.EventSummary
		var city sql.NullString
		if err := rows.Scan(&s.ID, &s.VenueID, &s.Title, &s.Date,
			&s.VenueName, &city, &s.Rows, &s.Columns, &s.Reserved); err != nil {
			return nil, err
		}
		s.City = city.String
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
