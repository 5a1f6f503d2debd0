package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/concert-seat-reservation/internal/model"
)

// ReservationRepo provides persistence for reservations and their
// tickets.  A reservation groups one or more seats of a single event for
// a single user; each seat is stored as a row in the tickets table.  The
// tickets table carries the event ID so that the unique key on
// (event_id, seat_label) can reject double bookings.  All timestamps are
// stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// InsertTx inserts the reservation row followed by one ticket per seat
// in a single statement.  It populates the generated ID on r.  When
// r.CreatedAt is zero the current UTC time is used.  Unique key
// violations are translated into ErrDuplicateUser or ErrDuplicateSeat.
// The caller must commit or roll back the transaction.
func (r *ReservationRepo) InsertTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}
	const q = `INSERT INTO reservations (event_id, user_id, created_at) VALUES (?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, res.EventID, res.UserID, res.CreatedAt.UTC())
	if err != nil {
		return translate(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	tickets := make([]model.Ticket, 0, len(res.Seats))
	for i, label := range res.Seats {
		tickets = append(tickets, model.Ticket{
			ReservationID: res.ID,
			EventID:       res.EventID,
			SeatLabel:     label,
			Position:      i,
		})
	}
	return translate(r.createTicketsBulkTx(ctx, tx, tickets))
}

// createTicketsBulkTx inserts multiple tickets rows in a single
// statement.  Passing an empty slice has no effect and returns nil.
func (r *ReservationRepo) createTicketsBulkTx(ctx context.Context, tx *sql.Tx, tickets []model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	query := `INSERT INTO tickets (reservation_id, event_id, seat_label, position) VALUES `
	args := make([]interface{}, 0, len(tickets)*4)
	for i, t := range tickets {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, t.ReservationID, t.EventID, t.SeatLabel, t.Position)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// DeleteTx removes the tickets of a reservation and then the reservation
// itself.  Deleting a reservation that does not exist returns ErrNotFound.
func (r *ReservationRepo) DeleteTx(ctx context.Context, tx *sql.Tx, reservationID uint64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM tickets WHERE reservation_id = ?`, reservationID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, reservationID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ReservedSeats returns the labels of every ticket sold for the event.
func (r *ReservationRepo) ReservedSeats(ctx context.Context, q queryer, eventID uint64) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT seat_label FROM tickets WHERE event_id = ?`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]string, 0)
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		seats = append(seats, label)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// ByUser returns the reservation a user holds for an event, with seats,
// or ErrNotFound.
func (r *ReservationRepo) ByUser(ctx context.Context, q queryer, eventID, userID uint64) (*model.Reservation, error) {
	const sel = `SELECT id, event_id, user_id, created_at FROM reservations WHERE event_id = ? AND user_id = ?`
	return r.scanOne(ctx, q, sel, eventID, userID)
}

// ByID returns a reservation with its seats or ErrNotFound.
func (r *ReservationRepo) ByID(ctx context.Context, q queryer, reservationID uint64) (*model.Reservation, error) {
	const sel = `SELECT id, event_id, user_id, created_at FROM reservations WHERE id = ?`
	return r.scanOne(ctx, q, sel, reservationID)
}

func (r *ReservationRepo) scanOne(ctx context.Context, q queryer, sel string, args ...any) (*model.Reservation, error) {
	var res model.Reservation
	err := q.QueryRowContext(ctx, sel, args...).Scan(&res.ID, &res.EventID, &res.UserID, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	seats, err := r.seatsOf(ctx, q, res.ID)
	if err != nil {
		return nil, err
	}
	res.Seats = seats
	return &res, nil
}

// seatsOf lists a reservation's seat labels in submitted order.
func (r *ReservationRepo) seatsOf(ctx context.Context, q queryer, reservationID uint64) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT seat_label FROM tickets WHERE reservation_id = ? ORDER BY position`, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]string, 0)
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		seats = append(seats, label)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// ListByUser returns all reservations of the user with event and venue
// details, ordered by event date.  When no reservations exist an empty
// slice is returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.ReservationDetail, error) {
	// First fetch reservation headers joined with event and venue
	const q = `SELECT r.id, r.event_id, r.user_id, r.created_at,
	                  e.title, e.event_date, v.name, v.city
	           FROM reservations r
	           JOIN events e ON e.id = r.event_id
	           JOIN venues v ON v.id = e.venue_id
	           WHERE r.user_id = ?
	           ORDER BY e.event_date, r.id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]model.ReservationDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d model.ReservationDetail
		var city sql.NullString
		if err := rows.Scan(&d.ID, &d.EventID, &d.UserID, &d.CreatedAt,
			&d.Title, &d.EventDate, &d.VenueName, &city); err != nil {
			return nil, err
		}
		d.City = city.String
		d.Seats = []string{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	// Populate seats for all reservations in a single query
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	seatQuery := `SELECT reservation_id, seat_label FROM tickets
	              WHERE reservation_id IN (` + strings.Join(placeholders, ",") + `)
	              ORDER BY reservation_id, position`
	srows, err := r.db.QueryContext(ctx, seatQuery, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var rid uint64
		var label string
		if err := srows.Scan(&rid, &label); err != nil {
			return nil, err
		}
		idx, ok := index[rid]
		if !ok {
			continue
		}
		details[idx].Seats = append(details[idx].Seats, label)
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
