package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/concert-seat-reservation/internal/model"
	"github.com/iliyamo/concert-seat-reservation/internal/seat"
)

// MySQLStore implements Store on top of the venues, events,
// reservations and tickets tables.  Units of work lock the event row
// with SELECT ... FOR UPDATE so that concurrent allocations and
// cancellations for one event run one after another, while different
// events proceed in parallel.
type MySQLStore struct {
	db           *sql.DB
	events       *EventRepo
	reservations *ReservationRepo
}

// NewMySQLStore wires the repositories around a single pool.
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{
		db:           db,
		events:       NewEventRepo(db),
		reservations: NewReservationRepo(db),
	}
}

// DB exposes the underlying pool for callers that need it directly
// (migrations, health checks).
func (s *MySQLStore) DB() *sql.DB { return s.db }

func (s *MySQLStore) Dimensions(ctx context.Context, eventID uint64) (seat.Dimensions, error) {
	return s.events.Dimensions(ctx, s.db, eventID)
}

func (s *MySQLStore) ReservedSeats(ctx context.Context, eventID uint64) ([]string, error) {
	return s.reservations.ReservedSeats(ctx, s.db, eventID)
}

func (s *MySQLStore) ReservationByUser(ctx context.Context, eventID, userID uint64) (*model.Reservation, error) {
	return s.reservations.ByUser(ctx, s.db, eventID, userID)
}

func (s *MySQLStore) ReservationByID(ctx context.Context, reservationID uint64) (*model.Reservation, error) {
	return s.reservations.ByID(ctx, s.db, reservationID)
}

func (s *MySQLStore) Events(ctx context.Context) ([]model.EventSummary, error) {
	return s.events.List(ctx)
}

func (s *MySQLStore) EventTitle(ctx context.Context, eventID uint64) (string, error) {
	return s.events.Title(ctx, eventID)
}

func (s *MySQLStore) ReservationsByUser(ctx context.Context, userID uint64) ([]model.ReservationDetail, error) {
	return s.reservations.ListByUser(ctx, userID)
}

// InTx begins a transaction, locks the event row and runs fn.  The
// transaction is committed only when fn returns nil.
func (s *MySQLStore) InTx(ctx context.Context, eventID uint64, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &TxError{Op: "begin", Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := s.events.LockTx(ctx, tx, eventID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return &TxError{Op: "lock event", Err: err}
	}
	if err := fn(&mysqlTx{store: s, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return &TxError{Op: "commit", Err: err}
	}
	committed = true
	return nil
}

// mysqlTx adapts a *sql.Tx to the Tx interface.  Driver failures are
// wrapped in TxError; storage sentinels pass through untouched.
type mysqlTx struct {
	store *MySQLStore
	tx    *sql.Tx
}

func (t *mysqlTx) Dimensions(ctx context.Context, eventID uint64) (seat.Dimensions, error) {
	d, err := t.store.events.Dimensions(ctx, t.tx, eventID)
	return d, wrapTx("load dimensions", err)
}

func (t *mysqlTx) ReservedSeats(ctx context.Context, eventID uint64) ([]string, error) {
	seats, err := t.store.reservations.ReservedSeats(ctx, t.tx, eventID)
	return seats, wrapTx("load reserved seats", err)
}

func (t *mysqlTx) ReservationByUser(ctx context.Context, eventID, userID uint64) (*model.Reservation, error) {
	r, err := t.store.reservations.ByUser(ctx, t.tx, eventID, userID)
	return r, wrapTx("load user reservation", err)
}

func (t *mysqlTx) ReservationByID(ctx context.Context, reservationID uint64) (*model.Reservation, error) {
	r, err := t.store.reservations.ByID(ctx, t.tx, reservationID)
	return r, wrapTx("load reservation", err)
}

func (t *mysqlTx) InsertReservation(ctx context.Context, r *model.Reservation) error {
	return wrapTx("insert reservation", t.store.reservations.InsertTx(ctx, t.tx, r))
}

func (t *mysqlTx) DeleteReservation(ctx context.Context, reservationID uint64) error {
	return wrapTx("delete reservation", t.store.reservations.DeleteTx(ctx, t.tx, reservationID))
}

func wrapTx(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicateSeat), errors.Is(err, ErrDuplicateUser):
		return err
	}
	return &TxError{Op: op, Err: err}
}
