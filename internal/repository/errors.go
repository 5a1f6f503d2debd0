// Package repository defines the storage contract used by the reservation
// engine together with its MySQL implementation.  The sentinel values
// below let higher layers distinguish storage outcomes without knowing
// which driver produced them.  For example, ErrDuplicateSeat signals
// that the (event, seat) unique key rejected an insert, which the engine
// reports as a seat conflict.
package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when an event, venue or reservation does not
// exist.  Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrDuplicateSeat is returned when inserting a ticket would reserve a
// seat that another live reservation of the same event already holds.
var ErrDuplicateSeat = errors.New("seat already reserved for event")

// ErrDuplicateUser is returned when the user already has a reservation
// for the event.
var ErrDuplicateUser = errors.New("user already has a reservation for event")

// MySQL error numbers the store reacts to.
const (
	mysqlDuplicateEntry = 1062
	mysqlLockWait       = 1205
	mysqlDeadlock       = 1213
)

// Unique key names from schema.sql.  MySQL includes the key name in
// the 1062 message, which is how the two duplicates are told apart.
const (
	keyTicketEventSeat      = "uq_ticket_event_seat"
	keyReservationEventUser = "uq_reservation_event_user"
)

// TxError wraps failures of the unit of work itself (begin, lock,
// commit, driver errors).  Nothing written inside the failed unit is
// persisted, so Retryable reports whether running the whole operation
// again is worthwhile.
type TxError struct {
	Op  string
	Err error
}

func (e *TxError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *TxError) Unwrap() error { return e.Err }

// Retryable reports deadlocks, lock wait timeouts and dropped connections.
func (e *TxError) Retryable() bool {
	var me *mysql.MySQLError
	if errors.As(e.Err, &me) {
		return me.Number == mysqlDeadlock || me.Number == mysqlLockWait
	}
	return errors.Is(e.Err, mysql.ErrInvalidConn)
}

// translate maps driver errors onto the sentinels above.  Errors it does
// not recognise are returned unchanged.
func translate(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != mysqlDuplicateEntry {
		return err
	}
	switch {
	case strings.Contains(me.Message, keyTicketEventSeat):
		return fmt.Errorf("%w: %s", ErrDuplicateSeat, me.Message)
	case strings.Contains(me.Message, keyReservationEventUser):
		return fmt.Errorf("%w: %s", ErrDuplicateUser, me.Message)
	}
	return err
}
