package reservation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/concert-seat-reservation/internal/seat"
)

// Client errors.  Each one is reported before anything is written.
var (
	// ErrInvalidSeatFormat means a label does not match ^\d+[A-Z]$.
	ErrInvalidSeatFormat = seat.ErrInvalidFormat
	// ErrOutOfBounds means a well formed label lies outside the venue.
	ErrOutOfBounds = seat.ErrOutOfBounds
	// ErrAlreadyReserved means the user already holds a reservation for
	// the event.
	ErrAlreadyReserved = errors.New("user already has a reservation for this event")
	// ErrSeatConflict means at least one requested seat is held by
	// another reservation.
	ErrSeatConflict = errors.New("seats already reserved")
	// ErrInsufficientCapacity means fewer seats are free than requested.
	ErrInsufficientCapacity = errors.New("not enough available seats")
	// ErrInvalidCount means an auto-fill request asked for fewer than one seat.
	ErrInvalidCount = errors.New("seat count must be at least 1")
	// ErrNoSeats means a manual request named no seats.
	ErrNoSeats = errors.New("at least one seat is required")
	// ErrNotFound means the event or reservation does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the reservation belongs to another user.
	ErrForbidden = errors.New("reservation belongs to another user")
)

// ErrStorage is matched by every *StorageError.
var ErrStorage = errors.New("storage failure")

// SeatError names the seats that caused a request to be rejected.
type SeatError struct {
	Seats []string
	Err   error
}

func (e *SeatError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, strings.Join(e.Seats, ", "))
}

func (e *SeatError) Unwrap() error { return e.Err }

// Seats returns the offending labels carried by err, if any.
func Seats(err error) []string {
	var se *SeatError
	if errors.As(err, &se) {
		return se.Seats
	}
	return nil
}

// StorageError reports that the store or the event lock failed.  Nothing
// was committed.
type StorageError struct {
	Op    string
	Err   error
	retry bool
}

func (e *StorageError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// Retryable reports whether repeating the whole operation may succeed.
func (e *StorageError) Retryable() bool { return e.retry }

// Retryable reports whether err is a storage failure worth retrying.
func Retryable(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Retryable()
}
