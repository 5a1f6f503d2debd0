package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/concert-seat-reservation/internal/model"
	"github.com/iliyamo/concert-seat-reservation/internal/repository"
)

var _ repository.Store = (*Store)(nil)

func newStore(t *testing.T) (*Store, uint64) {
	t.Helper()
	s := New()
	v, err := s.AddVenue("Unipol Arena", "Bologna", 4, 8)
	require.NoError(t, err)
	e, err := s.AddEvent(v.ID, "Blink 182", time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return s, e.ID
}

func insert(t *testing.T, s *Store, eventID, userID uint64, seats ...string) *model.Reservation {
	t.Helper()
	r := &model.Reservation{EventID: eventID, UserID: userID, Seats: seats}
	require.NoError(t, s.InTx(context.Background(), eventID, func(tx repository.Tx) error {
		return tx.InsertReservation(context.Background(), r)
	}))
	return r
}

func TestAddVenueValidatesGrid(t *testing.T) {
	s := New()
	_, err := s.AddVenue("Too wide", "", 2, 27)
	assert.Error(t, err)
	_, err = s.AddEvent(99, "Orphan", time.Now())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestInTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s, ev := newStore(t)
	boom := errors.New("boom")

	err := s.InTx(ctx, ev, func(tx repository.Tx) error {
		require.NoError(t, tx.InsertReservation(ctx, &model.Reservation{EventID: ev, UserID: 1, Seats: []string{"1A"}}))
		seats, err := tx.ReservedSeats(ctx, ev)
		require.NoError(t, err)
		assert.Equal(t, []string{"1A"}, seats, "a unit sees its own writes")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	seats, err := s.ReservedSeats(ctx, ev)
	require.NoError(t, err)
	assert.Empty(t, seats)
}

func TestInsertEnforcesUniqueKeys(t *testing.T) {
	ctx := context.Background()
	s, ev := newStore(t)
	insert(t, s, ev, 1, "1A", "1B")

	err := s.InTx(ctx, ev, func(tx repository.Tx) error {
		return tx.InsertReservation(ctx, &model.Reservation{EventID: ev, UserID: 1, Seats: []string{"2A"}})
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateUser)

	err = s.InTx(ctx, ev, func(tx repository.Tx) error {
		return tx.InsertReservation(ctx, &model.Reservation{EventID: ev, UserID: 2, Seats: []string{"2A", "1B"}})
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateSeat)

	assert.ErrorIs(t, s.InTx(ctx, 404, func(repository.Tx) error { return nil }), repository.ErrNotFound)
}

func TestDeleteFreesSeats(t *testing.T) {
	ctx := context.Background()
	s, ev := newStore(t)
	r := insert(t, s, ev, 1, "1A")

	require.NoError(t, s.InTx(ctx, ev, func(tx repository.Tx) error {
		if err := tx.DeleteReservation(ctx, r.ID); err != nil {
			return err
		}
		_, err := tx.ReservationByID(ctx, r.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		return tx.InsertReservation(ctx, &model.Reservation{EventID: ev, UserID: 2, Seats: []string{"1A"}})
	}))

	got, err := s.ReservationByUser(ctx, ev, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"1A"}, got.Seats)
	_, err = s.ReservationByID(ctx, r.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = s.InTx(ctx, ev, func(tx repository.Tx) error { return tx.DeleteReservation(ctx, r.ID) })
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReturnedReservationsAreCopies(t *testing.T) {
	ctx := context.Background()
	s, ev := newStore(t)
	r := insert(t, s, ev, 1, "1A")
	r.Seats[0] = "4H"

	got, err := s.ReservationByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"1A"}, got.Seats)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	u := NewUsers()
	id, err := u.Create(ctx, "user1", " U1@Polito.it ", "password1", "vip", 4)
	require.NoError(t, err)

	got, err := u.GetByEmail(ctx, "u1@polito.it")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, model.StatusNormal, got.Status)

	_, err = u.Create(ctx, "again", "u1@polito.it", "x", model.StatusLoyal, 4)
	assert.ErrorIs(t, err, repository.ErrEmailExists)

	_, err = u.GetByID(ctx, id+1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
