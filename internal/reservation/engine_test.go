package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/concert-seat-reservation/internal/model"
	"github.com/iliyamo/concert-seat-reservation/internal/queue"
	"github.com/iliyamo/concert-seat-reservation/internal/repository"
	"github.com/iliyamo/concert-seat-reservation/internal/repository/memory"
)

type recorder struct{ events []queue.ReservationEvent }

func (r *recorder) Notify(_ context.Context, ev queue.ReservationEvent) error {
	r.events = append(r.events, ev)
	return nil
}

// newEngine returns an engine over a 4x8 venue hosting one event.
func newEngine(t *testing.T, opts ...Option) (*Engine, *memory.Store, uint64) {
	t.Helper()
	store := memory.New()
	v, err := store.AddVenue("Hall", "Tehran", 4, 8)
	require.NoError(t, err)
	ev, err := store.AddEvent(v.ID, "Evening Show", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return New(store, opts...), store, ev.ID
}

func TestExampleScenario(t *testing.T) {
	ctx := context.Background()
	e, _, ev := newEngine(t)
	const userA, userB, userC, userD = 1, 2, 3, 4

	a, err := e.Reserve(ctx, ev, userA, []string{"1A", "1B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1A", "1B"}, a.Seats)

	_, err = e.Reserve(ctx, ev, userB, []string{"1B", "1C"})
	require.ErrorIs(t, err, ErrSeatConflict)
	assert.Equal(t, []string{"1B"}, Seats(err))

	_, err = e.ReserveAuto(ctx, ev, userA, 3)
	assert.ErrorIs(t, err, ErrAlreadyReserved)

	c, err := e.ReserveAuto(ctx, ev, userC, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"1C", "1D", "1E"}, c.Seats)

	_, err = e.Cancel(ctx, a.ID, userA)
	require.NoError(t, err)

	d, err := e.Reserve(ctx, ev, userD, []string{"1A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1A"}, d.Seats)
}

func TestReserveValidationOrder(t *testing.T) {
	ctx := context.Background()
	e, _, ev := newEngine(t)
	_, err := e.Reserve(ctx, ev, 1, []string{"2C"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		user   uint64
		seats  []string
		want   error
		labels []string
	}{
		{"format wins over bounds", 2, []string{"99Z", "1a"}, ErrInvalidSeatFormat, []string{"1a"}},
		{"format wins over conflict", 2, []string{"2C", "A1"}, ErrInvalidSeatFormat, []string{"A1"}},
		{"bounds row", 2, []string{"1A", "5A"}, ErrOutOfBounds, []string{"5A"}},
		{"bounds column", 2, []string{"1I"}, ErrOutOfBounds, []string{"1I"}},
		{"row zero", 2, []string{"0A"}, ErrOutOfBounds, []string{"0A"}},
		{"bounds wins over already reserved", 1, []string{"9A"}, ErrOutOfBounds, []string{"9A"}},
		{"already reserved wins over conflict", 1, []string{"2C"}, ErrAlreadyReserved, nil},
		{"conflict lists only taken seats", 2, []string{"2B", "2C", "2D"}, ErrSeatConflict, []string{"2C"}},
		{"leading zero is the same seat", 2, []string{"02C"}, ErrSeatConflict, []string{"2C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Reserve(ctx, ev, tt.user, tt.seats)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.labels, Seats(err))
		})
	}

	seats, err := e.ReservedSeats(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, []string{"2C"}, seats, "rejected requests must not write anything")
}

func TestReserveEmptyAndDuplicates(t *testing.T) {
	ctx := context.Background()
	e, _, ev := newEngine(t)

	_, err := e.Reserve(ctx, ev, 1, nil)
	assert.ErrorIs(t, err, ErrNoSeats)

	r, err := e.Reserve(ctx, ev, 1, []string{"3B", "1A", "3B", "01A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"3B", "1A"}, r.Seats)
}

func TestUnknownEvent(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngine(t)

	_, err := e.Reserve(ctx, 404, 1, []string{"1A"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = e.ReserveAuto(ctx, 404, 1, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = e.Counts(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = e.ReservedSeats(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = e.SeatMap(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReserveAutoCapacity(t *testing.T) {
	ctx := context.Background()
	e, _, ev := newEngine(t)

	_, err := e.ReserveAuto(ctx, ev, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidCount)

	_, err = e.ReserveAuto(ctx, ev, 1, 33)
	assert.ErrorIs(t, err, ErrInsufficientCapacity)

	r, err := e.ReserveAuto(ctx, ev, 1, 30)
	require.NoError(t, err)
	assert.Len(t, r.Seats, 30)
	assert.Equal(t, "4F", r.Seats[29])

	_, err = e.ReserveAuto(ctx, ev, 2, 3)
	assert.ErrorIs(t, err, ErrInsufficientCapacity)

	last, err := e.ReserveAuto(ctx, ev, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"4G", "4H"}, last.Seats)

	counts, err := e.Counts(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, Counts{Reserved: 32, Available: 0, Total: 32, Rows: 4, Columns: 8}, counts)
}

func TestReserveAutoIsDeterministic(t *testing.T) {
	ctx := context.Background()
	var got [][]string
	for i := 0; i < 2; i++ {
		e, _, ev := newEngine(t)
		_, err := e.Reserve(ctx, ev, 1, []string{"1B", "1D", "2A"})
		require.NoError(t, err)
		r, err := e.ReserveAuto(ctx, ev, 2, 4)
		require.NoError(t, err)
		got = append(got, r.Seats)
	}
	assert.Equal(t, []string{"1A", "1C", "1E", "1F"}, got[0])
	assert.Equal(t, got[0], got[1])
}

func TestOneReservationPerUser(t *testing.T) {
	ctx := context.Background()
	e, _, ev := newEngine(t)

	r, err := e.Reserve(ctx, ev, 7, []string{"1A"})
	require.NoError(t, err)

	_, err = e.Reserve(ctx, ev, 7, []string{"2A"})
	assert.ErrorIs(t, err, ErrAlreadyReserved)
	_, err = e.ReserveAuto(ctx, ev, 7, 1)
	assert.ErrorIs(t, err, ErrAlreadyReserved)

	_, err = e.Cancel(ctx, r.ID, 7)
	require.NoError(t, err)
	_, err = e.Reserve(ctx, ev, 7, []string{"2A"})
	assert.NoError(t, err)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	e, _, ev := newEngine(t, WithNotifier(rec))

	r, err := e.Reserve(ctx, ev, 1, []string{"1A", "1B"})
	require.NoError(t, err)

	_, err = e.Cancel(ctx, 999, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.Cancel(ctx, r.ID, 2)
	assert.ErrorIs(t, err, ErrForbidden)

	removed, err := e.Cancel(ctx, r.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"1A", "1B"}, removed.Seats)

	_, err = e.Cancel(ctx, r.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.UserReservation(ctx, ev, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	seats, err := e.ReservedSeats(ctx, ev)
	require.NoError(t, err)
	assert.Empty(t, seats)

	again, err := e.Reserve(ctx, ev, 2, []string{"1A", "1B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1A", "1B"}, again.Seats)

	require.Len(t, rec.events, 3)
	assert.Equal(t, queue.TypeReservationCreated, rec.events[0].Type)
	assert.Equal(t, queue.TypeReservationCancelled, rec.events[1].Type)
	assert.Equal(t, r.ID, rec.events[1].ReservationID)
	assert.Equal(t, []string{"1A", "1B"}, rec.events[1].Seats)
}

func TestInventoryQueries(t *testing.T) {
	ctx := context.Background()
	e, store, ev := newEngine(t)
	_, err := e.Reserve(ctx, ev, 1, []string{"3A", "1H"})
	require.NoError(t, err)
	_, err = e.Reserve(ctx, ev, 2, []string{"1B"})
	require.NoError(t, err)

	seats, err := e.ReservedSeats(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, []string{"1B", "1H", "3A"}, seats)

	m, err := e.SeatMap(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, "Evening Show", m.Title)
	assert.Equal(t, 8, m.Venue.Columns)
	assert.Equal(t, seats, m.Reserved)

	mine, err := e.UserReservation(ctx, ev, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"3A", "1H"}, mine.Seats)

	v, err := store.AddVenue("Club", "Shiraz", 2, 2)
	require.NoError(t, err)
	other, err := store.AddEvent(v.ID, "Late Show", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = e.ReserveAuto(ctx, other.ID, 1, 2)
	require.NoError(t, err)

	list, err := e.UserReservations(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Evening Show", list[0].Title)
	assert.Equal(t, "Late Show", list[1].Title)

	events, err := e.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 3, events[0].Reserved)
	assert.Equal(t, 2, events[1].Reserved)
}

// failingStore fails the insert after the tx has validated everything.
type failingStore struct {
	*memory.Store
	err error
}

func (f failingStore) InTx(ctx context.Context, eventID uint64, fn func(tx repository.Tx) error) error {
	return f.Store.InTx(ctx, eventID, func(tx repository.Tx) error {
		return fn(failingTx{Tx: tx, err: f.err})
	})
}

type failingTx struct {
	repository.Tx
	err error
}

func (f failingTx) InsertReservation(ctx context.Context, r *model.Reservation) error {
	if err := f.Tx.InsertReservation(ctx, r); err != nil {
		return err
	}
	return f.err
}

func TestStorageFailureLeavesNothingBehind(t *testing.T) {
	ctx := context.Background()
	_, store, ev := newEngine(t)
	retry := &repository.TxError{Op: "commit", Err: errors.New("connection reset")}
	e := New(failingStore{Store: store, err: retry})

	_, err := e.Reserve(ctx, ev, 1, []string{"1A"})
	require.ErrorIs(t, err, ErrStorage)
	assert.False(t, Retryable(err))

	seats, err := New(store).ReservedSeats(ctx, ev)
	require.NoError(t, err)
	assert.Empty(t, seats)
	_, err = store.ReservationByUser(ctx, ev, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUniqueKeyFallbackReportsConflict(t *testing.T) {
	ctx := context.Background()
	_, store, ev := newEngine(t)
	_, err := New(store).Reserve(ctx, ev, 1, []string{"1C"})
	require.NoError(t, err)

	dup := errors.Join(repository.ErrDuplicateSeat, errors.New("1C"))
	e := New(failingStore{Store: store, err: dup})
	_, err = e.Reserve(ctx, ev, 2, []string{"1B", "1D"})
	require.ErrorIs(t, err, ErrSeatConflict)
	assert.Equal(t, []string{"1B", "1D"}, Seats(err))
}

func TestLockTimeoutIsRetryable(t *testing.T) {
	ctx := context.Background()
	_, store, ev := newEngine(t)
	e := New(store, WithLocker(stuckLocker{}))

	_, err := e.Reserve(ctx, ev, 1, []string{"1A"})
	require.ErrorIs(t, err, ErrStorage)
	assert.True(t, Retryable(err))
}
