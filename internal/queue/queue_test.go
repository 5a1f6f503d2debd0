package queue

import (
    "context"
    "encoding/json"
    "errors"
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func sampleEvent(typ string) ReservationEvent {
    return ReservationEvent{
        Type:          typ,
        ReservationID: 12,
        EventID:       3,
        UserID:        5,
        Seats:         []string{"1A", "1B"},
        OccurredAt:    time.Date(2025, 5, 1, 18, 30, 0, 0, time.UTC),
    }
}

func TestFormatLine(t *testing.T) {
    assert.Equal(t,
        "[2025-05-01T18:30:00Z] Reservation created | reservation_id=12 | user_id=5 | event_id=3 | seats=[1A,1B]\n",
        formatLine(sampleEvent(TypeReservationCreated)))

    ev := sampleEvent(TypeReservationCancelled)
    ev.Seats = nil
    assert.Equal(t,
        "[2025-05-01T18:30:00Z] Reservation cancelled | reservation_id=12 | user_id=5 | event_id=3 | seats=[]\n",
        formatLine(ev))
}

func TestHandleMessageAppends(t *testing.T) {
    dir := filepath.Join(t.TempDir(), "logs")
    body, err := json.Marshal(sampleEvent(TypeReservationCreated))
    require.NoError(t, err)

    require.NoError(t, handleMessage(dir, body))
    require.NoError(t, handleMessage(dir, body))

    data, err := os.ReadFile(filepath.Join(dir, LogFile))
    require.NoError(t, err)
    assert.Equal(t, 2*len(formatLine(sampleEvent(TypeReservationCreated))), len(data))

    assert.Error(t, handleMessage(dir, []byte("{not json")))
}

func TestSubject(t *testing.T) {
    assert.Equal(t, SubjectSeatsReserved, Subject(TypeReservationCreated))
    assert.Equal(t, SubjectSeatsReleased, Subject(TypeReservationCancelled))
}

type recorder struct {
    got []ReservationEvent
    err error
}

func (r *recorder) Notify(_ context.Context, ev ReservationEvent) error {
    r.got = append(r.got, ev)
    return r.err
}

func TestFanoutDeliversToAll(t *testing.T) {
    boom := errors.New("boom")
    a, b := &recorder{}, &recorder{err: boom}
    err := Fanout{a, b}.Notify(context.Background(), sampleEvent(TypeReservationCreated))

    assert.ErrorIs(t, err, boom)
    assert.Len(t, a.got, 1)
    assert.Len(t, b.got, 1)

    assert.NoError(t, Logging{Next: b}.Notify(context.Background(), sampleEvent(TypeReservationCreated)))
    assert.Len(t, b.got, 2)
}
