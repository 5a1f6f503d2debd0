package handler

import (
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"

    "github.com/iliyamo/concert-seat-reservation/internal/reservation"
)

func TestWriteErrorStatus(t *testing.T) {
    storage := &reservation.StorageError{Op: "reserve", Err: errors.New("disk on fire")}
    tests := []struct {
        name string
        err  error
        want int
    }{
        {"format", &reservation.SeatError{Seats: []string{"x"}, Err: reservation.ErrInvalidSeatFormat}, http.StatusBadRequest},
        {"bounds", &reservation.SeatError{Seats: []string{"9A"}, Err: reservation.ErrOutOfBounds}, http.StatusBadRequest},
        {"already reserved", reservation.ErrAlreadyReserved, http.StatusBadRequest},
        {"capacity", reservation.ErrInsufficientCapacity, http.StatusBadRequest},
        {"count", reservation.ErrInvalidCount, http.StatusBadRequest},
        {"conflict", &reservation.SeatError{Seats: []string{"1A"}, Err: reservation.ErrSeatConflict}, http.StatusConflict},
        {"not found", reservation.ErrNotFound, http.StatusNotFound},
        {"forbidden", reservation.ErrForbidden, http.StatusForbidden},
        {"storage", storage, http.StatusInternalServerError},
    }
    e := echo.New()
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            rec := httptest.NewRecorder()
            c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
            assert.NoError(t, writeError(c, tt.err))
            assert.Equal(t, tt.want, rec.Code)
        })
    }

    rec := httptest.NewRecorder()
    c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
    assert.NoError(t, writeError(c, storage))
    assert.NotContains(t, rec.Body.String(), "disk on fire")
}
