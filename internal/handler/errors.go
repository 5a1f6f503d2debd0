package handler

import (
    "errors"
    "log"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/concert-seat-reservation/internal/reservation"
)

// writeError maps reservation engine errors onto HTTP responses.  Client
// errors carry the offending seat labels when there are any; storage
// failures are logged and reported without internals.
func writeError(c echo.Context, err error) error {
    status := http.StatusInternalServerError
    body := echo.Map{"error": err.Error()}

    switch {
    case errors.Is(err, reservation.ErrSeatConflict):
        status = http.StatusConflict
        body = echo.Map{"error": reservation.ErrSeatConflict.Error(), "conflicts": reservation.Seats(err)}
    case errors.Is(err, reservation.ErrInvalidSeatFormat),
        errors.Is(err, reservation.ErrOutOfBounds):
        status = http.StatusBadRequest
        body["seats"] = reservation.Seats(err)
    case errors.Is(err, reservation.ErrAlreadyReserved),
        errors.Is(err, reservation.ErrInsufficientCapacity),
        errors.Is(err, reservation.ErrInvalidCount),
        errors.Is(err, reservation.ErrNoSeats):
        status = http.StatusBadRequest
    case errors.Is(err, reservation.ErrNotFound):
        status = http.StatusNotFound
    case errors.Is(err, reservation.ErrForbidden):
        status = http.StatusForbidden
    default:
        if reservation.Retryable(err) {
            status = http.StatusServiceUnavailable
            c.Response().Header().Set("Retry-After", "1")
        }
        log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
        body = echo.Map{"error": http.StatusText(status)}
    }
    return c.JSON(status, body)
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
    return parseID(c.Param(name))
}
