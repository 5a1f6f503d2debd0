package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/concert-seat-reservation/internal/reservation"
)

// EventHandler serves the public inventory endpoints.  None of them
// require authentication.
type EventHandler struct {
    Engine *reservation.Engine
}

func NewEventHandler(e *reservation.Engine) *EventHandler {
    if e == nil {
        panic("nil engine passed to NewEventHandler")
    }
    return &EventHandler{Engine: e}
}

// List handles GET /api/events.
func (h *EventHandler) List(c echo.Context) error {
    events, err := h.Engine.Events(c.Request().Context())
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, events)
}

// Seats handles GET /api/events/:id/seats and returns the event title,
// its venue grid and every reserved seat label.
func (h *EventHandler) Seats(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    m, err := h.Engine.SeatMap(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, m)
}

// Count handles GET /api/events/:id/count.
func (h *EventHandler) Count(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    counts, err := h.Engine.Counts(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, counts)
}
