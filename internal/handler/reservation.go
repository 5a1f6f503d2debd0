package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/concert-seat-reservation/internal/middleware"
    "github.com/iliyamo/concert-seat-reservation/internal/reservation"
)

// ReservationHandler exposes reservation, auto-fill and cancellation for
// authenticated users.  JWTAuth must run first.
type ReservationHandler struct {
    Engine *reservation.Engine
}

func NewReservationHandler(e *reservation.Engine) *ReservationHandler {
    if e == nil {
        panic("nil engine passed to NewReservationHandler")
    }
    return &ReservationHandler{Engine: e}
}

type reserveReq struct {
    EventID uint64   `json:"event_id"`
    Seats   []string `json:"seats"`
}

type autoReq struct {
    EventID uint64 `json:"event_id"`
    Count   int    `json:"count"`
}

// Reserve handles POST /api/reservations.  The whole request succeeds or
// nothing is booked.
func (h *ReservationHandler) Reserve(c echo.Context) error {
    userID, ok := middleware.UserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req reserveReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.EventID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id is required"})
    }
    r, err := h.Engine.Reserve(c.Request().Context(), req.EventID, userID, req.Seats)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, r)
}

// ReserveAuto handles POST /api/reservations/auto.
func (h *ReservationHandler) ReserveAuto(c echo.Context) error {
    userID, ok := middleware.UserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req autoReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.EventID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id is required"})
    }
    r, err := h.Engine.ReserveAuto(c.Request().Context(), req.EventID, userID, req.Count)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, r)
}

// Cancel handles DELETE /api/reservations/:id.
func (h *ReservationHandler) Cancel(c echo.Context) error {
    userID, ok := middleware.UserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    if _, err := h.Engine.Cancel(c.Request().Context(), id, userID); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// ForEvent handles GET /api/events/:id/users/:uid.  RequireSelf has
// already matched :uid against the caller.
func (h *ReservationHandler) ForEvent(c echo.Context) error {
    eventID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    userID, ok := pathID(c, "uid")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
    }
    r, err := h.Engine.UserReservation(c.Request().Context(), eventID, userID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, r)
}

// ListMine handles GET /api/users/:uid/reservations.
func (h *ReservationHandler) ListMine(c echo.Context) error {
    userID, ok := pathID(c, "uid")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
    }
    list, err := h.Engine.UserReservations(c.Request().Context(), userID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, list)
}
