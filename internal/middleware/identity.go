package middleware

// identity.go defines helpers shared by middleware and handlers for reading
// the authenticated user placed in the Echo context by JWTAuth, plus a
// guard that restricts per-user routes to their owner.

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"
)

const (
    ctxUserID     = "user_id"
    ctxUserStatus = "user_status"
)

// UserID returns the authenticated user's ID.  ok is false for guests.
func UserID(c echo.Context) (uint64, bool) {
    id, ok := c.Get(ctxUserID).(uint64)
    return id, ok && id != 0
}

// UserStatus returns the authenticated user's loyalty status or "".
func UserStatus(c echo.Context) string {
    s, _ := c.Get(ctxUserStatus).(string)
    return s
}

// userKey identifies the caller for rate limiting.  It returns "guest"
// when no user is authenticated.
func userKey(c echo.Context) string {
    if id, ok := UserID(c); ok {
        return strconv.FormatUint(id, 10)
    }
    return "guest"
}

// RequireSelf rejects requests whose path parameter param names a user
// other than the authenticated one.  Users may only read their own
// reservations.
func RequireSelf(param string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            want, err := strconv.ParseUint(c.Param(param), 10, 64)
            if err != nil {
                return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
            }
            id, ok := UserID(c)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
            }
            if id != want {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
