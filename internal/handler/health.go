package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"
)

// Health answers load balancer probes.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// parseID accepts positive decimal IDs only.
func parseID(s string) (uint64, bool) {
    n, err := strconv.ParseUint(s, 10, 64)
    return n, err == nil && n > 0
}
