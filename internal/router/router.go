package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/concert-seat-reservation/internal/handler"
	"github.com/iliyamo/concert-seat-reservation/internal/middleware"
)

// Deps carries everything the routes need.  RateLimit and Cache may be
// pass-through middleware when Redis is unavailable.
type Deps struct {
	JWTSecret    string
	Auth         *handler.AuthHandler
	Events       *handler.EventHandler
	Reservations *handler.ReservationHandler
	RateLimit    echo.MiddlewareFunc
	Cache        echo.MiddlewareFunc
}

// RegisterRoutes registers the health check and every API route on e.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	jwt := middleware.JWTAuth(d.JWTSecret)
	api := e.Group("/api")

	// session
	api.POST("/session", d.Auth.Login)
	api.GET("/session", d.Auth.Me, jwt)

	// public inventory, cached per event
	cache := orPass(d.Cache)
	api.GET("/events", d.Events.List, cache)
	api.GET("/events/:id/seats", d.Events.Seats, cache)
	api.GET("/events/:id/count", d.Events.Count, cache)

	// a user's own reservations
	api.GET("/events/:id/users/:uid", d.Reservations.ForEvent, jwt, middleware.RequireSelf("uid"))
	api.GET("/users/:uid/reservations", d.Reservations.ListMine, jwt, middleware.RequireSelf("uid"))

	// writes
	limit := orPass(d.RateLimit)
	api.POST("/reservations", d.Reservations.Reserve, jwt, limit)
	api.POST("/reservations/auto", d.Reservations.ReserveAuto, jwt, limit)
	api.DELETE("/reservations/:id", d.Reservations.Cancel, jwt)
}

func orPass(m echo.MiddlewareFunc) echo.MiddlewareFunc {
	if m != nil {
		return m
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
}
