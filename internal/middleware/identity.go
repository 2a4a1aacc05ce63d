package middleware

// identity.go holds the helpers that move the authenticated actor
// between JWTAuth, the other middleware and the handlers.

import (
	"github.com/labstack/echo/v4"

	"github.com/kvn-koech/car-rental-management-system/internal/model"
)

const actorKey = "actor"

// ActorFrom returns the actor stored by JWTAuth. ok is false on routes
// that are not behind JWTAuth.
func ActorFrom(c echo.Context) (model.Actor, bool) {
	a, ok := c.Get(actorKey).(model.Actor)
	return a, ok
}

// subject returns the token subject of the current request, or "anon".
func subject(c echo.Context) string {
	if a, ok := ActorFrom(c); ok && a.Subject != "" {
		return a.Subject
	}
	return "anon"
}
