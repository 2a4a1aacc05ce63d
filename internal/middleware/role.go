package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireAdmin returns a middleware that lets the request through only
// when the actor stored by JWTAuth carries the admin claim. Anyone else
// gets 403 before the handler reads the body, so a rejected car upload
// never touches the content store. It must be chained after JWTAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			a, ok := ActorFrom(c)
			if !ok || !a.IsAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "Admin access required"})
			}
			return next(c)
		}
	}
}
