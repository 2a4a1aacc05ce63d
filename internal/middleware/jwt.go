package middleware // package middleware contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strconv"
	"strings" // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/kvn-koech/car-rental-management-system/internal/model"
	"github.com/kvn-koech/car-rental-management-system/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and stores the resolved model.Actor in the request context. The secret
// must match the one used when issuing tokens. Handlers read the actor
// with ActorFrom.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header is "Bearer <jwt>"; anything else is 401.
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Missing authorization token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid or expired token"})
			}

			actor, ok := actorFromClaims(claims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid or expired token"})
			}
			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// actorFromClaims accepts a decimal user id or the admin subject.
func actorFromClaims(claims *utils.Claims) (model.Actor, bool) {
	a := model.Actor{Subject: claims.Subject, IsAdmin: claims.IsAdmin}
	if claims.Subject == utils.AdminSubject {
		return a, claims.IsAdmin
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return model.Actor{}, false
	}
	a.UserID = id
	return a, true
}
