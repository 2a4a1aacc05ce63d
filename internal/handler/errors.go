package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kvn-koech/car-rental-management-system/internal/middleware"
	"github.com/kvn-koech/car-rental-management-system/internal/model"
	"github.com/kvn-koech/car-rental-management-system/internal/service"
)

// requestTimeout bounds the service and DB work of a single request.
const requestTimeout = 5 * time.Second

// MapErrorToStatusCode maps service error kinds to HTTP status codes.
// Anything unrecognized is a 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrPasswordPolicy),
		errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidAdminKey):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}

// safeMessage returns the client-facing text for err. Internal details
// never leave the process.
func safeMessage(err error, status int) string {
	if msg, ok := service.Message(err); ok {
		return msg
	}
	if status == http.StatusGatewayTimeout {
		return "Request timed out"
	}
	return "Internal server error"
}

// respondError writes {"message": ...} with the mapped status. 5xx
// errors are logged with the underlying cause.
func respondError(c echo.Context, err error) error {
	status := MapErrorToStatusCode(err)
	msg := safeMessage(err, status)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"status", status,
			"error", err)
	} else {
		slog.Debug("request rejected", "path", c.Path(), "status", status, "error", err)
	}
	return c.JSON(status, echo.Map{"message": msg})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"message": msg})
}

// requestContext derives a bounded context from the request.
func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// actor returns the authenticated actor. Routes behind JWTAuth always
// have one; the zero Actor is neither admin nor user.
func actor(c echo.Context) model.Actor {
	a, _ := middleware.ActorFrom(c)
	return a
}
