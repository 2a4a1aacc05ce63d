package handler // HTTP handlers

import (
	"net/http" // status codes

	"github.com/labstack/echo/v4" // Echo framework
)

// Root confirms the API is reachable. The frontend probes it on start.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Car Rental Management System backend is running"})
}

// Health is a liveness check for load balancers and container probes.
// It does not touch the database.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "healthy"})
}
