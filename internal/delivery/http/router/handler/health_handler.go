// Package handler contains the HTTP handlers for the fulfillment console API.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports liveness.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
