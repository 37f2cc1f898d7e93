// Package http provides the HTTP server for the chat router.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/datamining-co/minai/internal/service"
)

// NewServer creates and configures the public HTTP server.
func NewServer(svc *service.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h := NewHandler(svc)
	h.RegisterRoutes(e)

	return e
}
