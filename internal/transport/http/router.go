package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ledgerpress/notifier/internal/transport/mw"
)

// NewRouter sets up all Echo routes and middleware.
func NewRouter(h *Handler, adminJWTSecret string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	// Health (no auth required)
	e.GET("/health", h.Health)

	// Public subscription endpoints
	e.POST("/subscribe", h.Subscribe)
	e.GET("/unsubscribe", h.Unsubscribe)

	// Admin — requires the CMS admin token
	admin := e.Group("/admin")
	admin.Use(mw.AdminAuth(adminJWTSecret))

	admin.POST("/posts/:id/notifications", h.TriggerNotification)
	admin.GET("/posts/:id/notifications", h.NotificationStats)
	admin.GET("/notifications/stream", h.Stream)

	return e
}
