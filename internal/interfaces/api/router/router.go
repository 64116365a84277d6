package router

import (
	"fmt"
	"net/http"

	"github.com/mishcoders/rafiq-salah-extension/internal/interfaces/api/handler"
	"github.com/mishcoders/rafiq-salah-extension/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Config holds the dependencies for the router.
type Config struct {
	ExtensionHandler *handler.ExtensionHandler
	LineHandler      *handler.LineHandler
	Logger           logger.Logger
}

// NewRouter creates and configures a new Echo router.
func NewRouter(cfg *Config) *echo.Echo {
	e := echo.New()

	// Middleware
	e.Use(middleware.RequestID())
	// Use custom logger that integrates with our logger interface
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogHost:      true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			cfg.Logger.Info(fmt.Sprintf("REQUEST: method=%s, uri=%s, status=%d, latency=%s, req_id=%s",
				v.Method, v.URI, v.Status, v.Latency, v.RequestID,
			))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Line-Signature"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "rafiq-salah")
	})

	// Popup UI messages
	api := e.Group("/api")
	api.POST("/prayer-times", cfg.ExtensionHandler.UpdatePrayerTimes)
	api.GET("/prayer-times/next", cfg.ExtensionHandler.NextPrayer)
	api.POST("/reminders/toggle", cfg.ExtensionHandler.ToggleReminder)
	api.PUT("/settings/notifications", cfg.ExtensionHandler.UpdateNotificationSettings)
	api.GET("/state", cfg.ExtensionHandler.GetState)

	// LINE Webhook Endpoint
	// Note: LINE Platform requires POST for webhook
	e.POST("/callback", cfg.LineHandler.HandleWebhook)

	cfg.Logger.Info("Router initialized with routes.")
	return e
}
