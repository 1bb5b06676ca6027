package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eniomcosta/gobarber/internal/adapter/gin/handler"
	"github.com/eniomcosta/gobarber/internal/adapter/gin/middleware"
)

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	appointmentHandler *handler.AppointmentHandler,
	notificationHandler *handler.NotificationHandler,
	rateLimiter *middleware.RateLimiter,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(rateLimiter.Middleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "gobarber-api",
		})
	})

	// Authenticated routes
	authed := router.Group("/")
	authed.Use(middleware.Auth(log))
	{
		appointments := authed.Group("/appointments")
		{
			appointments.GET("", appointmentHandler.Index)
			appointments.POST("", appointmentHandler.Store)
			appointments.DELETE("/:id", appointmentHandler.Delete)
		}

		notifications := authed.Group("/notifications")
		{
			notifications.GET("", notificationHandler.Index)
			notifications.PUT("/:id", notificationHandler.Update)
		}
	}

	return router
}
