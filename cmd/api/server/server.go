package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	ginhandler "github.com/eniomcosta/gobarber/internal/adapter/gin/handler"
	"github.com/eniomcosta/gobarber/internal/adapter/gin/middleware"
	ginrouter "github.com/eniomcosta/gobarber/internal/adapter/gin/router"
	"github.com/eniomcosta/gobarber/internal/config"
)

// Server holds the HTTP server serving the REST API
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New creates a new server instance
func New(
	cfg *config.Config,
	l *zap.Logger,
	appointmentHandler *ginhandler.AppointmentHandler,
	notificationHandler *ginhandler.NotificationHandler,
	rateLimiter *middleware.RateLimiter,
) *Server {
	router := ginrouter.SetupRouter(appointmentHandler, notificationHandler, rateLimiter, l)

	return &Server{
		Config: cfg,
		Logger: l,
		HTTP: &http.Server{
			Addr:              ":" + cfg.App.HTTPPort,
			Handler:           router,
			ReadHeaderTimeout: 2 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.Logger.Info("HTTP server running", zap.String("address", s.HTTP.Addr))

	if err := s.HTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
