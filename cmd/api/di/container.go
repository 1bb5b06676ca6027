package di

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eniomcosta/gobarber/cmd/api/infrastructure"
	"github.com/eniomcosta/gobarber/internal/adapter/cache"
	"github.com/eniomcosta/gobarber/internal/adapter/db/postgres"
	ginhandler "github.com/eniomcosta/gobarber/internal/adapter/gin/handler"
	"github.com/eniomcosta/gobarber/internal/adapter/gin/middleware"
	"github.com/eniomcosta/gobarber/internal/adapter/queue"
	"github.com/eniomcosta/gobarber/internal/adapter/repository/cached"
	"github.com/eniomcosta/gobarber/internal/config"
	"github.com/eniomcosta/gobarber/internal/usecase/appointment"
	"github.com/eniomcosta/gobarber/internal/usecase/notification"
	"github.com/eniomcosta/gobarber/pkg/datefmt"
	redisclient "github.com/eniomcosta/gobarber/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config              *config.Config
	Logger              *zap.Logger
	DB                  *gorm.DB
	RedisClient         *redisclient.Client
	AppointmentUC       appointment.Usecase
	NotificationUC      notification.Usecase
	RateLimiter         *middleware.RateLimiter
	AppointmentHandler  *ginhandler.AppointmentHandler
	NotificationHandler *ginhandler.NotificationHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize database
	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Redis client
	rdb, err := infrastructure.NewRedisClient(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	// Initialize cache layer
	userCache := cache.NewRedisUserCache(
		rdb.Client,
		time.Duration(cfg.Redis.CacheTTL)*time.Second,
		l,
	)

	// Initialize repositories
	userRepo := postgres.NewUserRepoPG(db, cfg.App.FilesBaseURL, l)
	users := cached.NewCachedUserRepository(userRepo, userCache, l)
	appointments := postgres.NewAppointmentRepoPG(db, cfg.App.FilesBaseURL, l)
	notifications := postgres.NewNotificationRepoPG(db, l)

	// Initialize job queue producer
	jobQueue := queue.NewRedisQueue(rdb.Client, cfg.Redis.QueueKey, l)

	// Initialize use cases
	formatter := datefmt.NewFormatter(cfg.Schedule.DateLayout)
	appointmentUC := appointment.New(
		appointments,
		users,
		notifications,
		jobQueue,
		formatter,
		cfg.Schedule.PageSize,
		l,
	)
	notificationUC := notification.New(notifications, userRepo, l)

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(
		rdb.Client,
		middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			WindowSeconds:     cfg.RateLimit.WindowSeconds,
			Enabled:           cfg.RateLimit.Enabled,
		},
		l,
	)

	// Initialize Gin handlers
	appointmentHandler := ginhandler.NewAppointmentHandler(appointmentUC, l)
	notificationHandler := ginhandler.NewNotificationHandler(notificationUC, l)

	return &Container{
		Config:              cfg,
		Logger:              l,
		DB:                  db,
		RedisClient:         rdb,
		AppointmentUC:       appointmentUC,
		NotificationUC:      notificationUC,
		RateLimiter:         rateLimiter,
		AppointmentHandler:  appointmentHandler,
		NotificationHandler: notificationHandler,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
