package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/eniomcosta/gobarber/internal/adapter/mail"
	"github.com/eniomcosta/gobarber/internal/adapter/queue"
	"github.com/eniomcosta/gobarber/internal/config"
	"github.com/eniomcosta/gobarber/internal/job"
	"github.com/eniomcosta/gobarber/internal/worker"
	"github.com/eniomcosta/gobarber/pkg/datefmt"
	"github.com/eniomcosta/gobarber/pkg/logger"
	redisclient "github.com/eniomcosta/gobarber/pkg/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("worker exited with error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "."
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	l, err := logger.New(logger.Config{
		Level:            cfg.Logger.Level,
		Format:           cfg.Logger.Format,
		OutputPath:       cfg.Logger.OutputPath,
		SlowQuerySeconds: cfg.Logger.SlowQuerySeconds,
		EnableSampling:   cfg.Logger.EnableSampling,
		ServiceName:      cfg.Logger.ServiceName + "-worker",
		ServiceVersion:   cfg.Logger.ServiceVersion,
		Environment:      os.Getenv("APP_ENV"),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	rdb, err := redisclient.NewClient(redisclient.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
	}, l)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer func() { _ = rdb.Close() }()

	jobQueue := queue.NewRedisQueue(rdb.Client, cfg.Redis.QueueKey, l)

	mailer := mail.NewMailer(mail.Config{
		Host:         cfg.SMTP.Host,
		Port:         cfg.SMTP.Port,
		User:         cfg.SMTP.User,
		Password:     cfg.SMTP.Password,
		TLS:          cfg.SMTP.TLS,
		From:         cfg.SMTP.From,
		TemplatesDir: cfg.SMTP.TemplatesDir,
	}, l)

	formatter := datefmt.NewFormatter(cfg.Schedule.DateLayout)

	w := worker.New(jobQueue, l)
	w.Register(job.NewCancellationMailJob(mailer, formatter, l))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	l.Info("worker starting",
		zap.String("queue", cfg.Redis.QueueKey),
		zap.String("service", cfg.Logger.ServiceName),
	)

	return w.Run(ctx)
}
