package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"classroom_sync/internal/concurrency"
	"classroom_sync/internal/config"
	"classroom_sync/internal/duedate"
	"classroom_sync/internal/inference"
	"classroom_sync/internal/normalize"
	"classroom_sync/internal/publisher"
	"classroom_sync/internal/scheduler"
	"classroom_sync/internal/service"
	"classroom_sync/internal/source/classroom"
	"classroom_sync/internal/storage/jsonfile"
	"classroom_sync/internal/storage/postgres"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := classroom.Authenticate(ctx, cfg.Auth, logger)
	if err != nil {
		logger.Error("failed to authenticate", "error", err)
		return 1
	}

	src, err := classroom.New(ctx, client, classroom.Config{
		PageSize:       cfg.API.PageSize,
		Timeout:        cfg.API.Timeout,
		MaxAttempts:    cfg.API.Retry.MaxAttempts,
		InitialBackoff: cfg.API.Retry.InitialBackoff,
		MaxBackoff:     cfg.API.Retry.MaxBackoff,
	}, logger)
	if err != nil {
		logger.Error("failed to create classroom source", "error", err)
		return 1
	}

	inferrer, err := inference.NewInferrer(ctx, cfg.Inference, logger)
	if err != nil {
		logger.Error("failed to create inferrer", "error", err)
		return 1
	}

	sink, err := jsonfile.NewSink(cfg.Output.Dir, logger)
	if err != nil {
		logger.Error("failed to create output sink", "error", err)
		return 1
	}

	var (
		courseStore    service.CourseStore
		syncStateStore service.SyncStateStore
		txManager      service.TransactionManager
		pub            service.Publisher
	)

	if cfg.Database.Enabled {
		db, err := postgres.Connect(ctx, cfg.Database.DSN())
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			return 1
		}
		defer db.Close()
		logger.Info("connected to database")

		courseStore = postgres.NewCourseStore(db)
		syncStateStore = postgres.NewSyncStateStore(db)
		txManager = postgres.NewTransactionManager(db)
	}

	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(cfg.RabbitMQ, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			return 1
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	pool := concurrency.NewBlockingPool(cfg.Inference.Workers)
	resolver := duedate.NewResolver(inferrer, pool, logger)
	aggregator := service.NewCourseAggregator(src, normalize.New(resolver), cfg.Sync.WorkItemWorkers, logger)

	syncService := service.NewSyncService(
		src,
		aggregator,
		sink,
		courseStore,
		syncStateStore,
		txManager,
		pub,
		logger,
		cfg.Sync,
	)

	sched := scheduler.NewScheduler(syncService, cfg.Sync.Interval, cfg.Sync.Timeout, logger)

	logger.Info("starting classroom syncer",
		"source", src.ID(),
		"output_dir", cfg.Output.Dir,
		"inference", cfg.Inference.Provider,
		"inference_workers", pool.Size(),
		"failure_policy", cfg.Sync.FailurePolicy,
		"interval", cfg.Sync.Interval,
	)

	if cfg.Sync.Interval <= 0 {
		if _, err := sched.RunOnce(ctx); err != nil {
			logger.Error("sync failed", "error", err)
			return 1
		}
		return 0
	}

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
		return 1
	}
	return 0
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
