package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"jangbu/internal/amqp"
	"jangbu/internal/config"
	"jangbu/internal/core"
	"jangbu/internal/log"
	"jangbu/internal/stats"
	"jangbu/internal/storage"
	"jangbu/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger, err := log.Setup(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		slog.Error("Logger setup failed", "error", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL must be set for the worker")
		os.Exit(1)
	}

	logger.Info("Starting jangbu-worker")

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alertWorker := worker.NewAlertWorker(stats.NewService(repo, repo), repo, worker.AlertConfig{
		WarnPercent:   cfg.AlertWarnPercent,
		ExceedPercent: cfg.AlertExceedPercent,
		Concurrency:   cfg.AlertSweepConcurrent,
	})

	// Check current standings once on startup so alerts do not wait for the
	// first event or sweep tick.
	if err := alertWorker.Sweep(ctx, core.MonthKeyOf(time.Now())); err != nil {
		logger.Error("Startup sweep failed", "error", err)
	}

	go func() {
		handler := func(msg *amqp.TransactionEventMessage) error {
			return alertWorker.HandleTransactionEvent(ctx, msg)
		}
		if err := amqpClient.ConsumeTransactionEvents(ctx, handler); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Event consumption failed", "error", err)
			}
			cancel()
		}
	}()

	go alertWorker.Run(ctx, cfg.AlertSweepInterval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	logger.Info("Worker shutdown complete")
}
