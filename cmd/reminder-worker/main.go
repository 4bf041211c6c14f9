package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/amqp"
	"github.com/Nancy214/Expense-Tracker-sub005/internal/config"
	"github.com/Nancy214/Expense-Tracker-sub005/internal/services"
	"github.com/Nancy214/Expense-Tracker-sub005/internal/storage"
	"github.com/Nancy214/Expense-Tracker-sub005/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting reminder-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPEventsQueue, cfg.AMQPRemindQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	reminderService := services.NewReminderService(repo, repo)
	notifier := worker.NewReminderNotifier(reminderService, repo, amqpClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	// The event consumer and the periodic scan run side by side; either
	// failing tears the other down so the process restarts cleanly.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting budget event consumer", "queue", cfg.AMQPEventsQueue)
		return amqpClient.ConsumeBudgetEvents(gctx, func(msg *amqp.BudgetEventMessage) error {
			return notifier.HandleBudgetEvent(gctx, msg)
		})
	})

	g.Go(func() error {
		logger.Info("Starting periodic reminder scan", "interval", cfg.ScanInterval)
		return notifier.Run(gctx, cfg.ScanInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
