package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"ipfolio/internal/config"
	"ipfolio/internal/db"
	"ipfolio/internal/monitoring"
	"ipfolio/internal/notification"
	"ipfolio/internal/queue"
	"ipfolio/internal/registry"
	"ipfolio/internal/security"
	"ipfolio/internal/worker"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("Warning: .env file not found", "error", err)
	}

	db.InitDB()

	if err := security.InitSecurity(); err != nil {
		slog.Error("Failed to initialize security", "error", err)
		os.Exit(1)
	}

	if err := config.InitFireStore(); err != nil {
		slog.Error("Failed to initialize Firestore", "error", err)
		os.Exit(1)
	}
	defer config.CloseFirebaseConnection()
	if err := notification.InitNotificationService(); err != nil {
		slog.Error("Failed to initialize notification service", "error", err)
		os.Exit(1)
	}

	// The sweep handler enqueues per-item checks through the queue client.
	if err := queue.InitQueue(); err != nil {
		slog.Error("Failed to initialize task queue", "error", err)
		os.Exit(1)
	}
	defer queue.Close()

	notifier := notification.NewAlertNotifier(notification.GetNotificationService(), db.GetAlertSettings)
	monitor := monitoring.NewService(
		db.NewMonitoringStore(),
		registry.NewClient(),
		security.RegistryAPIKey,
		notifier,
	)

	scheduler, err := queue.NewScheduler()
	if err != nil {
		slog.Error("Failed to create scheduler", "error", err)
		os.Exit(1)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			slog.Error("Scheduler stopped", "error", err)
		}
	}()
	defer scheduler.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := worker.NewWorker(monitor)
	if err := w.Start(ctx); err != nil {
		slog.Error("Worker failed", "error", err)
		os.Exit(1)
	}
}
