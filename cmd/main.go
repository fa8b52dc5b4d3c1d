package main

import (
	"log/slog"
	"os"

	"ipfolio/internal/auth"
	"ipfolio/internal/config"
	"ipfolio/internal/db"
	"ipfolio/internal/handlers"
	"ipfolio/internal/migrations"
	"ipfolio/internal/models"
	"ipfolio/internal/monitoring"
	"ipfolio/internal/notification"
	"ipfolio/internal/queue"
	"ipfolio/internal/registry"
	"ipfolio/internal/routes"
	"ipfolio/internal/security"
	"ipfolio/internal/store"
	migrationfiles "ipfolio/migrations"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("Warning: .env file not found", "error", err)
	}

	// Database and schema
	db.InitDB()
	if err := migrations.Up(migrationfiles.Files); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Security: password rules, KMS encryption, rate limiting
	auth.InitSecurity()
	if err := security.InitSecurity(); err != nil {
		slog.Error("Failed to initialize security", "error", err)
		os.Exit(1)
	}

	// Firestore-backed notifications
	if err := config.InitFireStore(); err != nil {
		slog.Error("Failed to initialize Firestore", "error", err)
		os.Exit(1)
	}
	defer config.CloseFirebaseConnection()
	if err := notification.InitNotificationService(); err != nil {
		slog.Error("Failed to initialize notification service", "error", err)
		os.Exit(1)
	}

	// Task queue for background checks and credential rotation
	if err := queue.InitQueue(); err != nil {
		slog.Error("Failed to initialize task queue", "error", err)
		os.Exit(1)
	}
	defer queue.Close()

	// Per-org portfolio sessions, seeded from persisted alert settings
	sessions := store.NewSessions(func(orgID string) models.AlertSettings {
		settings, err := db.GetAlertSettings(orgID)
		if err != nil {
			slog.Error("Failed to load alert settings, using defaults", "org_id", orgID, "error", err)
			return models.DefaultAlertSettings()
		}
		return settings
	})

	// Monitoring service wired to the registry gateway
	notifier := notification.NewAlertNotifier(notification.GetNotificationService(), db.GetAlertSettings)
	monitor := monitoring.NewService(
		db.NewMonitoringStore(),
		registry.NewClient(),
		security.RegistryAPIKey,
		notifier,
	)

	handlers.Init(sessions, store.NewAdmin(), monitor)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(security.RateLimiter)

	api := e.Group("/api")
	routes.SetupRoutes(api)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	e.Logger.Fatal(e.Start(":" + port))
}
