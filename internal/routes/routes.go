package routes

import (
	"ipfolio/internal/auth"
	"ipfolio/internal/handlers"

	"github.com/labstack/echo/v4"
)

func SetupRoutes(api *echo.Group) {
	// Public routes
	api.GET("/health", handlers.HealthCheck)

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Use(auth.RateLimitMiddleware)
	authGroup.POST("/signup", handlers.Signup)
	authGroup.POST("/login", handlers.Login)

	// Protected routes
	api.Use(auth.JWTMiddleware)

	clients := api.Group("/clients")
	clients.POST("", handlers.CreateClient)
	clients.GET("", handlers.GetClients)
	clients.PUT("/:id", handlers.UpdateClient)
	clients.DELETE("/:id", handlers.DeleteClient)

	assets := api.Group("/assets")
	assets.POST("", handlers.CreateAsset)
	assets.GET("", handlers.GetAssets)
	assets.GET("/:id", handlers.GetAsset)
	assets.PUT("/:id", handlers.UpdateAsset)
	assets.DELETE("/:id", handlers.DeleteAsset)

	matters := api.Group("/matters")
	matters.POST("", handlers.CreateMatter)
	matters.GET("", handlers.GetMatters)
	matters.PUT("/:id", handlers.UpdateMatter)
	matters.DELETE("/:id", handlers.DeleteMatter)

	tasks := api.Group("/tasks")
	tasks.POST("", handlers.CreateTask)
	tasks.GET("", handlers.GetTasks)
	tasks.PUT("/:id", handlers.UpdateTask)
	tasks.DELETE("/:id", handlers.DeleteTask)

	// Combined alert feed
	alerts := api.Group("/alerts")
	alerts.GET("", handlers.GetAlerts)
	alerts.DELETE("/:id", handlers.DismissAlert)

	// Alert thresholds and notification toggles
	settings := api.Group("/settings")
	settings.GET("/alerts", handlers.GetAlertSettings)
	settings.PUT("/alerts", handlers.UpdateAlertSettings)

	// Brand monitoring
	monitoring := api.Group("/monitoring")
	monitoring.POST("/items", handlers.CreateMonitoringItem)
	monitoring.GET("/items", handlers.GetMonitoringItems)
	monitoring.GET("/items/:id", handlers.GetMonitoringItem)
	monitoring.PUT("/items/:id", handlers.UpdateMonitoringItem)
	monitoring.DELETE("/items/:id", handlers.DeleteMonitoringItem)
	monitoring.POST("/items/:id/check", handlers.RunMonitoringCheck)
	monitoring.POST("/items/:id/check/queue", handlers.QueueMonitoringCheck)
	monitoring.GET("/items/:id/alerts", handlers.GetMonitoringItemAlerts)
	monitoring.GET("/alerts", handlers.GetMonitoringAlerts)

	// Registry gateway credentials
	keys := api.Group("/keys")
	keys.POST("/registry", handlers.StoreRegistryKey)
	keys.GET("/registry", handlers.GetRegistryKey)
	keys.POST("/registry/rotate", handlers.RotateRegistryKey)
	keys.DELETE("/registry", handlers.DeleteRegistryKey)

	// Job routes
	jobs := api.Group("/jobs")
	jobs.GET("/:id", handlers.GetJobStatus)

	// Notifications
	notifications := api.Group("/notifications")
	notifications.GET("", handlers.GetNotifications)
	notifications.GET("/stats", handlers.GetNotificationStats)
	notifications.PUT("/:id/read", handlers.MarkNotificationRead)
	notifications.PUT("/read-all", handlers.MarkAllNotificationsRead)
	notifications.DELETE("/expired", handlers.CleanupExpiredNotifications)
	notifications.DELETE("/:id", handlers.DeleteNotification)

	// Tenant administration
	adminGroup := api.Group("/admin")
	adminGroup.POST("/organizations", handlers.CreateOrganization)
	adminGroup.GET("/organizations", handlers.GetOrganizations)
	adminGroup.DELETE("/organizations/:id", handlers.DeleteOrganization)
	adminGroup.POST("/packages", handlers.CreatePackage)
	adminGroup.GET("/packages", handlers.GetPackages)
	adminGroup.DELETE("/packages/:id", handlers.DeletePackage)
	adminGroup.POST("/users", handlers.CreateOrgUser)
	adminGroup.GET("/users", handlers.GetOrgUsers)
	adminGroup.DELETE("/users/:id", handlers.DeleteOrgUser)
}
