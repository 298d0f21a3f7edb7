package routes

import (
	"github.com/gin-gonic/gin"

	notificationhandlers "github.com/praxisops/praxis/internal/interfaces/http/handlers/notification"
	"github.com/praxisops/praxis/internal/interfaces/http/middleware"
)

type NotificationRouteConfig struct {
	NotificationHandler *notificationhandlers.NotificationHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

func SetupNotificationRoutes(engine *gin.Engine, config *NotificationRouteConfig) {
	notifications := engine.Group("/api/notifications")
	notifications.Use(config.AuthMiddleware.RequireAuth())
	{
		notifications.GET("/settings", config.NotificationHandler.ListSettings)
		notifications.GET("/preferences", config.NotificationHandler.ListPreferences)
		notifications.PUT("/preferences", config.NotificationHandler.SetPreference)

		notifications.GET("", config.NotificationHandler.ListNotifications)
		notifications.POST("/:id/read", config.NotificationHandler.MarkRead)
	}
}
