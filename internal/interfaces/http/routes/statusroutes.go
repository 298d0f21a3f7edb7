package routes

import (
	"github.com/gin-gonic/gin"

	statushandlers "github.com/praxisops/praxis/internal/interfaces/http/handlers/status"
	"github.com/praxisops/praxis/internal/interfaces/http/middleware"
)

type StatusRouteConfig struct {
	StatusHandler        *statushandlers.StatusHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupStatusRoutes(engine *gin.Engine, config *StatusRouteConfig) {
	statuses := engine.Group("/api/ticket-statuses")
	statuses.Use(config.AuthMiddleware.RequireAuth())
	{
		statuses.GET("", config.StatusHandler.ListStatuses)
		// Catalog replacement rewrites ticket rows; technicians only.
		statuses.PUT("",
			config.PermissionMiddleware.RequireTechnician(),
			config.StatusHandler.ReplaceStatuses)
	}
}
