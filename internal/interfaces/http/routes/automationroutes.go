package routes

import (
	"github.com/gin-gonic/gin"

	automationhandlers "github.com/praxisops/praxis/internal/interfaces/http/handlers/automation"
	"github.com/praxisops/praxis/internal/interfaces/http/middleware"
)

type AutomationRouteConfig struct {
	AutomationHandler    *automationhandlers.AutomationHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupAutomationRoutes(engine *gin.Engine, config *AutomationRouteConfig) {
	rules := engine.Group("/api/automation/rules")
	rules.Use(config.AuthMiddleware.RequireAuth(), config.PermissionMiddleware.RequireTechnician())
	{
		rules.POST("", config.AutomationHandler.CreateRule)
		rules.GET("", config.AutomationHandler.ListRules)
		rules.GET("/:id/runs", config.AutomationHandler.ListRuns)
		rules.PATCH("/:id/status", config.AutomationHandler.SetRuleStatus)
		rules.GET("/:id", config.AutomationHandler.GetRule)
		rules.DELETE("/:id", config.AutomationHandler.DeleteRule)
	}
}
