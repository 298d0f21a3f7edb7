package routes

import (
	"github.com/gin-gonic/gin"

	trackinghandlers "github.com/praxisops/praxis/internal/interfaces/http/handlers/tracking"
)

type TrackingRouteConfig struct {
	TrackingHandler *trackinghandlers.TrackingHandler
}

// SetupTrackingRoutes registers the unauthenticated pixel and click
// endpoints hit from recipients' mail clients.
func SetupTrackingRoutes(engine *gin.Engine, config *TrackingRouteConfig) {
	tracking := engine.Group("/api/email-tracking")
	{
		tracking.GET("/pixel/:id", config.TrackingHandler.Pixel)
		tracking.GET("/click", config.TrackingHandler.Click)
	}
}
