package routes

import (
	"github.com/gin-gonic/gin"

	tickethandlers "github.com/praxisops/praxis/internal/interfaces/http/handlers/ticket"
	"github.com/praxisops/praxis/internal/interfaces/http/middleware"
)

type TicketRouteConfig struct {
	TicketHandler        *tickethandlers.TicketHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupTicketRoutes(engine *gin.Engine, config *TicketRouteConfig) {
	tickets := engine.Group("/api/tickets")
	tickets.Use(config.AuthMiddleware.RequireAuth())
	{
		tickets.POST("",
			config.PermissionMiddleware.Require("tickets.write"),
			config.TicketHandler.CreateTicket)
		tickets.GET("",
			config.PermissionMiddleware.Require("tickets.read"),
			config.TicketHandler.ListTickets)

		// Sub-resources must be registered before the bare /:id routes.
		tickets.POST("/:id/replies",
			config.PermissionMiddleware.Require("tickets.reply"),
			config.TicketHandler.AddReply)
		tickets.GET("/:id/replies",
			config.PermissionMiddleware.Require("tickets.read"),
			config.TicketHandler.ListReplies)

		tickets.GET("/:id/watchers",
			config.PermissionMiddleware.Require("tickets.read"),
			config.TicketHandler.ListWatchers)
		tickets.POST("/:id/watchers",
			config.PermissionMiddleware.Require("tickets.write"),
			config.TicketHandler.AddWatcher)
		tickets.DELETE("/:id/watchers/:userID",
			config.PermissionMiddleware.Require("tickets.write"),
			config.TicketHandler.RemoveWatcher)

		tickets.GET("/:id",
			config.PermissionMiddleware.Require("tickets.read"),
			config.TicketHandler.GetTicket)
		tickets.PATCH("/:id",
			config.PermissionMiddleware.Require("tickets.write"),
			config.TicketHandler.UpdateTicket)
	}
}
