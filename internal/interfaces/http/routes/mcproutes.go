package routes

import (
	"github.com/gin-gonic/gin"

	mcphandlers "github.com/praxisops/praxis/internal/interfaces/http/handlers/mcp"
)

type MCPRouteConfig struct {
	MCPHandler *mcphandlers.MCPHandler
}

// SetupMCPRoutes registers the JSON-RPC adapter. Bearer auth is enforced
// inside the handler so failures stay in the JSON-RPC envelope.
func SetupMCPRoutes(engine *gin.Engine, config *MCPRouteConfig) {
	engine.POST("/api/mcp/chatgpt/", config.MCPHandler.Handle)
}
