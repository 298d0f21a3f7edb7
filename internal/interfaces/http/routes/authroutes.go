package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/praxisops/praxis/internal/infrastructure/ratelimit"
	authhandlers "github.com/praxisops/praxis/internal/interfaces/http/handlers/auth"
	"github.com/praxisops/praxis/internal/interfaces/http/middleware"
)

type AuthRouteConfig struct {
	AuthHandler    *authhandlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    ratelimit.RateLimiter
	AuthRequests   int
	AuthWindow     time.Duration
}

func SetupAuthRoutes(engine *gin.Engine, config *AuthRouteConfig) {
	auth := engine.Group("/api/auth")
	{
		// Login gets its own tighter window to slow credential stuffing.
		auth.POST("/login",
			middleware.AuthRateLimit(config.RateLimiter, config.AuthRequests, config.AuthWindow),
			config.AuthHandler.Login)
		auth.GET("/me",
			config.AuthMiddleware.RequireAuth(),
			config.AuthHandler.Me)
	}
}
