package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apppermission "github.com/praxisops/praxis/internal/application/permission"
	"github.com/praxisops/praxis/internal/infrastructure/auth"
	"github.com/praxisops/praxis/internal/shared/logger"
	"github.com/praxisops/praxis/internal/shared/utils"
)

// Context keys set by the auth middleware.
const (
	ContextKeyUserID       = "user_id"
	ContextKeyIsSuperAdmin = "is_super_admin"
	ContextKeyIsTechnician = "is_technician"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, log logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService, logger: log}
}

// RequireAuth validates the bearer token and stores the principal on the
// context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(token)
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyIsSuperAdmin, claims.IsSuperAdmin)
		c.Set(ContextKeyIsTechnician, claims.IsTechnician)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// PrincipalFromContext rebuilds the guard principal from the context keys
// set by RequireAuth.
func PrincipalFromContext(c *gin.Context) apppermission.Principal {
	return apppermission.Principal{
		UserID:       c.GetUint(ContextKeyUserID),
		IsSuperAdmin: c.GetBool(ContextKeyIsSuperAdmin),
		IsTechnician: c.GetBool(ContextKeyIsTechnician),
	}
}
