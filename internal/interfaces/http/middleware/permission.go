package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apppermission "github.com/praxisops/praxis/internal/application/permission"
	"github.com/praxisops/praxis/internal/shared/utils"
)

// PermissionMiddleware gates routes on dot-scoped permission slugs.
type PermissionMiddleware struct {
	guard *apppermission.Guard
}

func NewPermissionMiddleware(guard *apppermission.Guard) *PermissionMiddleware {
	return &PermissionMiddleware{guard: guard}
}

// Require checks the permission in the company scope taken from the
// X-Company-ID header or company_id query parameter. Super admins pass with
// no scope.
func (m *PermissionMiddleware) Require(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFromContext(c)
		if principal.IsSuperAdmin {
			c.Next()
			return
		}

		companyID := companyScope(c)
		if err := m.guard.Require(c.Request.Context(), principal, companyID, permission); err != nil {
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireTechnician gates routes on the technician flag.
func (m *PermissionMiddleware) RequireTechnician() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFromContext(c)
		if !m.guard.CanSeeInternal(principal) {
			utils.ErrorResponse(c, 403, "technician access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func companyScope(c *gin.Context) uint {
	raw := c.GetHeader("X-Company-ID")
	if raw == "" {
		raw = c.Query("company_id")
	}
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
