// Package auth exposes login and the current-user profile.
package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appauth "github.com/praxisops/praxis/internal/application/auth"
	"github.com/praxisops/praxis/internal/interfaces/http/middleware"
	"github.com/praxisops/praxis/internal/shared/logger"
	"github.com/praxisops/praxis/internal/shared/utils"
)

type AuthHandler struct {
	service *appauth.Service
	logger  logger.Interface
}

func NewAuthHandler(service *appauth.Service) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.NewLogger(),
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "email and password are required")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetUint(middleware.ContextKeyUserID)

	result, err := h.service.Profile(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
