// Package notification exposes the in-app feed and channel preferences
// over HTTP.
package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appnotification "github.com/praxisops/praxis/internal/application/notification"
	"github.com/praxisops/praxis/internal/interfaces/http/middleware"
	"github.com/praxisops/praxis/internal/shared/errors"
	"github.com/praxisops/praxis/internal/shared/logger"
	"github.com/praxisops/praxis/internal/shared/utils"
)

type NotificationHandler struct {
	service *appnotification.Service
	logger  logger.Interface
}

func NewNotificationHandler(service *appnotification.Service) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger.NewLogger(),
	}
}

type SetPreferenceRequest struct {
	EventType string          `json:"event_type" binding:"required"`
	Channels  map[string]bool `json:"channels" binding:"required"`
}

// ListNotifications handles GET /api/notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID := c.GetUint(middleware.ContextKeyUserID)
	page := utils.ParsePagination(c)

	result, err := h.service.ListForUser(c.Request.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Items, result.Total, result.Limit, result.Offset)
}

// MarkRead handles POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid notification ID"))
		return
	}

	userID := c.GetUint(middleware.ContextKeyUserID)
	if err := h.service.MarkRead(c.Request.Context(), uint(id), userID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// ListSettings handles GET /api/notifications/settings
func (h *NotificationHandler) ListSettings(c *gin.Context) {
	result, err := h.service.ListVisibleSettings(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListPreferences handles GET /api/notifications/preferences
func (h *NotificationHandler) ListPreferences(c *gin.Context) {
	userID := c.GetUint(middleware.ContextKeyUserID)

	result, err := h.service.ListPreferences(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// SetPreference handles PUT /api/notifications/preferences
func (h *NotificationHandler) SetPreference(c *gin.Context) {
	var req SetPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	userID := c.GetUint(middleware.ContextKeyUserID)
	result, err := h.service.SetPreference(c.Request.Context(), userID, req.EventType, req.Channels)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Preference updated", result)
}
