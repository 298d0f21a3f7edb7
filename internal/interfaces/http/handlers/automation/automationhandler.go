// Package automation exposes automation rule management over HTTP.
package automation

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appautomation "github.com/praxisops/praxis/internal/application/automation"
	"github.com/praxisops/praxis/internal/shared/errors"
	"github.com/praxisops/praxis/internal/shared/logger"
	"github.com/praxisops/praxis/internal/shared/utils"
)

type AutomationHandler struct {
	service *appautomation.Service
	logger  logger.Interface
}

func NewAutomationHandler(service *appautomation.Service) *AutomationHandler {
	return &AutomationHandler{
		service: service,
		logger:  logger.NewLogger(),
	}
}

// CreateRuleRequest covers both scheduled and event-triggered rules.
// Kind decides which trigger fields are read.
type CreateRuleRequest struct {
	Name           string         `json:"name" binding:"required"`
	Kind           string         `json:"kind" binding:"required"`
	Cadence        string         `json:"cadence"`
	CronExpression string         `json:"cron_expression"`
	ScheduledTime  string         `json:"scheduled_time"`
	RunOnce        bool           `json:"run_once"`
	TriggerEvent   string         `json:"trigger_event"`
	TriggerFilters map[string]any `json:"trigger_filters"`
	ActionModule   string         `json:"action_module" binding:"required"`
	ActionPayload  map[string]any `json:"action_payload"`
}

type SetRuleStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// CreateRule handles POST /api/automation/rules
func (h *AutomationHandler) CreateRule(c *gin.Context) {
	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	result, err := h.service.CreateRule(c.Request.Context(), appautomation.CreateRuleCommand{
		Name:           req.Name,
		Kind:           req.Kind,
		Cadence:        req.Cadence,
		CronExpression: req.CronExpression,
		ScheduledTime:  req.ScheduledTime,
		RunOnce:        req.RunOnce,
		TriggerEvent:   req.TriggerEvent,
		TriggerFilters: req.TriggerFilters,
		ActionModule:   req.ActionModule,
		ActionPayload:  req.ActionPayload,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

// GetRule handles GET /api/automation/rules/:id
func (h *AutomationHandler) GetRule(c *gin.Context) {
	ruleID, err := parseRuleID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.GetRule(c.Request.Context(), ruleID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListRules handles GET /api/automation/rules
func (h *AutomationHandler) ListRules(c *gin.Context) {
	result, err := h.service.ListRules(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// SetRuleStatus handles PATCH /api/automation/rules/:id/status
func (h *AutomationHandler) SetRuleStatus(c *gin.Context) {
	ruleID, err := parseRuleID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req SetRuleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "active flag is required")
		return
	}

	result, err := h.service.SetRuleStatus(c.Request.Context(), ruleID, *req.Active)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// DeleteRule handles DELETE /api/automation/rules/:id
func (h *AutomationHandler) DeleteRule(c *gin.Context) {
	ruleID, err := parseRuleID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.DeleteRule(c.Request.Context(), ruleID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// ListRuns handles GET /api/automation/rules/:id/runs
func (h *AutomationHandler) ListRuns(c *gin.Context) {
	ruleID, err := parseRuleID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	result, err := h.service.ListRuns(c.Request.Context(), ruleID, limit)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func parseRuleID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("invalid rule ID")
	}
	return uint(id), nil
}
