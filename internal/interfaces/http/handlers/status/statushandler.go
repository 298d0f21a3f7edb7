// Package status exposes the ticket status catalog over HTTP.
package status

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appstatus "github.com/praxisops/praxis/internal/application/status"
	"github.com/praxisops/praxis/internal/application/ticket/dto"
	"github.com/praxisops/praxis/internal/shared/logger"
	"github.com/praxisops/praxis/internal/shared/utils"
)

type StatusHandler struct {
	engine *appstatus.Engine
	logger logger.Interface
}

func NewStatusHandler(engine *appstatus.Engine) *StatusHandler {
	return &StatusHandler{
		engine: engine,
		logger: logger.NewLogger(),
	}
}

// StatusInputRequest is one catalog entry in a replacement request.
type StatusInputRequest struct {
	TechStatus   string `json:"tech_status" binding:"required"`
	TechLabel    string `json:"tech_label"`
	PublicStatus string `json:"public_status" binding:"required"`
	IsDefault    bool   `json:"is_default"`
	OriginalSlug string `json:"original_slug"`
}

// ReplaceStatusesRequest replaces the whole catalog in one call.
type ReplaceStatusesRequest struct {
	Statuses []StatusInputRequest `json:"statuses" binding:"required"`
}

// ListStatuses handles GET /api/ticket-statuses
func (h *StatusHandler) ListStatuses(c *gin.Context) {
	defs, err := h.engine.ListStatuses(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]*dto.StatusDTO, 0, len(defs))
	for _, def := range defs {
		items = append(items, dto.FromStatus(def))
	}

	utils.SuccessResponse(c, http.StatusOK, "", items)
}

// ReplaceStatuses handles PUT /api/ticket-statuses
func (h *StatusHandler) ReplaceStatuses(c *gin.Context) {
	var req ReplaceStatusesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	incoming := make([]appstatus.StatusInput, 0, len(req.Statuses))
	for _, s := range req.Statuses {
		incoming = append(incoming, appstatus.StatusInput{
			TechStatus:   s.TechStatus,
			TechLabel:    s.TechLabel,
			PublicStatus: s.PublicStatus,
			IsDefault:    s.IsDefault,
			OriginalSlug: s.OriginalSlug,
		})
	}

	defs, err := h.engine.ReplaceStatuses(c.Request.Context(), incoming)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]*dto.StatusDTO, 0, len(defs))
	for _, def := range defs {
		items = append(items, dto.FromStatus(def))
	}

	h.logger.Infow("ticket status catalog replaced", "count", len(items))
	utils.SuccessResponse(c, http.StatusOK, "Status catalog replaced", items)
}
