// Package ticket exposes the ticket store over HTTP.
package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praxisops/praxis/internal/application/ticket/usecases"
	"github.com/praxisops/praxis/internal/domain/shared/events"
	"github.com/praxisops/praxis/internal/interfaces/http/middleware"
	"github.com/praxisops/praxis/internal/shared/logger"
	"github.com/praxisops/praxis/internal/shared/utils"
)

type TicketHandler struct {
	createTicketUC  usecases.CreateTicketExecutor
	getTicketUC     usecases.GetTicketExecutor
	listTicketsUC   usecases.ListTicketsExecutor
	updateTicketUC  usecases.UpdateTicketExecutor
	addReplyUC      usecases.AddReplyExecutor
	listRepliesUC   usecases.ListRepliesExecutor
	addWatcherUC    usecases.AddWatcherExecutor
	removeWatcherUC usecases.RemoveWatcherExecutor
	listWatchersUC  usecases.ListWatchersExecutor
	logger          logger.Interface
}

func NewTicketHandler(
	createTicketUC usecases.CreateTicketExecutor,
	getTicketUC usecases.GetTicketExecutor,
	listTicketsUC usecases.ListTicketsExecutor,
	updateTicketUC usecases.UpdateTicketExecutor,
	addReplyUC usecases.AddReplyExecutor,
	listRepliesUC usecases.ListRepliesExecutor,
	addWatcherUC usecases.AddWatcherExecutor,
	removeWatcherUC usecases.RemoveWatcherExecutor,
	listWatchersUC usecases.ListWatchersExecutor,
) *TicketHandler {
	return &TicketHandler{
		createTicketUC:  createTicketUC,
		getTicketUC:     getTicketUC,
		listTicketsUC:   listTicketsUC,
		updateTicketUC:  updateTicketUC,
		addReplyUC:      addReplyUC,
		listRepliesUC:   listRepliesUC,
		addWatcherUC:    addWatcherUC,
		removeWatcherUC: removeWatcherUC,
		listWatchersUC:  listWatchersUC,
		logger:          logger.NewLogger(),
	}
}

func actorFrom(c *gin.Context) *events.Actor {
	userID := c.GetUint(middleware.ContextKeyUserID)
	if userID == 0 {
		return nil
	}
	return &events.Actor{UserID: userID}
}

// CreateTicket handles POST /api/tickets
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create ticket", "error", err)
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	callerID := c.GetUint(middleware.ContextKeyUserID)
	result, err := h.createTicketUC.Execute(c.Request.Context(), req.ToCommand(callerID, actorFrom(c)))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

// GetTicket handles GET /api/tickets/:id
func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getTicketUC.Execute(c.Request.Context(), usecases.GetTicketQuery{TicketID: ticketID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListTickets handles GET /api/tickets
func (h *TicketHandler) ListTickets(c *gin.Context) {
	result, err := h.listTicketsUC.Execute(c.Request.Context(), parseListQuery(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Items, result.Total, result.Limit, result.Offset)
}

// UpdateTicket handles PATCH /api/tickets/:id
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	result, err := h.updateTicketUC.Execute(c.Request.Context(), req.ToCommand(ticketID, actorFrom(c)))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// AddReply handles POST /api/tickets/:id/replies
func (h *TicketHandler) AddReply(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AddReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	// Only technicians may post internal notes.
	isInternal := req.IsInternal && c.GetBool(middleware.ContextKeyIsTechnician)

	callerID := c.GetUint(middleware.ContextKeyUserID)
	var authorID *uint
	if callerID != 0 {
		authorID = &callerID
	}

	result, err := h.addReplyUC.Execute(c.Request.Context(), usecases.AddReplyCommand{
		TicketID:   ticketID,
		AuthorID:   authorID,
		Body:       req.Body,
		IsInternal: isInternal,
		Actor:      actorFrom(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

// ListReplies handles GET /api/tickets/:id/replies
func (h *TicketHandler) ListReplies(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	includeInternal := c.GetBool(middleware.ContextKeyIsTechnician) || c.GetBool(middleware.ContextKeyIsSuperAdmin)

	result, err := h.listRepliesUC.Execute(c.Request.Context(), usecases.ListRepliesQuery{
		TicketID:        ticketID,
		IncludeInternal: includeInternal,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// AddWatcher handles POST /api/tickets/:id/watchers
func (h *TicketHandler) AddWatcher(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req WatcherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	cmd := usecases.WatcherCommand{TicketID: ticketID, UserID: req.UserID, Actor: actorFrom(c)}
	if err := h.addWatcherUC.Execute(c.Request.Context(), cmd); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, nil, "Watcher added")
}

// RemoveWatcher handles DELETE /api/tickets/:id/watchers/:userID
func (h *TicketHandler) RemoveWatcher(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	userID := paramUint(c, "userID")
	if userID == 0 {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "invalid user ID")
		return
	}

	cmd := usecases.WatcherCommand{TicketID: ticketID, UserID: userID, Actor: actorFrom(c)}
	if err := h.removeWatcherUC.Execute(c.Request.Context(), cmd); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// ListWatchers handles GET /api/tickets/:id/watchers
func (h *TicketHandler) ListWatchers(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listWatchersUC.Execute(c.Request.Context(), ticketID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
