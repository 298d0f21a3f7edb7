package ticket

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/praxisops/praxis/internal/application/ticket/usecases"
	"github.com/praxisops/praxis/internal/domain/shared/events"
	"github.com/praxisops/praxis/internal/shared/errors"
	"github.com/praxisops/praxis/internal/shared/utils"
)

type CreateTicketRequest struct {
	Subject           string `json:"subject" binding:"required"`
	Description       string `json:"description"`
	Status            string `json:"status"`
	Priority          string `json:"priority"`
	Category          string `json:"category"`
	ModuleSlug        string `json:"module_slug"`
	ExternalProvider  string `json:"external_provider"`
	ExternalReference string `json:"external_reference"`
	CompanyID         *uint  `json:"company_id"`
	RequesterID       *uint  `json:"requester_id"`
	AssignedUserID    *uint  `json:"assigned_user_id"`
}

// ToCommand builds the create command. The requester defaults to the caller
// unless a technician files on someone's behalf.
func (r *CreateTicketRequest) ToCommand(callerID uint, actor *events.Actor) usecases.CreateTicketCommand {
	requesterID := callerID
	if r.RequesterID != nil {
		requesterID = *r.RequesterID
	}

	return usecases.CreateTicketCommand{
		Subject:           r.Subject,
		Description:       r.Description,
		Status:            r.Status,
		Priority:          r.Priority,
		Category:          r.Category,
		ModuleSlug:        r.ModuleSlug,
		ExternalProvider:  r.ExternalProvider,
		ExternalReference: r.ExternalReference,
		CompanyID:         r.CompanyID,
		RequesterID:       requesterID,
		AssignedUserID:    r.AssignedUserID,
		Actor:             actor,
	}
}

type UpdateTicketRequest struct {
	Subject        *string `json:"subject"`
	Description    *string `json:"description"`
	Priority       *string `json:"priority"`
	Category       *string `json:"category"`
	Status         *string `json:"status"`
	AssignedUserID *uint   `json:"assigned_user_id"`
	Unassign       bool    `json:"unassign"`
}

func (r *UpdateTicketRequest) ToCommand(ticketID uint, actor *events.Actor) usecases.UpdateTicketCommand {
	return usecases.UpdateTicketCommand{
		TicketID:       ticketID,
		Subject:        r.Subject,
		Description:    r.Description,
		Priority:       r.Priority,
		Category:       r.Category,
		Status:         r.Status,
		AssignedUserID: r.AssignedUserID,
		Unassign:       r.Unassign,
		Actor:          actor,
	}
}

type AddReplyRequest struct {
	Body       string `json:"body" binding:"required"`
	IsInternal bool   `json:"is_internal"`
}

type WatcherRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

func parseTicketID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("invalid ticket ID")
	}
	return uint(id), nil
}

func parseListQuery(c *gin.Context) usecases.ListTicketsQuery {
	page := utils.ParsePagination(c)
	query := usecases.ListTicketsQuery{
		Search:    c.Query("search"),
		Limit:     page.Limit,
		Offset:    page.Offset,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if v := c.Query("status"); v != "" {
		query.Status = &v
	}
	if v := c.Query("priority"); v != "" {
		query.Priority = &v
	}
	if v := c.Query("module_slug"); v != "" {
		query.ModuleSlug = &v
	}
	if id := queryUint(c, "company_id"); id != 0 {
		query.CompanyID = &id
	}
	if id := queryUint(c, "assigned_user_id"); id != 0 {
		query.AssignedUserID = &id
	}
	if id := queryUint(c, "requester_id"); id != 0 {
		query.RequesterID = &id
	}

	return query
}

func paramUint(c *gin.Context, key string) uint {
	id, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

func queryUint(c *gin.Context, key string) uint {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
