// Package dto carries the transport shapes of the ticket store. Timestamps
// are RFC3339 UTC strings.
package dto

import (
	"time"

	"github.com/praxisops/praxis/internal/domain/ticket"
)

type TicketDTO struct {
	ID                uint     `json:"id"`
	Subject           string   `json:"subject"`
	Description       string   `json:"description,omitempty"`
	Status            string   `json:"status"`
	Priority          string   `json:"priority"`
	Category          string   `json:"category,omitempty"`
	ModuleSlug        string   `json:"module_slug,omitempty"`
	ExternalProvider  string   `json:"external_provider,omitempty"`
	ExternalReference string   `json:"external_reference,omitempty"`
	CompanyID         *uint    `json:"company_id,omitempty"`
	RequesterID       uint     `json:"requester_id"`
	AssignedUserID    *uint    `json:"assigned_user_id,omitempty"`
	AISummary         string   `json:"ai_summary,omitempty"`
	AISummaryStatus   string   `json:"ai_summary_status,omitempty"`
	AITags            []string `json:"ai_tags"`
	AITaggedAt        *string  `json:"ai_tagged_at,omitempty"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
	ClosedAt          *string  `json:"closed_at,omitempty"`
}

type ReplyDTO struct {
	ID         uint   `json:"id"`
	TicketID   uint   `json:"ticket_id"`
	AuthorID   *uint  `json:"author_id,omitempty"`
	Body       string `json:"body"`
	IsInternal bool   `json:"is_internal"`
	CreatedAt  string `json:"created_at"`
}

type WatcherDTO struct {
	TicketID  uint   `json:"ticket_id"`
	UserID    uint   `json:"user_id"`
	CreatedAt string `json:"created_at"`
}

type StatusDTO struct {
	ID           uint   `json:"id"`
	TechStatus   string `json:"tech_status"`
	TechLabel    string `json:"tech_label"`
	PublicStatus string `json:"public_status"`
	IsDefault    bool   `json:"is_default"`
}

func FromTicket(t *ticket.Ticket) *TicketDTO {
	return &TicketDTO{
		ID:                t.ID(),
		Subject:           t.Subject(),
		Description:       t.Description(),
		Status:            t.Status(),
		Priority:          t.Priority(),
		Category:          t.Category(),
		ModuleSlug:        t.ModuleSlug(),
		ExternalProvider:  t.ExternalProvider(),
		ExternalReference: t.ExternalReference(),
		CompanyID:         t.CompanyID(),
		RequesterID:       t.RequesterID(),
		AssignedUserID:    t.AssignedUserID(),
		AISummary:         t.AISummary(),
		AISummaryStatus:   t.AISummaryStatus(),
		AITags:            t.AITags(),
		AITaggedAt:        formatTimePtr(t.AITaggedAt()),
		CreatedAt:         formatTime(t.CreatedAt()),
		UpdatedAt:         formatTime(t.UpdatedAt()),
		ClosedAt:          formatTimePtr(t.ClosedAt()),
	}
}

func FromReply(r *ticket.Reply) *ReplyDTO {
	return &ReplyDTO{
		ID:         r.ID(),
		TicketID:   r.TicketID(),
		AuthorID:   r.AuthorID(),
		Body:       r.Body(),
		IsInternal: r.IsInternal(),
		CreatedAt:  formatTime(r.CreatedAt()),
	}
}

func FromWatcher(w *ticket.Watcher) *WatcherDTO {
	return &WatcherDTO{
		TicketID:  w.TicketID(),
		UserID:    w.UserID(),
		CreatedAt: formatTime(w.CreatedAt()),
	}
}

func FromStatus(s *ticket.StatusDefinition) *StatusDTO {
	return &StatusDTO{
		ID:           s.ID(),
		TechStatus:   s.TechStatus(),
		TechLabel:    s.TechLabel(),
		PublicStatus: s.PublicStatus(),
		IsDefault:    s.IsDefault(),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
