package mappers

import (
	"encoding/json"
	"fmt"

	"github.com/praxisops/praxis/internal/domain/ticket"
	"github.com/praxisops/praxis/internal/infrastructure/persistence/models"
)

// TicketMapper converts between ticket domain entities and persistence models.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)

	ReplyToModel(r *ticket.Reply) *models.ReplyModel
	ReplyToDomain(model *models.ReplyModel) (*ticket.Reply, error)

	WatcherToModel(w *ticket.Watcher) *models.WatcherModel
	WatcherToDomain(model *models.WatcherModel) *ticket.Watcher

	StatusToModel(s *ticket.StatusDefinition) *models.TicketStatusModel
	StatusToDomain(model *models.TicketStatusModel) *ticket.StatusDefinition
}

type ticketMapper struct{}

func NewTicketMapper() TicketMapper {
	return &ticketMapper{}
}

func (m *ticketMapper) ToModel(t *ticket.Ticket) *models.TicketModel {
	model := &models.TicketModel{
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
		AITaggedAt:        timePtrToMillis(t.AITaggedAt()),
		CreatedAt:         timeToMillis(t.CreatedAt()),
		UpdatedAt:         timeToMillis(t.UpdatedAt()),
		ClosedAt:          timePtrToMillis(t.ClosedAt()),
	}

	if tags := t.AITags(); len(tags) > 0 {
		tagsJSON, _ := json.Marshal(tags)
		model.AITags = string(tagsJSON)
	}

	return model
}

func (m *ticketMapper) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	var aiTags []string
	if model.AITags != "" {
		if err := json.Unmarshal([]byte(model.AITags), &aiTags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ai tags (ticket=%d): %w", model.ID, err)
		}
	}

	return ticket.ReconstructTicket(
		model.ID,
		model.Subject,
		model.Description,
		model.Status,
		model.Priority,
		model.Category,
		model.ModuleSlug,
		model.ExternalProvider,
		model.ExternalReference,
		model.CompanyID,
		model.RequesterID,
		model.AssignedUserID,
		model.AISummary,
		model.AISummaryStatus,
		aiTags,
		millisPtrToTime(model.AITaggedAt),
		millisToTime(model.CreatedAt),
		millisToTime(model.UpdatedAt),
		millisPtrToTime(model.ClosedAt),
	)
}

func (m *ticketMapper) ReplyToModel(r *ticket.Reply) *models.ReplyModel {
	return &models.ReplyModel{
		ID:         r.ID(),
		TicketID:   r.TicketID(),
		AuthorID:   r.AuthorID(),
		Body:       r.Body(),
		IsInternal: r.IsInternal(),
		CreatedAt:  timeToMillis(r.CreatedAt()),
	}
}

func (m *ticketMapper) ReplyToDomain(model *models.ReplyModel) (*ticket.Reply, error) {
	return ticket.ReconstructReply(
		model.ID,
		model.TicketID,
		model.AuthorID,
		model.Body,
		model.IsInternal,
		millisToTime(model.CreatedAt),
	)
}

func (m *ticketMapper) WatcherToModel(w *ticket.Watcher) *models.WatcherModel {
	return &models.WatcherModel{
		TicketID:  w.TicketID(),
		UserID:    w.UserID(),
		CreatedAt: timeToMillis(w.CreatedAt()),
	}
}

func (m *ticketMapper) WatcherToDomain(model *models.WatcherModel) *ticket.Watcher {
	return ticket.ReconstructWatcher(model.TicketID, model.UserID, millisToTime(model.CreatedAt))
}

func (m *ticketMapper) StatusToModel(s *ticket.StatusDefinition) *models.TicketStatusModel {
	return &models.TicketStatusModel{
		ID:           s.ID(),
		TechStatus:   s.TechStatus(),
		TechLabel:    s.TechLabel(),
		PublicStatus: s.PublicStatus(),
		IsDefault:    s.IsDefault(),
	}
}

func (m *ticketMapper) StatusToDomain(model *models.TicketStatusModel) *ticket.StatusDefinition {
	return ticket.ReconstructStatusDefinition(
		model.ID,
		model.TechStatus,
		model.TechLabel,
		model.PublicStatus,
		model.IsDefault,
	)
}
