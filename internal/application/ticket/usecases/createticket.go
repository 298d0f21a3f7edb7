package usecases

import (
	"context"
	"time"

	"github.com/praxisops/praxis/internal/application/ticket/dto"
	"github.com/praxisops/praxis/internal/domain/shared/events"
	"github.com/praxisops/praxis/internal/domain/ticket"
	"github.com/praxisops/praxis/internal/shared/db"
	"github.com/praxisops/praxis/internal/shared/errors"
	"github.com/praxisops/praxis/internal/shared/logger"
)

type CreateTicketCommand struct {
	Subject           string
	Description       string
	Status            string
	Priority          string
	Category          string
	ModuleSlug        string
	ExternalProvider  string
	ExternalReference string
	CompanyID         *uint
	RequesterID       uint
	AssignedUserID    *uint
	Actor             *events.Actor
}

type CreateTicketUseCase struct {
	tickets   ticket.Repository
	statuses  StatusResolver
	txManager db.TxRunner
	publisher events.Publisher
	logger    logger.Interface
}

func NewCreateTicketUseCase(
	tickets ticket.Repository,
	statuses StatusResolver,
	txManager db.TxRunner,
	publisher events.Publisher,
	log logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		tickets:   tickets,
		statuses:  statuses,
		txManager: txManager,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketDTO, error) {
	if cmd.RequesterID == 0 {
		return nil, errors.NewValidationError("requester ID is required")
	}

	// Status defaulting and validation go through the engine; a missing
	// status means the catalog default.
	statusDef, err := uc.statuses.ResolveStatusOrDefault(ctx, cmd.Status)
	if err != nil {
		return nil, err
	}
	slug := statusDef.TechStatus()

	now := time.Now().UTC()
	newTicket, err := ticket.NewTicket(cmd.Subject, cmd.Description, slug, cmd.Priority, cmd.RequesterID, uc.statuses.IsTerminal(slug), now)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if cmd.Category != "" {
		newTicket.UpdateCategory(cmd.Category, now)
	}
	if cmd.ModuleSlug != "" {
		newTicket.SetModuleSlug(cmd.ModuleSlug, now)
	}
	if cmd.ExternalProvider != "" || cmd.ExternalReference != "" {
		if err := newTicket.SetExternalReference(cmd.ExternalProvider, cmd.ExternalReference, now); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	if cmd.CompanyID != nil {
		newTicket.SetCompany(cmd.CompanyID, now)
	}
	if cmd.AssignedUserID != nil {
		newTicket.Assign(cmd.AssignedUserID, now)
	}

	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return uc.tickets.Save(ctx, newTicket)
	})
	if err != nil {
		uc.logger.Errorw("failed to create ticket", "error", err, "requester_id", cmd.RequesterID)
		return nil, err
	}

	if err := uc.publisher.Publish(ticket.NewTicketCreatedEvent(newTicket, cmd.Actor)); err != nil {
		uc.logger.Warnw("failed to publish ticket.created", "ticket_id", newTicket.ID(), "error", err)
	}

	uc.logger.Infow("ticket created", "ticket_id", newTicket.ID(), "status", slug)
	return dto.FromTicket(newTicket), nil
}
