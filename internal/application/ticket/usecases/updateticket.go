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

// UpdateTicketCommand is a sparse patch: nil pointers leave the field alone.
type UpdateTicketCommand struct {
	TicketID       uint
	Subject        *string
	Description    *string
	Priority       *string
	Category       *string
	Status         *string
	AssignedUserID *uint
	Unassign       bool
	Actor          *events.Actor
}

type UpdateTicketUseCase struct {
	tickets   ticket.Repository
	statuses  StatusResolver
	txManager db.TxRunner
	publisher events.Publisher
	logger    logger.Interface
}

func NewUpdateTicketUseCase(
	tickets ticket.Repository,
	statuses StatusResolver,
	txManager db.TxRunner,
	publisher events.Publisher,
	log logger.Interface,
) *UpdateTicketUseCase {
	return &UpdateTicketUseCase{
		tickets:   tickets,
		statuses:  statuses,
		txManager: txManager,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *UpdateTicketUseCase) Execute(ctx context.Context, cmd UpdateTicketCommand) (*dto.TicketDTO, error) {
	t, err := uc.tickets.GetByID(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	previousStatus := t.Status()
	var changed []string

	if cmd.Subject != nil {
		if err := t.UpdateSubject(*cmd.Subject, now); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		changed = append(changed, "subject")
	}
	if cmd.Description != nil {
		if err := t.UpdateDescription(*cmd.Description, now); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		changed = append(changed, "description")
	}
	if cmd.Priority != nil {
		t.UpdatePriority(*cmd.Priority, now)
		changed = append(changed, "priority")
	}
	if cmd.Category != nil {
		t.UpdateCategory(*cmd.Category, now)
		changed = append(changed, "category")
	}
	if cmd.Status != nil {
		statusDef, err := uc.statuses.ValidateStatusChoice(ctx, *cmd.Status)
		if err != nil {
			return nil, err
		}
		slug := statusDef.TechStatus()
		if slug != previousStatus {
			if err := t.ApplyStatus(slug, uc.statuses.IsTerminal(slug), now); err != nil {
				return nil, errors.NewValidationError(err.Error())
			}
			changed = append(changed, "status")
		}
	}
	if cmd.Unassign {
		t.Assign(nil, now)
		changed = append(changed, "assigned_user_id")
	} else if cmd.AssignedUserID != nil {
		t.Assign(cmd.AssignedUserID, now)
		changed = append(changed, "assigned_user_id")
	}

	if len(changed) == 0 {
		return dto.FromTicket(t), nil
	}

	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return uc.tickets.Update(ctx, t)
	})
	if err != nil {
		uc.logger.Errorw("failed to update ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	if err := uc.publisher.Publish(ticket.NewTicketUpdatedEvent(t, changed, previousStatus, cmd.Actor)); err != nil {
		uc.logger.Warnw("failed to publish ticket.updated", "ticket_id", t.ID(), "error", err)
	}

	uc.logger.Infow("ticket updated", "ticket_id", t.ID(), "changed_fields", changed)
	return dto.FromTicket(t), nil
}
