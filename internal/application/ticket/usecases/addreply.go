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

type AddReplyCommand struct {
	TicketID   uint
	AuthorID   *uint
	Body       string
	IsInternal bool
	Actor      *events.Actor
}

type AddReplyUseCase struct {
	tickets   ticket.Repository
	sanitizer BodySanitizer
	txManager db.TxRunner
	publisher events.Publisher
	logger    logger.Interface
}

func NewAddReplyUseCase(
	tickets ticket.Repository,
	sanitizer BodySanitizer,
	txManager db.TxRunner,
	publisher events.Publisher,
	log logger.Interface,
) *AddReplyUseCase {
	return &AddReplyUseCase{
		tickets:   tickets,
		sanitizer: sanitizer,
		txManager: txManager,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *AddReplyUseCase) Execute(ctx context.Context, cmd AddReplyCommand) (*dto.ReplyDTO, error) {
	t, err := uc.tickets.GetByID(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	clean, ok := uc.sanitizer.SanitizeBody(cmd.Body)
	if !ok {
		return nil, errors.NewValidationError("reply body is empty after sanitization")
	}

	now := time.Now().UTC()
	reply, err := ticket.NewReply(t.ID(), cmd.AuthorID, clean, cmd.IsInternal, now)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	// A reply bumps the parent's updatedAt without touching its status or
	// closed state.
	t.Touch(now)

	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uc.tickets.AddReply(ctx, reply); err != nil {
			return err
		}
		return uc.tickets.Update(ctx, t)
	})
	if err != nil {
		uc.logger.Errorw("failed to add reply", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	if err := uc.publisher.Publish(ticket.NewReplyAddedEvent(t, reply, cmd.Actor)); err != nil {
		uc.logger.Warnw("failed to publish ticket.reply_added", "ticket_id", t.ID(), "reply_id", reply.ID(), "error", err)
	}

	uc.logger.Infow("reply added", "ticket_id", t.ID(), "reply_id", reply.ID(), "is_internal", reply.IsInternal())
	return dto.FromReply(reply), nil
}
