package usecases

import (
	"context"
	"time"

	"github.com/praxisops/praxis/internal/application/ticket/dto"
	"github.com/praxisops/praxis/internal/domain/shared/events"
	"github.com/praxisops/praxis/internal/domain/ticket"
	"github.com/praxisops/praxis/internal/shared/errors"
	"github.com/praxisops/praxis/internal/shared/logger"
)

type WatcherCommand struct {
	TicketID uint
	UserID   uint
	Actor    *events.Actor
}

type AddWatcherUseCase struct {
	tickets   ticket.Repository
	publisher events.Publisher
	logger    logger.Interface
}

func NewAddWatcherUseCase(tickets ticket.Repository, publisher events.Publisher, log logger.Interface) *AddWatcherUseCase {
	return &AddWatcherUseCase{tickets: tickets, publisher: publisher, logger: log}
}

func (uc *AddWatcherUseCase) Execute(ctx context.Context, cmd WatcherCommand) error {
	t, err := uc.tickets.GetByID(ctx, cmd.TicketID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	w, err := ticket.NewWatcher(cmd.TicketID, cmd.UserID, now)
	if err != nil {
		return errors.NewValidationError(err.Error())
	}

	// The repository swallows the duplicate, so re-adding is a no-op
	// success. No event fires unless a row was inserted.
	added, err := uc.tickets.AddWatcher(ctx, w)
	if err != nil {
		uc.logger.Errorw("failed to add watcher", "ticket_id", cmd.TicketID, "user_id", cmd.UserID, "error", err)
		return err
	}
	if !added {
		return nil
	}

	if err := uc.publisher.Publish(ticket.NewWatcherEvent(ticket.EventWatcherAdded, t, cmd.UserID, cmd.Actor, now)); err != nil {
		uc.logger.Warnw("failed to publish ticket.watcher_added", "ticket_id", cmd.TicketID, "error", err)
	}
	return nil
}

type RemoveWatcherUseCase struct {
	tickets   ticket.Repository
	publisher events.Publisher
	logger    logger.Interface
}

func NewRemoveWatcherUseCase(tickets ticket.Repository, publisher events.Publisher, log logger.Interface) *RemoveWatcherUseCase {
	return &RemoveWatcherUseCase{tickets: tickets, publisher: publisher, logger: log}
}

func (uc *RemoveWatcherUseCase) Execute(ctx context.Context, cmd WatcherCommand) error {
	t, err := uc.tickets.GetByID(ctx, cmd.TicketID)
	if err != nil {
		return err
	}

	removed, err := uc.tickets.RemoveWatcher(ctx, cmd.TicketID, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to remove watcher", "ticket_id", cmd.TicketID, "user_id", cmd.UserID, "error", err)
		return err
	}
	if !removed {
		return nil
	}

	now := time.Now().UTC()
	if err := uc.publisher.Publish(ticket.NewWatcherEvent(ticket.EventWatcherRemoved, t, cmd.UserID, cmd.Actor, now)); err != nil {
		uc.logger.Warnw("failed to publish ticket.watcher_removed", "ticket_id", cmd.TicketID, "error", err)
	}
	return nil
}

type ListWatchersUseCase struct {
	tickets ticket.Repository
}

func NewListWatchersUseCase(tickets ticket.Repository) *ListWatchersUseCase {
	return &ListWatchersUseCase{tickets: tickets}
}

func (uc *ListWatchersUseCase) Execute(ctx context.Context, ticketID uint) ([]*dto.WatcherDTO, error) {
	if _, err := uc.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, err
	}

	watchers, err := uc.tickets.ListWatchers(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.WatcherDTO, 0, len(watchers))
	for _, w := range watchers {
		items = append(items, dto.FromWatcher(w))
	}
	return items, nil
}
