package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisops/praxis/internal/domain/ticket"
	"github.com/praxisops/praxis/internal/shared/errors"
	"github.com/praxisops/praxis/internal/shared/logger"
)

func TestAddWatcherUseCase_Execute(t *testing.T) {
	t.Run("adds and publishes", func(t *testing.T) {
		var saved *ticket.Watcher
		repo := &mockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
				return storedTicket(t, "open", false), nil
			},
			AddWatcherFunc: func(ctx context.Context, w *ticket.Watcher) (bool, error) {
				saved = w
				return true, nil
			},
		}
		pub := &mockPublisher{}
		uc := NewAddWatcherUseCase(repo, pub, logger.NewLogger())

		err := uc.Execute(context.Background(), WatcherCommand{TicketID: 42, UserID: 9})

		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, uint(9), saved.UserID())

		require.Len(t, pub.published, 1)
		assert.Equal(t, ticket.EventWatcherAdded, pub.published[0].EventType)
		assert.Equal(t, uint(9), pub.published[0].Payload["watcher_user_id"])
	})

	t.Run("duplicate add is a no-op success and publishes once", func(t *testing.T) {
		seen := map[uint]bool{}
		repo := &mockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
				return storedTicket(t, "open", false), nil
			},
			AddWatcherFunc: func(ctx context.Context, w *ticket.Watcher) (bool, error) {
				if seen[w.UserID()] {
					return false, nil
				}
				seen[w.UserID()] = true
				return true, nil
			},
		}
		pub := &mockPublisher{}
		uc := NewAddWatcherUseCase(repo, pub, logger.NewLogger())

		require.NoError(t, uc.Execute(context.Background(), WatcherCommand{TicketID: 42, UserID: 9}))
		require.NoError(t, uc.Execute(context.Background(), WatcherCommand{TicketID: 42, UserID: 9}))
		assert.Len(t, seen, 1)
		assert.Len(t, pub.published, 1, "no event for the duplicate add")
	})

	t.Run("zero user rejected", func(t *testing.T) {
		repo := &mockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
				return storedTicket(t, "open", false), nil
			},
		}
		uc := NewAddWatcherUseCase(repo, &mockPublisher{}, logger.NewLogger())

		err := uc.Execute(context.Background(), WatcherCommand{TicketID: 42})

		require.Error(t, err)
		appErr := errors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	})

	t.Run("missing ticket", func(t *testing.T) {
		uc := NewAddWatcherUseCase(&mockTicketRepository{}, &mockPublisher{}, logger.NewLogger())

		err := uc.Execute(context.Background(), WatcherCommand{TicketID: 999, UserID: 9})
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestRemoveWatcherUseCase_Execute(t *testing.T) {
	t.Run("removes and publishes", func(t *testing.T) {
		var removedUser uint
		repo := &mockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
				return storedTicket(t, "open", false), nil
			},
			RemoveWatcherFunc: func(ctx context.Context, ticketID, userID uint) (bool, error) {
				removedUser = userID
				return true, nil
			},
		}
		pub := &mockPublisher{}
		uc := NewRemoveWatcherUseCase(repo, pub, logger.NewLogger())

		err := uc.Execute(context.Background(), WatcherCommand{TicketID: 42, UserID: 9})

		require.NoError(t, err)
		assert.Equal(t, uint(9), removedUser)
		require.Len(t, pub.published, 1)
		assert.Equal(t, ticket.EventWatcherRemoved, pub.published[0].EventType)
	})

	t.Run("absent pair succeeds silently without an event", func(t *testing.T) {
		repo := &mockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
				return storedTicket(t, "open", false), nil
			},
			RemoveWatcherFunc: func(ctx context.Context, ticketID, userID uint) (bool, error) {
				return false, nil
			},
		}
		pub := &mockPublisher{}
		uc := NewRemoveWatcherUseCase(repo, pub, logger.NewLogger())

		assert.NoError(t, uc.Execute(context.Background(), WatcherCommand{TicketID: 42, UserID: 1234}))
		assert.Empty(t, pub.published)
	})
}

func TestListWatchersUseCase_Execute(t *testing.T) {
	now := time.Now().UTC()
	repo := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
			return storedTicket(t, "open", false), nil
		},
		ListWatchersFunc: func(ctx context.Context, ticketID uint) ([]*ticket.Watcher, error) {
			return []*ticket.Watcher{
				ticket.ReconstructWatcher(42, 7, now.Add(-time.Minute)),
				ticket.ReconstructWatcher(42, 9, now),
			}, nil
		},
	}
	uc := NewListWatchersUseCase(repo)

	got, err := uc.Execute(context.Background(), 42)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint(7), got[0].UserID)
	assert.Equal(t, uint(9), got[1].UserID)
}

func TestListTicketsUseCase_Execute(t *testing.T) {
	t.Run("maps filters and normalizes pagination", func(t *testing.T) {
		var gotFilter ticket.Filter
		repo := &mockTicketRepository{
			ListFunc: func(ctx context.Context, filter ticket.Filter) ([]*ticket.Ticket, int64, error) {
				gotFilter = filter
				return []*ticket.Ticket{storedTicket(t, "open", false)}, 1, nil
			},
		}
		uc := NewListTicketsUseCase(repo)

		status := "open"
		result, err := uc.Execute(context.Background(), ListTicketsQuery{
			Status: &status,
			Limit:  -5,
			Offset: -1,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
		require.Len(t, result.Items, 1)

		require.NotNil(t, gotFilter.Status)
		assert.Equal(t, "open", *gotFilter.Status)
		assert.Equal(t, 50, gotFilter.Limit)
		assert.Equal(t, 0, gotFilter.Offset)
	})

	t.Run("empty page keeps items non-nil", func(t *testing.T) {
		uc := NewListTicketsUseCase(&mockTicketRepository{
			ListFunc: func(ctx context.Context, filter ticket.Filter) ([]*ticket.Ticket, int64, error) {
				return nil, 0, nil
			},
		})

		result, err := uc.Execute(context.Background(), ListTicketsQuery{})

		require.NoError(t, err)
		assert.NotNil(t, result.Items)
		assert.Empty(t, result.Items)
	})
}
