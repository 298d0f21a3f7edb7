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

func TestAddReplyUseCase_Execute(t *testing.T) {
	t.Run("adds reply and bumps the parent", func(t *testing.T) {
		var touched *ticket.Ticket
		repo := &mockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
				return storedTicket(t, "open", false), nil
			},
			UpdateFunc: func(ctx context.Context, tk *ticket.Ticket) error {
				touched = tk
				return nil
			},
		}
		pub := &mockPublisher{}
		uc := NewAddReplyUseCase(repo, &mockSanitizer{}, passthroughTx{}, pub, logger.NewLogger())

		author := uint(9)
		got, err := uc.Execute(context.Background(), AddReplyCommand{
			TicketID: 42,
			AuthorID: &author,
			Body:     "Rebooted the print server.",
		})

		require.NoError(t, err)
		assert.Equal(t, uint(1), got.ID)
		assert.Equal(t, uint(42), got.TicketID)
		assert.Equal(t, "Rebooted the print server.", got.Body)
		assert.False(t, got.IsInternal)

		require.NotNil(t, touched)
		assert.WithinDuration(t, time.Now().UTC(), touched.UpdatedAt(), 5*time.Second)
		assert.False(t, touched.IsClosed(), "a reply must not reopen or close the parent")

		require.Len(t, pub.published, 1)
		assert.Equal(t, ticket.EventReplyAdded, pub.published[0].EventType)
	})

	t.Run("sanitized-empty body rejected", func(t *testing.T) {
		var added bool
		repo := &mockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
				return storedTicket(t, "open", false), nil
			},
			AddReplyFunc: func(ctx context.Context, r *ticket.Reply) error {
				added = true
				return nil
			},
		}
		sanitizer := &mockSanitizer{rejected: map[string]bool{"<script>alert(1)</script>": true}}
		uc := NewAddReplyUseCase(repo, sanitizer, passthroughTx{}, &mockPublisher{}, logger.NewLogger())

		_, err := uc.Execute(context.Background(), AddReplyCommand{
			TicketID: 42,
			Body:     "<script>alert(1)</script>",
		})

		require.Error(t, err)
		appErr := errors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
		assert.False(t, added)
	})

	t.Run("system reply has no author", func(t *testing.T) {
		repo := &mockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
				return storedTicket(t, "open", false), nil
			},
		}
		uc := NewAddReplyUseCase(repo, &mockSanitizer{}, passthroughTx{}, &mockPublisher{}, logger.NewLogger())

		got, err := uc.Execute(context.Background(), AddReplyCommand{
			TicketID:   42,
			Body:       "Automation closed a related alert.",
			IsInternal: true,
		})

		require.NoError(t, err)
		assert.Nil(t, got.AuthorID)
		assert.True(t, got.IsInternal)
	})

	t.Run("missing ticket", func(t *testing.T) {
		uc := NewAddReplyUseCase(&mockTicketRepository{}, &mockSanitizer{}, passthroughTx{}, &mockPublisher{}, logger.NewLogger())

		_, err := uc.Execute(context.Background(), AddReplyCommand{TicketID: 999, Body: "hello"})

		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestListRepliesUseCase_Execute(t *testing.T) {
	internalFilter := func(replies []*ticket.Reply, includeInternal bool) []*ticket.Reply {
		out := make([]*ticket.Reply, 0, len(replies))
		for _, r := range replies {
			if r.IsInternal() && !includeInternal {
				continue
			}
			out = append(out, r)
		}
		return out
	}

	now := time.Now().UTC()
	author := uint(9)
	public, err := ticket.ReconstructReply(1, 42, &author, "public note", false, now)
	require.NoError(t, err)
	internal, err := ticket.ReconstructReply(2, 42, &author, "internal note", true, now)
	require.NoError(t, err)

	repo := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
			return storedTicket(t, "open", false), nil
		},
		ListRepliesFunc: func(ctx context.Context, ticketID uint, includeInternal bool) ([]*ticket.Reply, error) {
			return internalFilter([]*ticket.Reply{public, internal}, includeInternal), nil
		},
	}
	uc := NewListRepliesUseCase(repo)

	visible, err := uc.Execute(context.Background(), ListRepliesQuery{TicketID: 42})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "public note", visible[0].Body)

	all, err := uc.Execute(context.Background(), ListRepliesQuery{TicketID: 42, IncludeInternal: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
