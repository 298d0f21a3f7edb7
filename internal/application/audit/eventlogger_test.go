package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisops/praxis/internal/domain/shared/events"
	"github.com/praxisops/praxis/internal/shared/logger"
)

func TestEventLogger_Handle(t *testing.T) {
	t.Run("mirrors a ticket event into the log", func(t *testing.T) {
		repo := &fakeEntryRepo{}
		eventLogger := NewEventLogger(NewRecorder(repo, logger.NewLogger()))

		err := eventLogger.Handle(events.Event{
			EventType:  "ticket.updated",
			EntityType: "ticket",
			EntityID:   "42",
			Payload:    map[string]any{"previous_status": "open"},
			Actor:      &events.Actor{UserID: 7},
			OccurredAt: time.Now().UTC(),
		})

		require.NoError(t, err)
		require.Len(t, repo.entries, 1)
		entry := repo.entries[0]
		assert.Equal(t, "ticket.updated", entry.Action())
		assert.Equal(t, "ticket", entry.EntityType())
		assert.Equal(t, "42", entry.EntityID())
		require.NotNil(t, entry.UserID())
		assert.Equal(t, uint(7), *entry.UserID())
		assert.JSONEq(t, `{"previous_status":"open"}`, entry.NewValue())
	})

	t.Run("api key actor carries no user", func(t *testing.T) {
		repo := &fakeEntryRepo{}
		eventLogger := NewEventLogger(NewRecorder(repo, logger.NewLogger()))

		err := eventLogger.Handle(events.Event{
			EventType:  "ticket.reply_added",
			EntityType: "ticket",
			EntityID:   "42",
			Actor:      &events.Actor{APIKey: "mcp"},
		})

		require.NoError(t, err)
		require.Len(t, repo.entries, 1)
		assert.Nil(t, repo.entries[0].UserID())
		assert.Equal(t, "mcp", repo.entries[0].APIKey())
	})

	t.Run("save failure never propagates", func(t *testing.T) {
		repo := &fakeEntryRepo{saveErr: assert.AnError}
		eventLogger := NewEventLogger(NewRecorder(repo, logger.NewLogger()))

		err := eventLogger.Handle(events.Event{
			EventType:  "ticket.created",
			EntityType: "ticket",
			EntityID:   "1",
		})

		assert.NoError(t, err)
	})
}
