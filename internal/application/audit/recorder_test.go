package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisops/praxis/internal/domain/audit"
	"github.com/praxisops/praxis/internal/shared/logger"
)

type fakeEntryRepo struct {
	entries []*audit.Entry
	saveErr error
}

func (r *fakeEntryRepo) Save(ctx context.Context, e *audit.Entry) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	e.SetID(uint(len(r.entries) + 1))
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeEntryRepo) ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]*audit.Entry, error) {
	return r.entries, nil
}

func TestRecorder_Record(t *testing.T) {
	t.Run("writes the full entry", func(t *testing.T) {
		repo := &fakeEntryRepo{}
		recorder := NewRecorder(repo, logger.NewLogger())

		userID := uint(2)
		recorder.Record(context.Background(), Record{
			UserID:     &userID,
			Action:     "ticket.update",
			EntityType: "ticket",
			EntityID:   "42",
			Previous:   map[string]any{"status": "open"},
			New:        map[string]any{"status": "resolved"},
			Metadata:   map[string]any{"source": "api"},
			IP:         "203.0.113.9",
		})

		require.Len(t, repo.entries, 1)
		entry := repo.entries[0]
		assert.Equal(t, "ticket.update", entry.Action())
		assert.Equal(t, "ticket", entry.EntityType())
		assert.Equal(t, "42", entry.EntityID())
		assert.JSONEq(t, `{"status":"open"}`, entry.PreviousValue())
		assert.JSONEq(t, `{"status":"resolved"}`, entry.NewValue())
		assert.JSONEq(t, `{"source":"api"}`, entry.Metadata())
		assert.Equal(t, "203.0.113.9", entry.IP())
	})

	t.Run("save failure is swallowed", func(t *testing.T) {
		repo := &fakeEntryRepo{saveErr: assert.AnError}
		recorder := NewRecorder(repo, logger.NewLogger())

		assert.NotPanics(t, func() {
			recorder.Record(context.Background(), Record{Action: "ticket.update"})
		})
	})

	t.Run("empty action dropped", func(t *testing.T) {
		repo := &fakeEntryRepo{}
		recorder := NewRecorder(repo, logger.NewLogger())

		recorder.Record(context.Background(), Record{})
		assert.Empty(t, repo.entries)
	})
}
