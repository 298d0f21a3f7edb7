package automation

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

type fakeTicketStore struct {
	ticket.Repository
	tickets []*ticket.Ticket
	updated []uint
}

func (f *fakeTicketStore) List(_ context.Context, filter ticket.Filter) ([]*ticket.Ticket, int64, error) {
	var matched []*ticket.Ticket
	for _, t := range f.tickets {
		if filter.Status != nil && t.Status() != *filter.Status {
			continue
		}
		matched = append(matched, t)
	}

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[filter.Offset:end], total, nil
}

func (f *fakeTicketStore) Update(_ context.Context, t *ticket.Ticket) error {
	f.updated = append(f.updated, t.ID())
	return nil
}

type staticStatusValidator struct {
	known    map[string]bool
	terminal map[string]bool
}

func (s *staticStatusValidator) ValidateStatusChoice(_ context.Context, raw string) (*ticket.StatusDefinition, error) {
	if !s.known[raw] {
		return nil, errors.NewInvalidStatusError("unknown status", raw)
	}
	return ticket.ReconstructStatusDefinition(1, raw, raw, "done", false), nil
}

func (s *staticStatusValidator) IsTerminal(slug string) bool { return s.terminal[slug] }

func agedTicket(t *testing.T, id uint, status string, updatedAt time.Time) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.ReconstructTicket(
		id, "Subject", "", status, "normal", "", "", "", "",
		nil, 7, nil, "", "", nil, nil,
		updatedAt, updatedAt, nil,
	)
	require.NoError(t, err)
	return tk
}

func TestCloseStaleTicketsModule_Execute(t *testing.T) {
	validator := &staticStatusValidator{
		known:    map[string]bool{"closed": true},
		terminal: map[string]bool{"closed": true},
	}

	t.Run("closes tickets idle past the cutoff", func(t *testing.T) {
		now := time.Now().UTC()
		store := &fakeTicketStore{tickets: []*ticket.Ticket{
			agedTicket(t, 1, "waiting_on_customer", now.AddDate(0, 0, -40)),
			agedTicket(t, 2, "waiting_on_customer", now.AddDate(0, 0, -5)),
			agedTicket(t, 3, "open", now.AddDate(0, 0, -40)),
		}}
		module := NewCloseStaleTicketsModule(store, validator, logger.NewLogger())

		result, err := module.Execute(context.Background(), map[string]any{
			"status":         "waiting_on_customer",
			"older_than_days": 30,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result["closed"])
		require.Len(t, store.updated, 1)
		assert.Equal(t, uint(1), store.updated[0])
		assert.Equal(t, "closed", store.tickets[0].Status())
		assert.NotNil(t, store.tickets[0].ClosedAt())
	})

	t.Run("missing status payload rejected", func(t *testing.T) {
		store := &fakeTicketStore{}
		module := NewCloseStaleTicketsModule(store, validator, logger.NewLogger())

		_, err := module.Execute(context.Background(), map[string]any{"older_than_days": 30})

		require.Error(t, err)
	})

	t.Run("unknown close status rejected", func(t *testing.T) {
		store := &fakeTicketStore{}
		module := NewCloseStaleTicketsModule(store, validator, logger.NewLogger())

		_, err := module.Execute(context.Background(), map[string]any{
			"status":       "open",
			"close_status": "vanished",
		})

		require.Error(t, err)
	})

	t.Run("float payloads from JSON decode correctly", func(t *testing.T) {
		now := time.Now().UTC()
		store := &fakeTicketStore{tickets: []*ticket.Ticket{
			agedTicket(t, 9, "waiting_on_customer", now.AddDate(0, 0, -90)),
		}}
		module := NewCloseStaleTicketsModule(store, validator, logger.NewLogger())

		result, err := module.Execute(context.Background(), map[string]any{
			"status":         "waiting_on_customer",
			"older_than_days": float64(60),
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result["closed"])
	})
}
