package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/praxisops/praxis/internal/domain/ticket"
	"github.com/praxisops/praxis/internal/shared/logger"
)

// StatusValidator is the slice of the status engine the bundled modules use.
type StatusValidator interface {
	ValidateStatusChoice(ctx context.Context, raw string) (*ticket.StatusDefinition, error)
	IsTerminal(slug string) bool
}

// CloseStaleTicketsModule closes tickets sitting in a given status longer
// than a configured number of days. Payload keys: status, close_status,
// older_than_days.
type CloseStaleTicketsModule struct {
	tickets  ticket.Repository
	statuses StatusValidator
	logger   logger.Interface
}

func NewCloseStaleTicketsModule(tickets ticket.Repository, statuses StatusValidator, log logger.Interface) *CloseStaleTicketsModule {
	return &CloseStaleTicketsModule{tickets: tickets, statuses: statuses, logger: log}
}

const staleScanPageSize = 200

func (m *CloseStaleTicketsModule) Execute(ctx context.Context, payload map[string]any) (map[string]any, error) {
	fromStatus, _ := payload["status"].(string)
	if fromStatus == "" {
		return nil, fmt.Errorf("payload key %q is required", "status")
	}

	closeStatus, _ := payload["close_status"].(string)
	if closeStatus == "" {
		closeStatus = "closed"
	}
	def, err := m.statuses.ValidateStatusChoice(ctx, closeStatus)
	if err != nil {
		return nil, err
	}

	days := payloadInt(payload["older_than_days"])
	if days <= 0 {
		days = 30
	}

	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -days)
	closed := 0

	for offset := 0; ; offset += staleScanPageSize {
		page, total, err := m.tickets.List(ctx, ticket.Filter{
			Status: &fromStatus,
			Limit:  staleScanPageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, err
		}

		for _, t := range page {
			if !t.UpdatedAt().Before(cutoff) || t.IsClosed() {
				continue
			}
			if err := t.ApplyStatus(def.TechStatus(), m.statuses.IsTerminal(def.TechStatus()), now); err != nil {
				m.logger.Warnw("skipping stale ticket", "ticket_id", t.ID(), "error", err)
				continue
			}
			if err := m.tickets.Update(ctx, t); err != nil {
				return nil, err
			}
			closed++
		}

		if int64(offset+len(page)) >= total || len(page) == 0 {
			break
		}
	}

	return map[string]any{"closed": closed, "cutoff": cutoff.Format(time.RFC3339)}, nil
}

func payloadInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
