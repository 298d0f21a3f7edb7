package usecases

import (
	"context"

	"github.com/praxisops/praxis/internal/domain/shared/events"
	"github.com/praxisops/praxis/internal/domain/ticket"
	"github.com/praxisops/praxis/internal/shared/errors"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockTicketRepository struct {
	SaveFunc          func(ctx context.Context, t *ticket.Ticket) error
	UpdateFunc        func(ctx context.Context, t *ticket.Ticket) error
	GetByIDFunc       func(ctx context.Context, id uint) (*ticket.Ticket, error)
	ListFunc          func(ctx context.Context, filter ticket.Filter) ([]*ticket.Ticket, int64, error)
	AddReplyFunc      func(ctx context.Context, r *ticket.Reply) error
	ListRepliesFunc   func(ctx context.Context, ticketID uint, includeInternal bool) ([]*ticket.Reply, error)
	AddWatcherFunc    func(ctx context.Context, w *ticket.Watcher) (bool, error)
	RemoveWatcherFunc func(ctx context.Context, ticketID, userID uint) (bool, error)
	ListWatchersFunc  func(ctx context.Context, ticketID uint) ([]*ticket.Watcher, error)
	CountByStatusFunc func(ctx context.Context, slugs []string) (map[string]int64, error)
	RewriteStatusFunc func(ctx context.Context, oldSlug, newSlug string) (int64, error)
}

func (m *mockTicketRepository) Save(ctx context.Context, t *ticket.Ticket) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, t)
	}
	return t.SetID(1)
}

func (m *mockTicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	return nil
}

func (m *mockTicketRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errors.NewNotFoundError("ticket not found")
}

func (m *mockTicketRepository) List(ctx context.Context, filter ticket.Filter) ([]*ticket.Ticket, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockTicketRepository) AddReply(ctx context.Context, r *ticket.Reply) error {
	if m.AddReplyFunc != nil {
		return m.AddReplyFunc(ctx, r)
	}
	return r.SetID(1)
}

func (m *mockTicketRepository) ListReplies(ctx context.Context, ticketID uint, includeInternal bool) ([]*ticket.Reply, error) {
	if m.ListRepliesFunc != nil {
		return m.ListRepliesFunc(ctx, ticketID, includeInternal)
	}
	return nil, nil
}

func (m *mockTicketRepository) AddWatcher(ctx context.Context, w *ticket.Watcher) (bool, error) {
	if m.AddWatcherFunc != nil {
		return m.AddWatcherFunc(ctx, w)
	}
	return true, nil
}

func (m *mockTicketRepository) RemoveWatcher(ctx context.Context, ticketID, userID uint) (bool, error) {
	if m.RemoveWatcherFunc != nil {
		return m.RemoveWatcherFunc(ctx, ticketID, userID)
	}
	return false, nil
}

func (m *mockTicketRepository) ListWatchers(ctx context.Context, ticketID uint) ([]*ticket.Watcher, error) {
	if m.ListWatchersFunc != nil {
		return m.ListWatchersFunc(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockTicketRepository) CountByStatus(ctx context.Context, slugs []string) (map[string]int64, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, slugs)
	}
	return map[string]int64{}, nil
}

func (m *mockTicketRepository) RewriteStatus(ctx context.Context, oldSlug, newSlug string) (int64, error) {
	if m.RewriteStatusFunc != nil {
		return m.RewriteStatusFunc(ctx, oldSlug, newSlug)
	}
	return 0, nil
}

// mockStatusResolver answers from a fixed catalog keyed by slug.
type mockStatusResolver struct {
	defaultSlug string
	known       map[string]*ticket.StatusDefinition
	terminal    map[string]bool
}

func newMockStatusResolver() *mockStatusResolver {
	known := map[string]*ticket.StatusDefinition{
		"open":        ticket.ReconstructStatusDefinition(1, "open", "Open", "Open", true),
		"in_progress": ticket.ReconstructStatusDefinition(2, "in_progress", "In Progress", "In Progress", false),
		"resolved":    ticket.ReconstructStatusDefinition(3, "resolved", "Resolved", "Resolved", false),
	}
	return &mockStatusResolver{
		defaultSlug: "open",
		known:       known,
		terminal:    map[string]bool{"resolved": true},
	}
}

func (m *mockStatusResolver) ResolveStatusOrDefault(ctx context.Context, raw string) (*ticket.StatusDefinition, error) {
	if raw == "" {
		return m.known[m.defaultSlug], nil
	}
	return m.ValidateStatusChoice(ctx, raw)
}

func (m *mockStatusResolver) ValidateStatusChoice(ctx context.Context, raw string) (*ticket.StatusDefinition, error) {
	if def, ok := m.known[raw]; ok {
		return def, nil
	}
	return nil, errors.NewInvalidStatusError(raw)
}

func (m *mockStatusResolver) IsTerminal(slug string) bool {
	return m.terminal[slug]
}

// mockPublisher records published events.
type mockPublisher struct {
	published []events.Event
	err       error
}

func (m *mockPublisher) Publish(event events.Event) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, event)
	return nil
}

func (m *mockPublisher) PublishAll(evts []events.Event) error {
	for _, e := range evts {
		if err := m.Publish(e); err != nil {
			return err
		}
	}
	return nil
}

// mockSanitizer passes bodies through; bodies in rejected are reported empty.
type mockSanitizer struct {
	rejected map[string]bool
}

func (m *mockSanitizer) SanitizeBody(body string) (string, bool) {
	if m.rejected[body] {
		return "", false
	}
	return body, true
}
