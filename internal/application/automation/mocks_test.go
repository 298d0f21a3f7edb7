package automation

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/praxisops/praxis/internal/domain/automation"
	"github.com/praxisops/praxis/internal/domain/shared/events"
	"github.com/praxisops/praxis/internal/shared/errors"
)

func eventFor(eventType string, payload map[string]any) events.Event {
	entityID := ""
	if id, ok := payload["ticket_id"]; ok {
		entityID = strconv.FormatUint(uint64(id.(uint)), 10)
	}
	return events.Event{
		EventType:  eventType,
		EntityType: "ticket",
		EntityID:   entityID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeRuleRepo is a stateful in-memory rule store.
type fakeRuleRepo struct {
	mu     sync.Mutex
	rules  map[uint]*automation.Rule
	nextID uint
}

func newFakeRuleRepo(rules ...*automation.Rule) *fakeRuleRepo {
	repo := &fakeRuleRepo{rules: make(map[uint]*automation.Rule), nextID: 1}
	for _, r := range rules {
		_ = repo.Save(context.Background(), r)
	}
	return repo
}

func (r *fakeRuleRepo) Save(ctx context.Context, rule *automation.Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rule.ID() == 0 {
		if err := rule.SetID(r.nextID); err != nil {
			return err
		}
		r.nextID++
	}
	r.rules[rule.ID()] = rule
	return nil
}

func (r *fakeRuleRepo) Update(ctx context.Context, rule *automation.Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rules[rule.ID()]; !ok {
		return errors.NewNotFoundError("automation rule not found")
	}
	r.rules[rule.ID()] = rule
	return nil
}

func (r *fakeRuleRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rules[id]; !ok {
		return errors.NewNotFoundError("automation rule not found")
	}
	delete(r.rules, id)
	return nil
}

func (r *fakeRuleRepo) GetByID(ctx context.Context, id uint) (*automation.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.rules[id]
	if !ok {
		return nil, errors.NewNotFoundError("automation rule not found")
	}
	return rule, nil
}

func (r *fakeRuleRepo) List(ctx context.Context) ([]*automation.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*automation.Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, rule)
	}
	return out, nil
}

func (r *fakeRuleRepo) ListActiveByKind(ctx context.Context, kind string) ([]*automation.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*automation.Rule, 0)
	for _, rule := range r.rules {
		if rule.IsActive() && rule.Kind() == kind {
			out = append(out, rule)
		}
	}
	return out, nil
}

// fakeRunRepo collects saved runs.
type fakeRunRepo struct {
	mu     sync.Mutex
	runs   []*automation.Run
	nextID uint
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{nextID: 1}
}

func (r *fakeRunRepo) Save(ctx context.Context, run *automation.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := run.SetID(r.nextID); err != nil {
		return err
	}
	r.nextID++
	r.runs = append(r.runs, run)
	return nil
}

func (r *fakeRunRepo) ListByRule(ctx context.Context, ruleID uint, limit int) ([]*automation.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*automation.Run, 0)
	for i := len(r.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if r.runs[i].RuleID() == ruleID {
			out = append(out, r.runs[i])
		}
	}
	return out, nil
}

func (r *fakeRunRepo) all() []*automation.Run {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*automation.Run, len(r.runs))
	copy(out, r.runs)
	return out
}

// mockScheduler records schedule/unschedule calls and serves a canned
// next fire time.
type mockScheduler struct {
	mu          sync.Mutex
	scheduled   []uint
	unscheduled []uint
	next        *time.Time
}

func (m *mockScheduler) ScheduleRule(rule *automation.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduled = append(m.scheduled, rule.ID())
	return nil
}

func (m *mockScheduler) UnscheduleRule(ruleID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unscheduled = append(m.unscheduled, ruleID)
}

func (m *mockScheduler) NextRun(ruleID uint) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.next == nil {
		return time.Time{}, false
	}
	return *m.next, true
}
