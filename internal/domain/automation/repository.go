package automation

import "context"

// RuleRepository persists automation rules.
type RuleRepository interface {
	Save(ctx context.Context, rule *Rule) error
	Update(ctx context.Context, rule *Rule) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Rule, error)
	List(ctx context.Context) ([]*Rule, error)
	// ListActiveByKind is used at startup to rebuild timers and at event time
	// to match event rules.
	ListActiveByKind(ctx context.Context, kind string) ([]*Rule, error)
}

// RunRepository persists rule executions.
type RunRepository interface {
	Save(ctx context.Context, run *Run) error
	ListByRule(ctx context.Context, ruleID uint, limit int) ([]*Run, error)
}
