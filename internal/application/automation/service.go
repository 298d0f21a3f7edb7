package automation

import (
	"context"
	"time"

	"github.com/praxisops/praxis/internal/domain/automation"
	"github.com/praxisops/praxis/internal/shared/errors"
	"github.com/praxisops/praxis/internal/shared/logger"
	"github.com/praxisops/praxis/internal/shared/utils"
)

// RuleScheduler is the scheduler slice rule CRUD needs. Satisfied by
// scheduler.Manager.
type RuleScheduler interface {
	ScheduleRule(rule *automation.Rule) error
	UnscheduleRule(ruleID uint)
	NextRun(ruleID uint) (time.Time, bool)
}

// CreateRuleCommand covers both kinds. Kind selects which fields apply.
type CreateRuleCommand struct {
	Name           string
	Kind           string
	Cadence        string
	CronExpression string
	ScheduledTime  string
	RunOnce        bool
	TriggerEvent   string
	TriggerFilters map[string]any
	ActionModule   string
	ActionPayload  map[string]any
}

// Service owns automation rule CRUD and keeps the scheduler in sync with
// rule lifecycle changes.
type Service struct {
	rules     automation.RuleRepository
	runs      automation.RunRepository
	registry  *Registry
	scheduler RuleScheduler
	logger    logger.Interface
}

func NewService(
	rules automation.RuleRepository,
	runs automation.RunRepository,
	registry *Registry,
	scheduler RuleScheduler,
	log logger.Interface,
) *Service {
	return &Service{
		rules:     rules,
		runs:      runs,
		registry:  registry,
		scheduler: scheduler,
		logger:    log,
	}
}

func (s *Service) CreateRule(ctx context.Context, cmd CreateRuleCommand) (*RuleDTO, error) {
	if _, ok := s.registry.Get(cmd.ActionModule); !ok && cmd.ActionModule != "" {
		return nil, errors.NewValidationError("unknown action module", cmd.ActionModule)
	}

	now := time.Now().UTC()
	var rule *automation.Rule
	var err error

	switch cmd.Kind {
	case automation.KindScheduled:
		rule, err = automation.NewScheduledRule(cmd.Name, cmd.Cadence, cmd.CronExpression, cmd.ScheduledTime, cmd.RunOnce, cmd.ActionModule, cmd.ActionPayload, now)
	case automation.KindEvent:
		rule, err = automation.NewEventRule(cmd.Name, cmd.TriggerEvent, cmd.TriggerFilters, cmd.ActionModule, cmd.ActionPayload, now)
	default:
		return nil, errors.NewValidationError("rule kind must be scheduled or event")
	}
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.rules.Save(ctx, rule); err != nil {
		return nil, err
	}

	if rule.IsScheduled() {
		if err := s.scheduler.ScheduleRule(rule); err != nil {
			s.logger.Errorw("failed to schedule new rule", "rule_id", rule.ID(), "error", err)
		} else {
			s.recordNextRun(ctx, rule)
		}
	}

	s.logger.Infow("automation rule created", "rule_id", rule.ID(), "kind", rule.Kind(), "module", rule.ActionModule())
	return FromRule(rule), nil
}

func (s *Service) GetRule(ctx context.Context, id uint) (*RuleDTO, error) {
	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromRule(rule), nil
}

func (s *Service) ListRules(ctx context.Context) ([]*RuleDTO, error) {
	rules, err := s.rules.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*RuleDTO, 0, len(rules))
	for _, r := range rules {
		items = append(items, FromRule(r))
	}
	return items, nil
}

// SetRuleStatus activates or deactivates a rule, adjusting its timer.
// Deactivation never cancels an in-flight run.
func (s *Service) SetRuleStatus(ctx context.Context, id uint, active bool) (*RuleDTO, error) {
	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if active {
		rule.Activate(now)
	} else {
		rule.Deactivate(now)
	}

	if err := s.rules.Update(ctx, rule); err != nil {
		return nil, err
	}

	if rule.IsScheduled() {
		if active {
			if err := s.scheduler.ScheduleRule(rule); err != nil {
				s.logger.Errorw("failed to reschedule rule", "rule_id", id, "error", err)
			} else {
				s.recordNextRun(ctx, rule)
			}
		} else {
			s.scheduler.UnscheduleRule(id)
		}
	}

	return FromRule(rule), nil
}

func (s *Service) DeleteRule(ctx context.Context, id uint) error {
	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.rules.Delete(ctx, id); err != nil {
		return err
	}

	if rule.IsScheduled() {
		s.scheduler.UnscheduleRule(id)
	}

	s.logger.Infow("automation rule deleted", "rule_id", id)
	return nil
}

func (s *Service) ListRuns(ctx context.Context, ruleID uint, limit int) ([]*RunDTO, error) {
	if _, err := s.rules.GetByID(ctx, ruleID); err != nil {
		return nil, err
	}

	page := utils.ValidatePagination(limit, 0)
	runs, err := s.runs.ListByRule(ctx, ruleID, page.Limit)
	if err != nil {
		return nil, err
	}

	items := make([]*RunDTO, 0, len(runs))
	for _, r := range runs {
		items = append(items, FromRun(r))
	}
	return items, nil
}

// RestoreSchedules rebuilds timers for every active scheduled rule at
// startup.
func (s *Service) RestoreSchedules(ctx context.Context) error {
	rules, err := s.rules.ListActiveByKind(ctx, automation.KindScheduled)
	if err != nil {
		return err
	}

	for _, rule := range rules {
		if err := s.scheduler.ScheduleRule(rule); err != nil {
			s.logger.Errorw("failed to restore rule schedule", "rule_id", rule.ID(), "error", err)
			continue
		}
		s.recordNextRun(ctx, rule)
	}

	s.logger.Infow("restored automation schedules", "count", len(rules))
	return nil
}

// recordNextRun persists the job's next fire time after (re)scheduling.
// Best effort: a stale next_run_at only affects the listing.
func (s *Service) recordNextRun(ctx context.Context, rule *automation.Rule) {
	next, ok := s.scheduler.NextRun(rule.ID())
	if !ok {
		return
	}

	rule.SetNextRun(&next, time.Now().UTC())
	if err := s.rules.Update(ctx, rule); err != nil {
		s.logger.Errorw("failed to record next run time", "rule_id", rule.ID(), "error", err)
	}
}
