// Package scheduler drives timed automation rules with gocron v2.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/praxisops/praxis/internal/domain/automation"
	"github.com/praxisops/praxis/internal/shared/logger"
)

// RuleExecutor runs one scheduled automation rule end to end, including
// run recording.
type RuleExecutor interface {
	ExecuteRule(ctx context.Context, ruleID uint) error
}

// Manager owns the gocron scheduler. Each scheduled rule maps to one job
// tagged by rule ID so rules can be rescheduled or removed at runtime.
type Manager struct {
	scheduler gocron.Scheduler
	executor  RuleExecutor
	logger    logger.Interface

	mu      sync.Mutex
	jobs    map[uint]gocron.Job
	started bool
}

func NewManager(executor RuleExecutor, log logger.Interface) (*Manager, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}

	return &Manager{
		scheduler: scheduler,
		executor:  executor,
		logger:    log,
		jobs:      make(map[uint]gocron.Job),
	}, nil
}

// ScheduleRule registers or replaces the job for a scheduled rule. Cadence
// rules run on a fixed interval; cron rules follow their 5-field expression
// in UTC.
func (m *Manager) ScheduleRule(rule *automation.Rule) error {
	if rule.Kind() != automation.KindScheduled {
		return fmt.Errorf("rule %d is not a scheduled rule", rule.ID())
	}

	var definition gocron.JobDefinition
	if interval, ok := rule.Interval(); ok {
		definition = gocron.DurationJob(interval)
	} else {
		definition = gocron.CronJob(rule.CronExpression(), false)
	}

	ruleID := rule.ID()
	job, err := m.scheduler.NewJob(
		definition,
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			m.runRule(ctx, ruleID)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("automation", strconv.FormatUint(uint64(ruleID), 10)),
		gocron.WithName(fmt.Sprintf("automation-rule-%d", ruleID)),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule rule %d: %w", ruleID, err)
	}

	m.mu.Lock()
	if old, ok := m.jobs[ruleID]; ok {
		_ = m.scheduler.RemoveJob(old.ID())
	}
	m.jobs[ruleID] = job
	m.mu.Unlock()

	m.logger.Infow("scheduled automation rule", "rule_id", ruleID, "cadence", rule.Cadence(), "cron", rule.CronExpression())
	return nil
}

// NextRun reports the next fire time for a rule's job in UTC. Unknown
// rules, and jobs whose scheduler has not started yet, report false.
func (m *Manager) NextRun(ruleID uint) (time.Time, bool) {
	m.mu.Lock()
	job, ok := m.jobs[ruleID]
	m.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}

	next, err := job.NextRun()
	if err != nil || next.IsZero() {
		return time.Time{}, false
	}
	return next.UTC(), true
}

// UnscheduleRule removes the rule's job; unknown rules are a no-op.
func (m *Manager) UnscheduleRule(ruleID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[ruleID]
	if !ok {
		return
	}
	if err := m.scheduler.RemoveJob(job.ID()); err != nil {
		m.logger.Warnw("failed to remove scheduled rule", "rule_id", ruleID, "error", err)
	}
	delete(m.jobs, ruleID)
}

func (m *Manager) runRule(ctx context.Context, ruleID uint) {
	if err := m.executor.ExecuteRule(ctx, ruleID); err != nil {
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("scheduled rule execution failed", "rule_id", ruleID, "error", err)
	}
}

// Start begins firing jobs. Idempotent.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return
	}
	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler started", "job_count", len(m.scheduler.Jobs()))
}

// Stop shuts the scheduler down, waiting for running jobs.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return nil
	}
	err := m.scheduler.Shutdown()
	m.started = false
	if err != nil {
		return fmt.Errorf("scheduler shutdown: %w", err)
	}

	m.logger.Infow("scheduler stopped")
	return nil
}
