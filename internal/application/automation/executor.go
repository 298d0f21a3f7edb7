package automation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/praxisops/praxis/internal/domain/automation"
	"github.com/praxisops/praxis/internal/shared/db"
	"github.com/praxisops/praxis/internal/shared/logger"
)

// DefaultModuleTimeout bounds a single handler invocation. Overruns are
// recorded as failed runs.
const DefaultModuleTimeout = 5 * time.Minute

// RuleTimers is the scheduler slice the executor needs: dropping a rule's
// timer after a run-once success and reading the next fire time so it is
// persisted with the run outcome. Satisfied by scheduler.Manager.
type RuleTimers interface {
	UnscheduleRule(ruleID uint)
	NextRun(ruleID uint) (time.Time, bool)
}

// Executor runs automation rules through the module registry. Scheduled
// fires enter via ExecuteRule; event fires via ExecuteRuleForEvent. Each
// rule is single-flight: a fire that finds the rule busy records a skipped
// run and returns.
type Executor struct {
	rules         automation.RuleRepository
	runs          automation.RunRepository
	registry      *Registry
	txManager     db.TxRunner
	logger        logger.Interface
	moduleTimeout time.Duration

	mu       sync.Mutex
	inFlight map[uint]bool

	timers RuleTimers
}

func NewExecutor(
	rules automation.RuleRepository,
	runs automation.RunRepository,
	registry *Registry,
	txManager db.TxRunner,
	log logger.Interface,
) *Executor {
	return &Executor{
		rules:         rules,
		runs:          runs,
		registry:      registry,
		txManager:     txManager,
		logger:        log,
		moduleTimeout: DefaultModuleTimeout,
		inFlight:      make(map[uint]bool),
	}
}

// SetModuleTimeout overrides the per-handler deadline.
func (e *Executor) SetModuleTimeout(d time.Duration) {
	if d > 0 {
		e.moduleTimeout = d
	}
}

// SetTimers wires the scheduler so run-once rules drop their timer after
// the first successful run and scheduled rules refresh next_run_at. Set
// after construction to break the executor/scheduler cycle.
func (e *Executor) SetTimers(timers RuleTimers) {
	e.timers = timers
}

// ExecuteRule runs a rule by ID. Implements scheduler.RuleExecutor.
func (e *Executor) ExecuteRule(ctx context.Context, ruleID uint) error {
	rule, err := e.rules.GetByID(ctx, ruleID)
	if err != nil {
		return err
	}
	return e.execute(ctx, rule, nil)
}

// ExecuteRuleForEvent runs an event-bound rule with the triggering event's
// payload attached under "event".
func (e *Executor) ExecuteRuleForEvent(ctx context.Context, rule *automation.Rule, eventPayload map[string]any) error {
	return e.execute(ctx, rule, eventPayload)
}

func (e *Executor) execute(ctx context.Context, rule *automation.Rule, eventPayload map[string]any) error {
	ruleID := rule.ID()

	if !e.acquire(ruleID) {
		e.logger.Debugw("rule already running, coalescing", "rule_id", ruleID)
		return e.recordSkip(ctx, rule, "rule already running")
	}
	defer e.release(ruleID)

	if !rule.IsActive() {
		return e.recordSkip(ctx, rule, "rule is inactive")
	}

	handler, ok := e.registry.Get(rule.ActionModule())
	if !ok {
		return e.finishRun(ctx, rule, time.Now().UTC(), time.Now().UTC(), nil,
			fmt.Errorf("no handler registered for module %q", rule.ActionModule()))
	}

	payload := rule.ActionPayload()
	if eventPayload != nil {
		payload["event"] = eventPayload
	}

	runCtx, cancel := context.WithTimeout(ctx, e.moduleTimeout)
	defer cancel()

	started := time.Now().UTC()
	result, runErr := handler.Execute(runCtx, payload)
	finished := time.Now().UTC()

	if runErr == nil && runCtx.Err() != nil {
		runErr = fmt.Errorf("module %q exceeded its deadline", rule.ActionModule())
	}

	return e.finishRun(ctx, rule, started, finished, result, runErr)
}

func (e *Executor) finishRun(ctx context.Context, rule *automation.Rule, started, finished time.Time, result map[string]any, runErr error) error {
	status := automation.RunSucceeded
	errMsg := ""
	if runErr != nil {
		status = automation.RunFailed
		errMsg = runErr.Error()
	}

	run, err := automation.NewRun(rule.ID(), status, started, finished, result, errMsg)
	if err != nil {
		return err
	}

	wasActive := rule.IsActive()
	rule.RecordRun(runErr == nil, errMsg, finished)

	if rule.IsScheduled() && rule.IsActive() && e.timers != nil {
		if next, ok := e.timers.NextRun(rule.ID()); ok {
			rule.SetNextRun(&next, finished)
		}
	}

	err = e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := e.runs.Save(ctx, run); err != nil {
			return err
		}
		return e.rules.Update(ctx, rule)
	})
	if err != nil {
		e.logger.Errorw("failed to record automation run", "rule_id", rule.ID(), "error", err)
		return err
	}

	if wasActive && !rule.IsActive() && e.timers != nil {
		e.timers.UnscheduleRule(rule.ID())
	}

	if runErr != nil {
		e.logger.Warnw("automation rule failed",
			"rule_id", rule.ID(), "module", rule.ActionModule(), "error", errMsg,
			"duration", finished.Sub(started))
		return runErr
	}

	e.logger.Infow("automation rule executed",
		"rule_id", rule.ID(), "module", rule.ActionModule(),
		"duration", finished.Sub(started))
	return nil
}

func (e *Executor) recordSkip(ctx context.Context, rule *automation.Rule, reason string) error {
	now := time.Now().UTC()
	run, err := automation.NewRun(rule.ID(), automation.RunSkipped, now, now, nil, reason)
	if err != nil {
		return err
	}
	if err := e.runs.Save(ctx, run); err != nil {
		e.logger.Errorw("failed to record skipped run", "rule_id", rule.ID(), "error", err)
		return err
	}
	return nil
}

func (e *Executor) acquire(ruleID uint) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inFlight[ruleID] {
		return false
	}
	e.inFlight[ruleID] = true
	return true
}

func (e *Executor) release(ruleID uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inFlight, ruleID)
}
