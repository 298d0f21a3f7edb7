package automation

import (
	"context"

	"github.com/praxisops/praxis/internal/domain/automation"
	"github.com/praxisops/praxis/internal/domain/shared/events"
	"github.com/praxisops/praxis/internal/shared/logger"
)

// EventTrigger matches bus events against active event-bound rules and fires
// the executor for each match. It subscribes to the wildcard event type so
// rules can trigger on anything crossing the bus.
type EventTrigger struct {
	rules    automation.RuleRepository
	executor *Executor
	logger   logger.Interface
}

func NewEventTrigger(rules automation.RuleRepository, executor *Executor, log logger.Interface) *EventTrigger {
	return &EventTrigger{rules: rules, executor: executor, logger: log}
}

// Register subscribes the trigger on the bus.
func (t *EventTrigger) Register(subscriber events.Subscriber) error {
	return subscriber.Subscribe("*", t)
}

func (t *EventTrigger) Name() string { return "automation-event-trigger" }

// Handle implements events.Handler. A failing rule does not stop the
// remaining matches.
func (t *EventTrigger) Handle(event events.Event) error {
	ctx := context.Background()

	rules, err := t.rules.ListActiveByKind(ctx, automation.KindEvent)
	if err != nil {
		return err
	}

	for _, rule := range rules {
		if !rule.Matches(event.EventType, event.Payload) {
			continue
		}
		if err := t.executor.ExecuteRuleForEvent(ctx, rule, event.Payload); err != nil {
			t.logger.Warnw("event rule execution failed",
				"rule_id", rule.ID(), "event_type", event.EventType, "error", err)
		}
	}

	return nil
}
