package automation

import (
	"fmt"
	"time"
)

// Rule kinds.
const (
	KindScheduled = "scheduled"
	KindEvent     = "event"
)

// Rule statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Cadences accepted for scheduled rules without a cron expression.
const (
	CadenceHourly = "hourly"
	CadenceDaily  = "daily"
	CadenceWeekly = "weekly"
)

// Rule is a user-authored automation. A scheduled rule fires on its own
// timer; an event rule fires when a bus event matches its trigger.
type Rule struct {
	id             uint
	name           string
	kind           string
	cadence        string
	cronExpression string
	scheduledTime  string
	runOnce        bool
	triggerEvent   string
	triggerFilters map[string]any
	actionModule   string
	actionPayload  map[string]any
	status         string
	nextRunAt      *time.Time
	lastRunAt      *time.Time
	lastError      string
	createdAt      time.Time
	updatedAt      time.Time
}

// NewScheduledRule creates a timer-driven rule. Either cadence or a 5-field
// cron expression must be given, not neither.
func NewScheduledRule(name, cadence, cronExpression, scheduledTime string, runOnce bool, actionModule string, actionPayload map[string]any, now time.Time) (*Rule, error) {
	if name == "" {
		return nil, fmt.Errorf("rule name is required")
	}
	if cadence == "" && cronExpression == "" {
		return nil, fmt.Errorf("scheduled rule requires a cadence or cron expression")
	}
	if cadence != "" && !isValidCadence(cadence) {
		return nil, fmt.Errorf("unknown cadence %q", cadence)
	}
	if actionModule == "" {
		return nil, fmt.Errorf("action module is required")
	}

	return &Rule{
		name:           name,
		kind:           KindScheduled,
		cadence:        cadence,
		cronExpression: cronExpression,
		scheduledTime:  scheduledTime,
		runOnce:        runOnce,
		actionModule:   actionModule,
		actionPayload:  actionPayload,
		status:         StatusActive,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// NewEventRule creates an event-bound rule.
func NewEventRule(name, triggerEvent string, triggerFilters map[string]any, actionModule string, actionPayload map[string]any, now time.Time) (*Rule, error) {
	if name == "" {
		return nil, fmt.Errorf("rule name is required")
	}
	if triggerEvent == "" {
		return nil, fmt.Errorf("event rule requires a trigger event")
	}
	if actionModule == "" {
		return nil, fmt.Errorf("action module is required")
	}

	return &Rule{
		name:           name,
		kind:           KindEvent,
		triggerEvent:   triggerEvent,
		triggerFilters: triggerFilters,
		actionModule:   actionModule,
		actionPayload:  actionPayload,
		status:         StatusActive,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func ReconstructRule(
	id uint,
	name, kind, cadence, cronExpression, scheduledTime string,
	runOnce bool,
	triggerEvent string,
	triggerFilters map[string]any,
	actionModule string,
	actionPayload map[string]any,
	status string,
	nextRunAt, lastRunAt *time.Time,
	lastError string,
	createdAt, updatedAt time.Time,
) (*Rule, error) {
	if id == 0 {
		return nil, fmt.Errorf("rule ID cannot be zero")
	}
	if kind != KindScheduled && kind != KindEvent {
		return nil, fmt.Errorf("unknown rule kind %q", kind)
	}

	return &Rule{
		id:             id,
		name:           name,
		kind:           kind,
		cadence:        cadence,
		cronExpression: cronExpression,
		scheduledTime:  scheduledTime,
		runOnce:        runOnce,
		triggerEvent:   triggerEvent,
		triggerFilters: triggerFilters,
		actionModule:   actionModule,
		actionPayload:  actionPayload,
		status:         status,
		nextRunAt:      nextRunAt,
		lastRunAt:      lastRunAt,
		lastError:      lastError,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func (r *Rule) ID() uint              { return r.id }
func (r *Rule) Name() string          { return r.name }
func (r *Rule) Kind() string          { return r.kind }
func (r *Rule) Cadence() string       { return r.cadence }
func (r *Rule) CronExpression() string { return r.cronExpression }
func (r *Rule) ScheduledTime() string { return r.scheduledTime }
func (r *Rule) RunOnce() bool         { return r.runOnce }
func (r *Rule) TriggerEvent() string  { return r.triggerEvent }
func (r *Rule) ActionModule() string  { return r.actionModule }
func (r *Rule) Status() string        { return r.status }
func (r *Rule) NextRunAt() *time.Time { return r.nextRunAt }
func (r *Rule) LastRunAt() *time.Time { return r.lastRunAt }
func (r *Rule) LastError() string     { return r.lastError }
func (r *Rule) CreatedAt() time.Time  { return r.createdAt }
func (r *Rule) UpdatedAt() time.Time  { return r.updatedAt }

func (r *Rule) TriggerFilters() map[string]any {
	out := make(map[string]any, len(r.triggerFilters))
	for k, v := range r.triggerFilters {
		out[k] = v
	}
	return out
}

func (r *Rule) ActionPayload() map[string]any {
	out := make(map[string]any, len(r.actionPayload))
	for k, v := range r.actionPayload {
		out[k] = v
	}
	return out
}

func (r *Rule) IsActive() bool    { return r.status == StatusActive }
func (r *Rule) IsScheduled() bool { return r.kind == KindScheduled }
func (r *Rule) IsEventBound() bool { return r.kind == KindEvent }

func (r *Rule) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("rule ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("rule ID cannot be zero")
	}
	r.id = id
	return nil
}

// Matches reports whether an event payload satisfies this rule's trigger.
// Every filter key must be present in the payload and compare equal (shallow,
// stringified); an absent key never matches. Inactive rules never match.
func (r *Rule) Matches(eventType string, payload map[string]any) bool {
	if !r.IsActive() || !r.IsEventBound() {
		return false
	}
	if r.triggerEvent != eventType {
		return false
	}

	for key, want := range r.triggerFilters {
		got, ok := payload[key]
		if !ok {
			return false
		}
		if fmt.Sprintf("%v", got) != fmt.Sprintf("%v", want) {
			return false
		}
	}

	return true
}

// Interval converts the cadence into a duration. Cron-driven rules return
// false and are scheduled by expression instead.
func (r *Rule) Interval() (time.Duration, bool) {
	switch r.cadence {
	case CadenceHourly:
		return time.Hour, true
	case CadenceDaily:
		return 24 * time.Hour, true
	case CadenceWeekly:
		return 7 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// RecordRun stores the outcome of an execution. A failed run keeps the rule
// active; a successful run of a run-once rule deactivates it.
func (r *Rule) RecordRun(succeeded bool, runErr string, now time.Time) {
	ranAt := now
	r.lastRunAt = &ranAt
	r.updatedAt = now

	if succeeded {
		r.lastError = ""
		if r.runOnce {
			r.status = StatusInactive
			r.nextRunAt = nil
		}
		return
	}

	r.lastError = runErr
}

// SetNextRun records the next scheduled fire time.
func (r *Rule) SetNextRun(next *time.Time, now time.Time) {
	r.nextRunAt = next
	r.updatedAt = now
}

func (r *Rule) Activate(now time.Time) {
	r.status = StatusActive
	r.updatedAt = now
}

// Deactivate stops future fires. An in-flight run is unaffected.
func (r *Rule) Deactivate(now time.Time) {
	r.status = StatusInactive
	r.nextRunAt = nil
	r.updatedAt = now
}

func isValidCadence(cadence string) bool {
	switch cadence {
	case CadenceHourly, CadenceDaily, CadenceWeekly:
		return true
	}
	return false
}
