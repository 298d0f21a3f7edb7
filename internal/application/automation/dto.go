package automation

import (
	"time"

	"github.com/praxisops/praxis/internal/domain/automation"
)

type RuleDTO struct {
	ID             uint           `json:"id"`
	Name           string         `json:"name"`
	Kind           string         `json:"kind"`
	Cadence        string         `json:"cadence,omitempty"`
	CronExpression string         `json:"cron_expression,omitempty"`
	ScheduledTime  string         `json:"scheduled_time,omitempty"`
	RunOnce        bool           `json:"run_once,omitempty"`
	TriggerEvent   string         `json:"trigger_event,omitempty"`
	TriggerFilters map[string]any `json:"trigger_filters,omitempty"`
	ActionModule   string         `json:"action_module"`
	ActionPayload  map[string]any `json:"action_payload,omitempty"`
	Status         string         `json:"status"`
	NextRunAt      *string        `json:"next_run_at,omitempty"`
	LastRunAt      *string        `json:"last_run_at,omitempty"`
	LastError      string         `json:"last_error,omitempty"`
	CreatedAt      string         `json:"created_at"`
	UpdatedAt      string         `json:"updated_at"`
}

type RunDTO struct {
	ID            uint           `json:"id"`
	RuleID        uint           `json:"rule_id"`
	Status        string         `json:"status"`
	StartedAt     string         `json:"started_at"`
	FinishedAt    string         `json:"finished_at"`
	DurationMs    int64          `json:"duration_ms"`
	ResultPayload map[string]any `json:"result_payload,omitempty"`
	ErrorMessage  string         `json:"error_message,omitempty"`
}

func FromRule(r *automation.Rule) *RuleDTO {
	return &RuleDTO{
		ID:             r.ID(),
		Name:           r.Name(),
		Kind:           r.Kind(),
		Cadence:        r.Cadence(),
		CronExpression: r.CronExpression(),
		ScheduledTime:  r.ScheduledTime(),
		RunOnce:        r.RunOnce(),
		TriggerEvent:   r.TriggerEvent(),
		TriggerFilters: r.TriggerFilters(),
		ActionModule:   r.ActionModule(),
		ActionPayload:  r.ActionPayload(),
		Status:         r.Status(),
		NextRunAt:      formatTimePtr(r.NextRunAt()),
		LastRunAt:      formatTimePtr(r.LastRunAt()),
		LastError:      r.LastError(),
		CreatedAt:      formatTime(r.CreatedAt()),
		UpdatedAt:      formatTime(r.UpdatedAt()),
	}
}

func FromRun(r *automation.Run) *RunDTO {
	return &RunDTO{
		ID:            r.ID(),
		RuleID:        r.RuleID(),
		Status:        r.Status(),
		StartedAt:     formatTime(r.StartedAt()),
		FinishedAt:    formatTime(r.FinishedAt()),
		DurationMs:    r.Duration().Milliseconds(),
		ResultPayload: r.ResultPayload(),
		ErrorMessage:  r.ErrorMessage(),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
