package automation

import (
	"fmt"
	"time"
)

// Run outcomes.
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
	RunSkipped   = "skipped"
)

// Run captures one execution of a rule.
type Run struct {
	id            uint
	ruleID        uint
	status        string
	startedAt     time.Time
	finishedAt    time.Time
	duration      time.Duration
	resultPayload map[string]any
	errorMessage  string
}

func NewRun(ruleID uint, status string, startedAt, finishedAt time.Time, resultPayload map[string]any, errorMessage string) (*Run, error) {
	if ruleID == 0 {
		return nil, fmt.Errorf("rule ID is required")
	}
	switch status {
	case RunSucceeded, RunFailed, RunSkipped:
	default:
		return nil, fmt.Errorf("unknown run status %q", status)
	}
	if finishedAt.Before(startedAt) {
		return nil, fmt.Errorf("run cannot finish before it starts")
	}

	return &Run{
		ruleID:        ruleID,
		status:        status,
		startedAt:     startedAt,
		finishedAt:    finishedAt,
		duration:      finishedAt.Sub(startedAt),
		resultPayload: resultPayload,
		errorMessage:  errorMessage,
	}, nil
}

func ReconstructRun(id, ruleID uint, status string, startedAt, finishedAt time.Time, resultPayload map[string]any, errorMessage string) *Run {
	return &Run{
		id:            id,
		ruleID:        ruleID,
		status:        status,
		startedAt:     startedAt,
		finishedAt:    finishedAt,
		duration:      finishedAt.Sub(startedAt),
		resultPayload: resultPayload,
		errorMessage:  errorMessage,
	}
}

func (r *Run) ID() uint                  { return r.id }
func (r *Run) RuleID() uint              { return r.ruleID }
func (r *Run) Status() string            { return r.status }
func (r *Run) StartedAt() time.Time      { return r.startedAt }
func (r *Run) FinishedAt() time.Time     { return r.finishedAt }
func (r *Run) Duration() time.Duration   { return r.duration }
func (r *Run) ErrorMessage() string      { return r.errorMessage }

func (r *Run) ResultPayload() map[string]any {
	out := make(map[string]any, len(r.resultPayload))
	for k, v := range r.resultPayload {
		out[k] = v
	}
	return out
}

func (r *Run) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("run ID is already set")
	}
	r.id = id
	return nil
}
