package mappers

import (
	"encoding/json"
	"fmt"

	"github.com/praxisops/praxis/internal/domain/automation"
	"github.com/praxisops/praxis/internal/infrastructure/persistence/models"
)

// AutomationMapper converts between automation entities and persistence models.
type AutomationMapper interface {
	RuleToModel(r *automation.Rule) *models.AutomationRuleModel
	RuleToDomain(model *models.AutomationRuleModel) (*automation.Rule, error)

	RunToModel(r *automation.Run) *models.AutomationRunModel
	RunToDomain(model *models.AutomationRunModel) (*automation.Run, error)
}

type automationMapper struct{}

func NewAutomationMapper() AutomationMapper {
	return &automationMapper{}
}

func (m *automationMapper) RuleToModel(r *automation.Rule) *models.AutomationRuleModel {
	model := &models.AutomationRuleModel{
		ID:             r.ID(),
		Name:           r.Name(),
		Kind:           r.Kind(),
		Cadence:        r.Cadence(),
		CronExpression: r.CronExpression(),
		ScheduledTime:  r.ScheduledTime(),
		RunOnce:        r.RunOnce(),
		TriggerEvent:   r.TriggerEvent(),
		ActionModule:   r.ActionModule(),
		Status:         r.Status(),
		NextRunAt:      timePtrToMillis(r.NextRunAt()),
		LastRunAt:      timePtrToMillis(r.LastRunAt()),
		LastError:      r.LastError(),
		CreatedAt:      timeToMillis(r.CreatedAt()),
		UpdatedAt:      timeToMillis(r.UpdatedAt()),
	}

	model.TriggerFilters = marshalMap(r.TriggerFilters())
	model.ActionPayload = marshalMap(r.ActionPayload())
	return model
}

func (m *automationMapper) RuleToDomain(model *models.AutomationRuleModel) (*automation.Rule, error) {
	filters, err := unmarshalMap(model.TriggerFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal trigger filters (rule=%d): %w", model.ID, err)
	}
	payload, err := unmarshalMap(model.ActionPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal action payload (rule=%d): %w", model.ID, err)
	}

	return automation.ReconstructRule(
		model.ID,
		model.Name,
		model.Kind,
		model.Cadence,
		model.CronExpression,
		model.ScheduledTime,
		model.RunOnce,
		model.TriggerEvent,
		filters,
		model.ActionModule,
		payload,
		model.Status,
		millisPtrToTime(model.NextRunAt),
		millisPtrToTime(model.LastRunAt),
		model.LastError,
		millisToTime(model.CreatedAt),
		millisToTime(model.UpdatedAt),
	)
}

func (m *automationMapper) RunToModel(r *automation.Run) *models.AutomationRunModel {
	return &models.AutomationRunModel{
		ID:            r.ID(),
		RuleID:        r.RuleID(),
		Status:        r.Status(),
		StartedAt:     timeToMillis(r.StartedAt()),
		FinishedAt:    timeToMillis(r.FinishedAt()),
		DurationMs:    r.Duration().Milliseconds(),
		ResultPayload: marshalMap(r.ResultPayload()),
		ErrorMessage:  r.ErrorMessage(),
	}
}

func (m *automationMapper) RunToDomain(model *models.AutomationRunModel) (*automation.Run, error) {
	payload, err := unmarshalMap(model.ResultPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal result payload (run=%d): %w", model.ID, err)
	}

	return automation.ReconstructRun(
		model.ID,
		model.RuleID,
		model.Status,
		millisToTime(model.StartedAt),
		millisToTime(model.FinishedAt),
		payload,
		model.ErrorMessage,
	), nil
}

func marshalMap(m map[string]any) string {
	if len(m) == 0 {
		return ""
	}
	raw, _ := json.Marshal(m)
	return string(raw)
}

func unmarshalMap(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	return m, nil
}
