package automation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisops/praxis/internal/domain/automation"
	"github.com/praxisops/praxis/internal/shared/errors"
	"github.com/praxisops/praxis/internal/shared/logger"
)

func newTestService(rules *fakeRuleRepo, sched *mockScheduler) *Service {
	registry := NewRegistry()
	registry.Register("cleanup", ModuleHandlerFunc(func(ctx context.Context, payload map[string]any) (map[string]any, error) {
		return nil, nil
	}))
	return NewService(rules, newFakeRunRepo(), registry, sched, logger.NewLogger())
}

func TestService_CreateRule(t *testing.T) {
	t.Run("scheduled rule gets a timer", func(t *testing.T) {
		rules := newFakeRuleRepo()
		sched := &mockScheduler{}
		svc := newTestService(rules, sched)

		got, err := svc.CreateRule(context.Background(), CreateRuleCommand{
			Name:         "nightly cleanup",
			Kind:         automation.KindScheduled,
			Cadence:      automation.CadenceDaily,
			ActionModule: "cleanup",
		})

		require.NoError(t, err)
		assert.Equal(t, automation.StatusActive, got.Status)
		assert.Equal(t, []uint{got.ID}, sched.scheduled)
	})

	t.Run("scheduled rule persists its next fire time", func(t *testing.T) {
		upcoming := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
		rules := newFakeRuleRepo()
		sched := &mockScheduler{next: &upcoming}
		svc := newTestService(rules, sched)

		got, err := svc.CreateRule(context.Background(), CreateRuleCommand{
			Name:         "nightly cleanup",
			Kind:         automation.KindScheduled,
			Cadence:      automation.CadenceDaily,
			ActionModule: "cleanup",
		})

		require.NoError(t, err)
		require.NotNil(t, got.NextRunAt)

		persisted, err := rules.GetByID(context.Background(), got.ID)
		require.NoError(t, err)
		require.NotNil(t, persisted.NextRunAt())
		assert.Equal(t, upcoming, *persisted.NextRunAt())
	})

	t.Run("event rule skips the scheduler", func(t *testing.T) {
		sched := &mockScheduler{}
		svc := newTestService(newFakeRuleRepo(), sched)

		_, err := svc.CreateRule(context.Background(), CreateRuleCommand{
			Name:         "escalate urgent",
			Kind:         automation.KindEvent,
			TriggerEvent: "ticket.created",
			ActionModule: "cleanup",
		})

		require.NoError(t, err)
		assert.Empty(t, sched.scheduled)
	})

	t.Run("unknown module rejected", func(t *testing.T) {
		svc := newTestService(newFakeRuleRepo(), &mockScheduler{})

		_, err := svc.CreateRule(context.Background(), CreateRuleCommand{
			Name:         "bad",
			Kind:         automation.KindScheduled,
			Cadence:      automation.CadenceHourly,
			ActionModule: "nope",
		})

		require.Error(t, err)
		appErr := errors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		svc := newTestService(newFakeRuleRepo(), &mockScheduler{})

		_, err := svc.CreateRule(context.Background(), CreateRuleCommand{
			Name:         "bad",
			Kind:         "sometimes",
			ActionModule: "cleanup",
		})

		require.Error(t, err)
	})
}

func TestService_SetRuleStatus(t *testing.T) {
	upcoming := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	rules := newFakeRuleRepo(scheduledRule(t, false))
	sched := &mockScheduler{next: &upcoming}
	svc := newTestService(rules, sched)

	got, err := svc.SetRuleStatus(context.Background(), 1, false)
	require.NoError(t, err)
	assert.Equal(t, automation.StatusInactive, got.Status)
	assert.Equal(t, []uint{1}, sched.unscheduled)
	assert.Nil(t, got.NextRunAt)

	got, err = svc.SetRuleStatus(context.Background(), 1, true)
	require.NoError(t, err)
	assert.Equal(t, automation.StatusActive, got.Status)
	assert.Equal(t, []uint{1}, sched.scheduled)
	require.NotNil(t, got.NextRunAt)
}

func TestService_DeleteRule(t *testing.T) {
	rules := newFakeRuleRepo(scheduledRule(t, false))
	sched := &mockScheduler{}
	svc := newTestService(rules, sched)

	require.NoError(t, svc.DeleteRule(context.Background(), 1))
	assert.Equal(t, []uint{1}, sched.unscheduled)

	err := svc.DeleteRule(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestService_RestoreSchedules(t *testing.T) {
	active := scheduledRule(t, false)
	inactive := scheduledRule(t, false)
	rules := newFakeRuleRepo(active, inactive)

	_, err := newTestService(rules, &mockScheduler{}).SetRuleStatus(context.Background(), inactive.ID(), false)
	require.NoError(t, err)

	upcoming := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	sched := &mockScheduler{next: &upcoming}
	svc := newTestService(rules, sched)

	require.NoError(t, svc.RestoreSchedules(context.Background()))
	assert.Equal(t, []uint{active.ID()}, sched.scheduled)

	restored, err := rules.GetByID(context.Background(), active.ID())
	require.NoError(t, err)
	require.NotNil(t, restored.NextRunAt())
	assert.Equal(t, upcoming, *restored.NextRunAt())
}
