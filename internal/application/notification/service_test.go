package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisops/praxis/internal/domain/notification"
	"github.com/praxisops/praxis/internal/shared/errors"
)

func seedFeed(t *testing.T, repo *fakeNotificationRepo, userID *uint, eventType string) *notification.Notification {
	t.Helper()
	n, err := notification.NewNotification(userID, eventType, "message", nil, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), n))
	return n
}

func TestService_ListForUser(t *testing.T) {
	repo := newFakeNotificationRepo()
	me := uint(2)
	other := uint(3)
	seedFeed(t, repo, &me, "ticket.created")
	seedFeed(t, repo, nil, "system.maintenance")
	seedFeed(t, repo, &other, "ticket.created")

	svc := NewService(repo, newFakeSettingRepo(), newFakePreferenceRepo())

	got, err := svc.ListForUser(context.Background(), me, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Total)
	require.Len(t, got.Items, 2, "own rows plus broadcasts")
}

func TestService_MarkRead(t *testing.T) {
	repo := newFakeNotificationRepo()
	me := uint(2)
	other := uint(3)
	mine := seedFeed(t, repo, &me, "ticket.created")
	theirs := seedFeed(t, repo, &other, "ticket.created")

	svc := NewService(repo, newFakeSettingRepo(), newFakePreferenceRepo())

	require.NoError(t, svc.MarkRead(context.Background(), mine.ID(), me))
	assert.NotNil(t, mine.ReadAt())

	err := svc.MarkRead(context.Background(), theirs.ID(), me)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err), "marking someone else's row reads as missing")
}

func TestService_SetPreference(t *testing.T) {
	setting, err := notification.NewEventSetting(
		"ticket.created", "New ticket", "", "", true,
		map[string]notification.ChannelPolicy{
			notification.ChannelInApp: {Allowed: true, DefaultEnabled: true},
			notification.ChannelEmail: {Allowed: false},
		},
		nil,
	)
	require.NoError(t, err)

	svc := NewService(newFakeNotificationRepo(), newFakeSettingRepo(setting), newFakePreferenceRepo())

	t.Run("stores allowed switches", func(t *testing.T) {
		got, err := svc.SetPreference(context.Background(), 2, "ticket.created", map[string]bool{
			notification.ChannelInApp: false,
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{notification.ChannelInApp: false}, got.Channels)
	})

	t.Run("rejects enabling a disallowed channel", func(t *testing.T) {
		_, err := svc.SetPreference(context.Background(), 2, "ticket.created", map[string]bool{
			notification.ChannelEmail: true,
		})
		require.Error(t, err)
		appErr := errors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	})

	t.Run("unknown event type", func(t *testing.T) {
		_, err := svc.SetPreference(context.Background(), 2, "nope", nil)
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})
}
