package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appautomation "github.com/praxisops/praxis/internal/application/automation"
	"github.com/praxisops/praxis/internal/domain/notification"
	"github.com/praxisops/praxis/internal/domain/shared/events"
	"github.com/praxisops/praxis/internal/domain/ticket"
	"github.com/praxisops/praxis/internal/domain/user"
	"github.com/praxisops/praxis/internal/infrastructure/cache"
	"github.com/praxisops/praxis/internal/shared/logger"
)

func ticketCreatedSetting(t *testing.T, actions ...notification.ModuleAction) *notification.EventSetting {
	t.Helper()
	setting, err := notification.NewEventSetting(
		"ticket.created", "New ticket", "", "New ticket: {{subject}}", true,
		map[string]notification.ChannelPolicy{
			notification.ChannelInApp: {Allowed: true, DefaultEnabled: true},
			notification.ChannelEmail: {Allowed: true, DefaultEnabled: true},
			notification.ChannelSMS:   {Allowed: true, DefaultEnabled: false},
		},
		actions,
	)
	require.NoError(t, err)
	return setting
}

func testUser(t *testing.T, id uint, email, phone string) *user.User {
	t.Helper()
	now := time.Now().UTC()
	return user.ReconstructUser(id, email, "User", "", false, false, phone, now, now)
}

type dispatcherFixture struct {
	dispatcher    *Dispatcher
	notifications *fakeNotificationRepo
	email         *recordingEmailSender
	sms           *recordingSMSSender
	prefs         *fakePreferenceRepo
	users         *fakeUserRepo
	registry      *appautomation.Registry
}

func newDispatcherFixture(t *testing.T, setting *notification.EventSetting, watchers map[uint][]*ticket.Watcher, users *fakeUserRepo) *dispatcherFixture {
	t.Helper()

	f := &dispatcherFixture{
		notifications: newFakeNotificationRepo(),
		email:         &recordingEmailSender{},
		sms:           &recordingSMSSender{},
		prefs:         newFakePreferenceRepo(),
		users:         users,
		registry:      appautomation.NewRegistry(),
	}

	f.dispatcher = NewDispatcher(
		newFakeSettingRepo(setting),
		f.prefs,
		f.notifications,
		f.users,
		&watcherOnlyTicketRepo{watchers: watchers},
		f.email,
		f.sms,
		cache.NewMemoryNotificationDeduplicator(),
		f.registry,
		logger.NewLogger(),
		time.Minute,
	)
	return f
}

func ticketEvent(payload map[string]any) events.Event {
	return events.Event{
		EventType:  "ticket.created",
		EntityType: "ticket",
		EntityID:   "42",
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

func TestDispatcher_Handle(t *testing.T) {
	t.Run("delivers union of watchers requester assignee and admins", func(t *testing.T) {
		users := newFakeUserRepo(
			testUser(t, 1, "watcher@example.com", ""),
			testUser(t, 2, "requester@example.com", ""),
			testUser(t, 3, "tech@example.com", ""),
			testUser(t, 4, "admin@example.com", ""),
		)
		users.admins[9] = []uint{4}

		watchers := map[uint][]*ticket.Watcher{
			42: {ticket.ReconstructWatcher(42, 1, time.Now().UTC())},
		}

		f := newDispatcherFixture(t, ticketCreatedSetting(t), watchers, users)

		err := f.dispatcher.Handle(ticketEvent(map[string]any{
			"ticket_id":        uint(42),
			"subject":          "Printer offline",
			"requester_id":     uint(2),
			"assigned_user_id": uint(3),
			"company_id":       uint(9),
		}))
		require.NoError(t, err)

		rows := f.notifications.all()
		require.Len(t, rows, 4)
		gotUsers := make(map[uint]bool)
		for _, n := range rows {
			require.NotNil(t, n.UserID())
			gotUsers[*n.UserID()] = true
			assert.Equal(t, "New ticket: Printer offline", n.Message())
		}
		assert.Equal(t, map[uint]bool{1: true, 2: true, 3: true, 4: true}, gotUsers)

		// Email default-enabled for everyone; SMS default-disabled.
		assert.Len(t, f.email.sent, 4)
		assert.Empty(t, f.sms.sent)
	})

	t.Run("recipient appearing in several roles notified once", func(t *testing.T) {
		users := newFakeUserRepo(testUser(t, 2, "requester@example.com", ""))
		watchers := map[uint][]*ticket.Watcher{
			42: {ticket.ReconstructWatcher(42, 2, time.Now().UTC())},
		}

		f := newDispatcherFixture(t, ticketCreatedSetting(t), watchers, users)

		err := f.dispatcher.Handle(ticketEvent(map[string]any{
			"ticket_id":    uint(42),
			"subject":      "Printer offline",
			"requester_id": uint(2),
		}))
		require.NoError(t, err)
		assert.Len(t, f.notifications.all(), 1)
	})

	t.Run("preference opt-out suppresses a channel", func(t *testing.T) {
		users := newFakeUserRepo(testUser(t, 2, "requester@example.com", ""))
		f := newDispatcherFixture(t, ticketCreatedSetting(t), nil, users)

		pref, err := notification.NewPreference(2, "ticket.created", map[string]bool{
			notification.ChannelEmail: false,
		})
		require.NoError(t, err)
		require.NoError(t, f.prefs.Upsert(context.Background(), pref))

		err = f.dispatcher.Handle(ticketEvent(map[string]any{
			"ticket_id":    uint(42),
			"subject":      "Printer offline",
			"requester_id": uint(2),
		}))
		require.NoError(t, err)

		assert.Len(t, f.notifications.all(), 1, "in-app still follows its default")
		assert.Empty(t, f.email.sent)
	})

	t.Run("duplicate event within window suppressed", func(t *testing.T) {
		users := newFakeUserRepo(testUser(t, 2, "requester@example.com", ""))
		f := newDispatcherFixture(t, ticketCreatedSetting(t), nil, users)

		payload := map[string]any{
			"ticket_id":    uint(42),
			"subject":      "Printer offline",
			"requester_id": uint(2),
		}
		require.NoError(t, f.dispatcher.Handle(ticketEvent(payload)))
		require.NoError(t, f.dispatcher.Handle(ticketEvent(payload)))

		assert.Len(t, f.notifications.all(), 1)
		assert.Len(t, f.email.sent, 1)
	})

	t.Run("event without catalog entry ignored", func(t *testing.T) {
		users := newFakeUserRepo(testUser(t, 2, "requester@example.com", ""))
		f := newDispatcherFixture(t, ticketCreatedSetting(t), nil, users)

		err := f.dispatcher.Handle(events.Event{
			EventType:  "ticket.reply_added",
			EntityType: "ticket",
			EntityID:   "42",
			Payload:    map[string]any{"ticket_id": uint(42), "requester_id": uint(2)},
			OccurredAt: time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.Empty(t, f.notifications.all())
	})

	t.Run("non-ticket event writes one broadcast row", func(t *testing.T) {
		setting, err := notification.NewEventSetting(
			"system.maintenance", "Maintenance", "", "Maintenance window: {{window}}", true,
			map[string]notification.ChannelPolicy{
				notification.ChannelInApp: {Allowed: true, DefaultEnabled: true},
			},
			nil,
		)
		require.NoError(t, err)

		f := newDispatcherFixture(t, setting, nil, newFakeUserRepo())

		err = f.dispatcher.Handle(events.Event{
			EventType:  "system.maintenance",
			EntityType: "system",
			EntityID:   "maintenance",
			Payload:    map[string]any{"window": "saturday"},
			OccurredAt: time.Now().UTC(),
		})
		require.NoError(t, err)

		rows := f.notifications.all()
		require.Len(t, rows, 1)
		assert.Nil(t, rows[0].UserID())
		assert.Equal(t, "Maintenance window: saturday", rows[0].Message())
	})

	t.Run("module actions fire through the registry", func(t *testing.T) {
		setting := ticketCreatedSetting(t, notification.ModuleAction{
			Module:  "webhooks",
			Payload: map[string]any{"target": "psa"},
		})
		users := newFakeUserRepo(testUser(t, 2, "requester@example.com", ""))
		f := newDispatcherFixture(t, setting, nil, users)

		var gotPayload map[string]any
		f.registry.Register("webhooks", appautomation.ModuleHandlerFunc(func(ctx context.Context, payload map[string]any) (map[string]any, error) {
			gotPayload = payload
			return nil, nil
		}))

		err := f.dispatcher.Handle(ticketEvent(map[string]any{
			"ticket_id":    uint(42),
			"subject":      "Printer offline",
			"requester_id": uint(2),
		}))
		require.NoError(t, err)

		require.NotNil(t, gotPayload)
		assert.Equal(t, "psa", gotPayload["target"])
		event, ok := gotPayload["event"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Printer offline", event["subject"])
	})

	t.Run("email failure does not block sms or other recipients", func(t *testing.T) {
		setting, err := notification.NewEventSetting(
			"ticket.created", "New ticket", "", "{{subject}}", true,
			map[string]notification.ChannelPolicy{
				notification.ChannelEmail: {Allowed: true, DefaultEnabled: true},
				notification.ChannelSMS:   {Allowed: true, DefaultEnabled: true},
			},
			nil,
		)
		require.NoError(t, err)

		users := newFakeUserRepo(
			testUser(t, 2, "requester@example.com", "+15550001111"),
			testUser(t, 3, "tech@example.com", ""),
		)
		f := newDispatcherFixture(t, setting, nil, users)
		f.email.err = assert.AnError

		err = f.dispatcher.Handle(ticketEvent(map[string]any{
			"ticket_id":        uint(42),
			"subject":          "Printer offline",
			"requester_id":     uint(2),
			"assigned_user_id": uint(3),
		}))
		require.NoError(t, err)

		assert.Equal(t, []string{"+15550001111"}, f.sms.sent)
	})
}
