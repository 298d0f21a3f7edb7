package notification

import (
	"context"
	"strconv"
	"time"

	appautomation "github.com/praxisops/praxis/internal/application/automation"
	"github.com/praxisops/praxis/internal/domain/notification"
	"github.com/praxisops/praxis/internal/domain/shared/events"
	"github.com/praxisops/praxis/internal/domain/ticket"
	"github.com/praxisops/praxis/internal/domain/user"
	"github.com/praxisops/praxis/internal/infrastructure/cache"
	"github.com/praxisops/praxis/internal/shared/errors"
	"github.com/praxisops/praxis/internal/shared/logger"
)

// EmailSender is the slice of the email adapter the dispatcher needs.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody, plainBody string) (string, error)
}

// SMSSender sends one text message.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

const moduleActionTimeout = 30 * time.Second

// Dispatcher subscribes to the wildcard event type. For every event with a
// catalog entry it renders the template, resolves recipients, and delivers
// per channel where the catalog allows and the user has not opted out. One
// recipient's failure never blocks the others.
type Dispatcher struct {
	settings      notification.SettingRepository
	preferences   notification.PreferenceRepository
	notifications notification.Repository
	users         user.Repository
	tickets       ticket.Repository
	email         EmailSender
	sms           SMSSender
	dedup         cache.NotificationDeduplicator
	registry      *appautomation.Registry
	logger        logger.Interface
	dedupWindow   time.Duration
}

func NewDispatcher(
	settings notification.SettingRepository,
	preferences notification.PreferenceRepository,
	notifications notification.Repository,
	users user.Repository,
	tickets ticket.Repository,
	email EmailSender,
	sms SMSSender,
	dedup cache.NotificationDeduplicator,
	registry *appautomation.Registry,
	log logger.Interface,
	dedupWindow time.Duration,
) *Dispatcher {
	if dedupWindow <= 0 {
		dedupWindow = cache.DefaultDedupWindow
	}
	return &Dispatcher{
		settings:      settings,
		preferences:   preferences,
		notifications: notifications,
		users:         users,
		tickets:       tickets,
		email:         email,
		sms:           sms,
		dedup:         dedup,
		registry:      registry,
		logger:        log,
		dedupWindow:   dedupWindow,
	}
}

// Register subscribes the dispatcher on the bus.
func (d *Dispatcher) Register(subscriber events.Subscriber) error {
	return subscriber.Subscribe("*", d)
}

func (d *Dispatcher) Name() string { return "notification-dispatcher" }

// Handle implements events.Handler. Events without a catalog entry are
// ignored.
func (d *Dispatcher) Handle(event events.Event) error {
	ctx := context.Background()

	setting, err := d.settings.GetByEventType(ctx, event.EventType)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return err
	}

	message := RenderTemplate(setting.Template(), event.Payload)
	if message == "" {
		message = setting.DisplayName()
	}

	recipients := d.resolveRecipients(ctx, event)
	if len(recipients) == 0 {
		d.deliverBroadcast(ctx, setting, event, message)
	} else {
		for _, userID := range recipients {
			d.deliverToUser(ctx, setting, event, userID, message)
		}
	}

	d.fireModuleActions(ctx, setting, event)
	return nil
}

// resolveRecipients gathers watchers, the requester, the assignee, and the
// company admins for ticket events. Non-ticket events have no targeted
// recipients and fall back to a broadcast row.
func (d *Dispatcher) resolveRecipients(ctx context.Context, event events.Event) []uint {
	if event.EntityType != "ticket" {
		return nil
	}

	ticketID := payloadUint(event.Payload, "ticket_id")
	if ticketID == 0 {
		return nil
	}

	seen := make(map[uint]struct{})
	var out []uint
	add := func(id uint) {
		if id == 0 {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	watchers, err := d.tickets.ListWatchers(ctx, ticketID)
	if err != nil {
		d.logger.Warnw("failed to list watchers for notification", "ticket_id", ticketID, "error", err)
	}
	for _, w := range watchers {
		add(w.UserID())
	}

	add(payloadUint(event.Payload, "requester_id"))
	add(payloadUint(event.Payload, "assigned_user_id"))

	if companyID := payloadUint(event.Payload, "company_id"); companyID != 0 {
		admins, err := d.users.ListCompanyAdmins(ctx, companyID)
		if err != nil {
			d.logger.Warnw("failed to list company admins for notification", "company_id", companyID, "error", err)
		}
		for _, id := range admins {
			add(id)
		}
	}

	return out
}

// deliverBroadcast writes a single nil-user feed row.
func (d *Dispatcher) deliverBroadcast(ctx context.Context, setting *notification.EventSetting, event events.Event, message string) {
	if !setting.ChannelAllowed(notification.ChannelInApp) {
		return
	}

	ok, err := d.dedup.TryAcquire(ctx, event.EventType, event.EntityType, event.EntityID, 0, d.dedupWindow)
	if err != nil {
		d.logger.Warnw("notification dedup check failed", "event_type", event.EventType, "error", err)
	} else if !ok {
		return
	}

	n, err := notification.NewNotification(nil, event.EventType, message, event.Payload, time.Now().UTC())
	if err != nil {
		d.logger.Errorw("failed to build broadcast notification", "event_type", event.EventType, "error", err)
		return
	}
	if err := d.notifications.Save(ctx, n); err != nil {
		d.logger.Errorw("failed to save broadcast notification", "event_type", event.EventType, "error", err)
	}
}

func (d *Dispatcher) deliverToUser(ctx context.Context, setting *notification.EventSetting, event events.Event, userID uint, message string) {
	ok, err := d.dedup.TryAcquire(ctx, event.EventType, event.EntityType, event.EntityID, userID, d.dedupWindow)
	if err != nil {
		d.logger.Warnw("notification dedup check failed", "event_type", event.EventType, "user_id", userID, "error", err)
	} else if !ok {
		d.logger.Debugw("duplicate notification suppressed", "event_type", event.EventType, "user_id", userID)
		return
	}

	if d.channelEnabled(ctx, setting, userID, notification.ChannelInApp) {
		uid := userID
		n, err := notification.NewNotification(&uid, event.EventType, message, event.Payload, time.Now().UTC())
		if err == nil {
			err = d.notifications.Save(ctx, n)
		}
		if err != nil {
			d.logger.Errorw("failed to save notification", "event_type", event.EventType, "user_id", userID, "error", err)
		}
	}

	needsContact := d.channelEnabled(ctx, setting, userID, notification.ChannelEmail) ||
		d.channelEnabled(ctx, setting, userID, notification.ChannelSMS)
	if !needsContact {
		return
	}

	recipient, err := d.users.GetByID(ctx, userID)
	if err != nil {
		d.logger.Warnw("notification recipient lookup failed", "user_id", userID, "error", err)
		return
	}

	if d.channelEnabled(ctx, setting, userID, notification.ChannelEmail) && recipient.Email() != "" {
		if _, err := d.email.Send(ctx, recipient.Email(), setting.DisplayName(), message, message); err != nil {
			d.logger.Warnw("notification email failed", "event_type", event.EventType, "user_id", userID, "error", err)
		}
	}

	if d.channelEnabled(ctx, setting, userID, notification.ChannelSMS) && recipient.Phone() != "" {
		if err := d.sms.Send(ctx, recipient.Phone(), message); err != nil {
			d.logger.Warnw("notification sms failed", "event_type", event.EventType, "user_id", userID, "error", err)
		}
	}
}

// channelEnabled applies the catalog gate first, then the user's stored
// preference, then the catalog default.
func (d *Dispatcher) channelEnabled(ctx context.Context, setting *notification.EventSetting, userID uint, channel string) bool {
	if !setting.ChannelAllowed(channel) {
		return false
	}

	pref, err := d.preferences.Get(ctx, userID, setting.EventType())
	if err != nil {
		if !errors.IsNotFound(err) {
			d.logger.Warnw("preference lookup failed", "user_id", userID, "event_type", setting.EventType(), "error", err)
		}
		return setting.DefaultEnabled(channel)
	}

	if enabled, stored := pref.Enabled(channel); stored {
		return enabled
	}
	return setting.DefaultEnabled(channel)
}

func (d *Dispatcher) fireModuleActions(ctx context.Context, setting *notification.EventSetting, event events.Event) {
	for _, action := range setting.ModuleActions() {
		handler, ok := d.registry.Get(action.Module)
		if !ok {
			d.logger.Warnw("notification module action has no handler", "module", action.Module, "event_type", event.EventType)
			continue
		}

		payload := make(map[string]any, len(action.Payload)+1)
		for k, v := range action.Payload {
			payload[k] = v
		}
		payload["event"] = event.Payload

		actionCtx, cancel := context.WithTimeout(ctx, moduleActionTimeout)
		if _, err := handler.Execute(actionCtx, payload); err != nil {
			d.logger.Warnw("notification module action failed", "module", action.Module, "event_type", event.EventType, "error", err)
		}
		cancel()
	}
}

func payloadUint(payload map[string]any, key string) uint {
	v, ok := payload[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case uint:
		return n
	case uint64:
		return uint(n)
	case int:
		if n > 0 {
			return uint(n)
		}
	case int64:
		if n > 0 {
			return uint(n)
		}
	case float64:
		if n > 0 {
			return uint(n)
		}
	case string:
		if parsed, err := strconv.ParseUint(n, 10, 64); err == nil {
			return uint(parsed)
		}
	}
	return 0
}
