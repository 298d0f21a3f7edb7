package notification

import (
	"context"
	"time"

	"github.com/praxisops/praxis/internal/domain/notification"
	"github.com/praxisops/praxis/internal/shared/errors"
	"github.com/praxisops/praxis/internal/shared/utils"
)

type NotificationDTO struct {
	ID        uint           `json:"id"`
	UserID    *uint          `json:"user_id,omitempty"`
	EventType string         `json:"event_type"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt string         `json:"created_at"`
	ReadAt    *string        `json:"read_at,omitempty"`
}

type FeedResult struct {
	Items  []*NotificationDTO `json:"items"`
	Total  int64              `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

type SettingDTO struct {
	ID          uint                                   `json:"id"`
	EventType   string                                 `json:"event_type"`
	DisplayName string                                 `json:"display_name"`
	Description string                                 `json:"description,omitempty"`
	UserVisible bool                                   `json:"user_visible"`
	Channels    map[string]notification.ChannelPolicy `json:"channels"`
}

type PreferenceDTO struct {
	EventType string          `json:"event_type"`
	Channels  map[string]bool `json:"channels"`
}

// Service backs the notification feed and preference endpoints.
type Service struct {
	notifications notification.Repository
	settings      notification.SettingRepository
	preferences   notification.PreferenceRepository
}

func NewService(
	notifications notification.Repository,
	settings notification.SettingRepository,
	preferences notification.PreferenceRepository,
) *Service {
	return &Service{notifications: notifications, settings: settings, preferences: preferences}
}

// ListForUser returns the user's feed rows plus broadcasts, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uint, limit, offset int) (*FeedResult, error) {
	page := utils.ValidatePagination(limit, offset)

	rows, total, err := s.notifications.ListForUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}

	items := make([]*NotificationDTO, 0, len(rows))
	for _, n := range rows {
		items = append(items, fromNotification(n))
	}
	return &FeedResult{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

// MarkRead is scoped to the owner; marking someone else's row is NotFound.
func (s *Service) MarkRead(ctx context.Context, id, userID uint) error {
	return s.notifications.MarkRead(ctx, id, userID)
}

// ListVisibleSettings returns the catalog rows users may tune.
func (s *Service) ListVisibleSettings(ctx context.Context) ([]*SettingDTO, error) {
	settings, err := s.settings.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*SettingDTO, 0, len(settings))
	for _, setting := range settings {
		if !setting.UserVisible() {
			continue
		}
		items = append(items, &SettingDTO{
			ID:          setting.ID(),
			EventType:   setting.EventType(),
			DisplayName: setting.DisplayName(),
			Description: setting.Description(),
			UserVisible: setting.UserVisible(),
			Channels:    setting.Channels(),
		})
	}
	return items, nil
}

// ListPreferences returns the user's stored overrides.
func (s *Service) ListPreferences(ctx context.Context, userID uint) ([]*PreferenceDTO, error) {
	prefs, err := s.preferences.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]*PreferenceDTO, 0, len(prefs))
	for _, p := range prefs {
		items = append(items, &PreferenceDTO{EventType: p.EventType(), Channels: p.Channels()})
	}
	return items, nil
}

// SetPreference upserts one user's channel switches for an event type. Only
// catalog-allowed channels can be switched on.
func (s *Service) SetPreference(ctx context.Context, userID uint, eventType string, channels map[string]bool) (*PreferenceDTO, error) {
	setting, err := s.settings.GetByEventType(ctx, eventType)
	if err != nil {
		return nil, err
	}
	if !setting.UserVisible() {
		return nil, errors.NewForbiddenError("this event type is not user-configurable")
	}

	for channel, enabled := range channels {
		if enabled && !setting.ChannelAllowed(channel) {
			return nil, errors.NewValidationError("channel not allowed for this event type", channel)
		}
	}

	pref, err := notification.NewPreference(userID, eventType, channels)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.preferences.Upsert(ctx, pref); err != nil {
		return nil, err
	}

	return &PreferenceDTO{EventType: pref.EventType(), Channels: pref.Channels()}, nil
}

func fromNotification(n *notification.Notification) *NotificationDTO {
	return &NotificationDTO{
		ID:        n.ID(),
		UserID:    n.UserID(),
		EventType: n.EventType(),
		Message:   n.Message(),
		Metadata:  n.Metadata(),
		CreatedAt: n.CreatedAt().UTC().Format(time.RFC3339),
		ReadAt:    formatTimePtr(n.ReadAt()),
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
