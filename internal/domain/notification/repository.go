package notification

import "context"

// Repository persists in-app notifications.
type Repository interface {
	Save(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id uint) (*Notification, error)
	// ListForUser returns the user's rows plus broadcasts, newest first.
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]*Notification, int64, error)
	MarkRead(ctx context.Context, id uint, userID uint) error
}

// SettingRepository persists the event catalog.
type SettingRepository interface {
	GetByEventType(ctx context.Context, eventType string) (*EventSetting, error)
	List(ctx context.Context) ([]*EventSetting, error)
	Save(ctx context.Context, s *EventSetting) error
	Update(ctx context.Context, s *EventSetting) error
}

// PreferenceRepository persists per-user channel switches.
type PreferenceRepository interface {
	Get(ctx context.Context, userID uint, eventType string) (*Preference, error)
	ListForUser(ctx context.Context, userID uint) ([]*Preference, error)
	Upsert(ctx context.Context, p *Preference) error
}
