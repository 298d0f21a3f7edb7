package models

// NotificationModel is one in-app feed row; NULL UserID means broadcast.
type NotificationModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    *uint  `gorm:"index"`
	EventType string `gorm:"size:64;not null;index"`
	Message   string `gorm:"type:text;not null"`
	Metadata  string `gorm:"type:json"`
	CreatedAt int64  `gorm:"not null;index"`
	ReadAt    *int64
}

func (NotificationModel) TableName() string {
	return "notifications"
}

// NotificationEventSettingModel is one catalog row.
type NotificationEventSettingModel struct {
	ID            uint   `gorm:"primaryKey"`
	EventType     string `gorm:"size:64;not null;uniqueIndex"`
	DisplayName   string `gorm:"size:128;not null"`
	Description   string `gorm:"type:text"`
	Template      string `gorm:"type:text"`
	UserVisible   bool   `gorm:"not null;default:true"`
	Channels      string `gorm:"type:json"`
	ModuleActions string `gorm:"type:json"`
}

func (NotificationEventSettingModel) TableName() string {
	return "notification_event_settings"
}

// NotificationPreferenceModel stores a user's channel switches per event type.
type NotificationPreferenceModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_pref_user_event"`
	EventType string `gorm:"size:64;not null;uniqueIndex:idx_pref_user_event"`
	Channels  string `gorm:"type:json"`
}

func (NotificationPreferenceModel) TableName() string {
	return "notification_preferences"
}
