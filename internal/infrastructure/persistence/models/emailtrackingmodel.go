package models

// EmailTrackingModel is created when an outbound email embeds a tracking
// pixel; events reference it by its UUID.
type EmailTrackingModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	Recipient string `gorm:"size:255;not null;index"`
	Subject   string `gorm:"size:255"`
	CreatedAt int64  `gorm:"not null"`
}

func (EmailTrackingModel) TableName() string {
	return "email_trackings"
}

// EmailTrackingEventModel records one open or click hit.
type EmailTrackingEventModel struct {
	ID         uint   `gorm:"primaryKey"`
	TrackingID string `gorm:"size:36;not null;index"`
	Kind       string `gorm:"size:16;not null"`
	URL        string `gorm:"size:2048"`
	IP         string `gorm:"size:64"`
	UserAgent  string `gorm:"size:512"`
	Referer    string `gorm:"size:2048"`
	CreatedAt  int64  `gorm:"not null;index"`
}

func (EmailTrackingEventModel) TableName() string {
	return "email_tracking_events"
}
