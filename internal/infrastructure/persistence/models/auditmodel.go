package models

// AuditLogModel is append-only; previous/new values are opaque JSON text.
type AuditLogModel struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        *uint  `gorm:"index"`
	Action        string `gorm:"size:128;not null;index"`
	EntityType    string `gorm:"size:64;index:idx_audit_entity"`
	EntityID      string `gorm:"size:64;index:idx_audit_entity"`
	PreviousValue string `gorm:"type:json"`
	NewValue      string `gorm:"type:json"`
	Metadata      string `gorm:"type:json"`
	APIKey        string `gorm:"size:128"`
	IP            string `gorm:"size:64"`
	CreatedAt     int64  `gorm:"not null;index"`
}

func (AuditLogModel) TableName() string {
	return "audit_log_entries"
}
