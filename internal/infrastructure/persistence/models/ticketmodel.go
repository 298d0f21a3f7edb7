package models

// TicketModel is the persistence shape of a ticket. Timestamps are Unix
// milliseconds; the mapper converts to UTC time.Time at the boundary.
type TicketModel struct {
	ID                uint    `gorm:"primaryKey"`
	Subject           string  `gorm:"size:255;not null"`
	Description       string  `gorm:"type:text"`
	Status            string  `gorm:"size:64;not null;index"`
	Priority          string  `gorm:"size:32;not null;index"`
	Category          string  `gorm:"size:64;index"`
	ModuleSlug        string  `gorm:"size:64;index"`
	ExternalProvider  string  `gorm:"size:64;uniqueIndex:idx_tickets_external_ref"`
	ExternalReference string  `gorm:"size:128;uniqueIndex:idx_tickets_external_ref"`
	CompanyID         *uint   `gorm:"index"`
	RequesterID       uint    `gorm:"not null;index"`
	AssignedUserID    *uint   `gorm:"index"`
	AISummary         string  `gorm:"type:text"`
	AISummaryStatus   string  `gorm:"size:32"`
	AITags            string  `gorm:"type:json"`
	AITaggedAt        *int64
	CreatedAt         int64   `gorm:"not null"`
	UpdatedAt         int64   `gorm:"not null"`
	ClosedAt          *int64

	// No gorm associations; relationships are managed by application logic.
}

func (TicketModel) TableName() string {
	return "tickets"
}

// ReplyModel rows are cascade-deleted with their parent ticket.
type ReplyModel struct {
	ID         uint   `gorm:"primaryKey"`
	TicketID   uint   `gorm:"not null;index"`
	AuthorID   *uint  `gorm:"index"`
	Body       string `gorm:"type:text;not null"`
	IsInternal bool   `gorm:"not null;default:false"`
	CreatedAt  int64  `gorm:"not null;index"`
}

func (ReplyModel) TableName() string {
	return "ticket_replies"
}

// WatcherModel enforces the (ticket, user) uniqueness the store relies on
// for idempotent adds.
type WatcherModel struct {
	ID        uint  `gorm:"primaryKey"`
	TicketID  uint  `gorm:"not null;uniqueIndex:idx_watchers_ticket_user"`
	UserID    uint  `gorm:"not null;uniqueIndex:idx_watchers_ticket_user"`
	CreatedAt int64 `gorm:"not null;index"`
}

func (WatcherModel) TableName() string {
	return "ticket_watchers"
}

// TicketStatusModel is one status catalog row.
type TicketStatusModel struct {
	ID           uint   `gorm:"primaryKey"`
	TechStatus   string `gorm:"size:64;not null;uniqueIndex"`
	TechLabel    string `gorm:"size:128;not null"`
	PublicStatus string `gorm:"size:128;not null"`
	IsDefault    bool   `gorm:"not null;default:false"`
}

func (TicketStatusModel) TableName() string {
	return "ticket_statuses"
}
