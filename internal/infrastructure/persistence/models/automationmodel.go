package models

// AutomationRuleModel persists user-authored automations.
type AutomationRuleModel struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"size:128;not null"`
	Kind           string `gorm:"size:16;not null;index"`
	Cadence        string `gorm:"size:16"`
	CronExpression string `gorm:"size:64"`
	ScheduledTime  string `gorm:"size:32"`
	RunOnce        bool   `gorm:"not null;default:false"`
	TriggerEvent   string `gorm:"size:64;index"`
	TriggerFilters string `gorm:"type:json"`
	ActionModule   string `gorm:"size:64;not null"`
	ActionPayload  string `gorm:"type:json"`
	Status         string `gorm:"size:16;not null;index"`
	NextRunAt      *int64 `gorm:"index"`
	LastRunAt      *int64
	LastError      string `gorm:"type:text"`
	CreatedAt      int64  `gorm:"not null"`
	UpdatedAt      int64  `gorm:"not null"`
}

func (AutomationRuleModel) TableName() string {
	return "automation_rules"
}

// AutomationRunModel captures one execution of a rule.
type AutomationRunModel struct {
	ID            uint   `gorm:"primaryKey"`
	RuleID        uint   `gorm:"not null;index"`
	Status        string `gorm:"size:16;not null"`
	StartedAt     int64  `gorm:"not null;index"`
	FinishedAt    int64  `gorm:"not null"`
	DurationMs    int64  `gorm:"not null"`
	ResultPayload string `gorm:"type:json"`
	ErrorMessage  string `gorm:"type:text"`
}

func (AutomationRunModel) TableName() string {
	return "automation_runs"
}
