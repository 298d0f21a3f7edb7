package database

import (
	"gorm.io/gorm"

	"github.com/praxisops/praxis/internal/infrastructure/persistence/models"
)

// AutoMigrate creates or updates every table the portal persists to.
func AutoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.UserModel{},
		&models.MembershipModel{},
		&models.TicketModel{},
		&models.ReplyModel{},
		&models.WatcherModel{},
		&models.TicketStatusModel{},
		&models.AutomationRuleModel{},
		&models.AutomationRunModel{},
		&models.NotificationModel{},
		&models.NotificationEventSettingModel{},
		&models.NotificationPreferenceModel{},
		&models.EmailTrackingModel{},
		&models.EmailTrackingEventModel{},
		&models.AuditLogModel{},
	)
}
