package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/praxisops/praxis/internal/domain/notification"
	"github.com/praxisops/praxis/internal/infrastructure/persistence/mappers"
	"github.com/praxisops/praxis/internal/infrastructure/persistence/models"
	"github.com/praxisops/praxis/internal/shared/db"
	apperrors "github.com/praxisops/praxis/internal/shared/errors"
	"github.com/praxisops/praxis/internal/shared/utils"
)

type NotificationRepository struct {
	db     *gorm.DB
	mapper mappers.NotificationMapper
}

func NewNotificationRepository(gdb *gorm.DB) *NotificationRepository {
	return &NotificationRepository{
		db:     gdb,
		mapper: mappers.NewNotificationMapper(),
	}
}

func (r *NotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	model := r.mapper.ToModel(n)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}

	n.SetID(model.ID)
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uint) (*notification.Notification, error) {
	var model models.NotificationModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("notification not found")
		}
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]*notification.Notification, int64, error) {
	base := db.GetTxFromContext(ctx, r.db).
		Model(&models.NotificationModel{}).
		Where("user_id = ? OR user_id IS NULL", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	if limit <= 0 {
		limit = utils.DefaultLimit
	}

	var rows []models.NotificationModel
	if err := base.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	notifications := make([]*notification.Notification, 0, len(rows))
	for i := range rows {
		n, err := r.mapper.ToDomain(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, n)
	}

	return notifications, total, nil
}

// MarkRead is scoped to the user so one user cannot consume another's rows;
// broadcasts stay unread for everyone.
func (r *NotificationRepository) MarkRead(ctx context.Context, id uint, userID uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.NotificationModel{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, userID).
		Update("read_at", time.Now().UnixMilli())
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}

	return nil
}

type NotificationSettingRepository struct {
	db     *gorm.DB
	mapper mappers.NotificationMapper
}

func NewNotificationSettingRepository(gdb *gorm.DB) *NotificationSettingRepository {
	return &NotificationSettingRepository{
		db:     gdb,
		mapper: mappers.NewNotificationMapper(),
	}
}

func (r *NotificationSettingRepository) GetByEventType(ctx context.Context, eventType string) (*notification.EventSetting, error) {
	var model models.NotificationEventSettingModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("event_type = ?", eventType).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("notification event setting not found")
		}
		return nil, fmt.Errorf("failed to find notification event setting: %w", err)
	}

	return r.mapper.SettingToDomain(&model)
}

func (r *NotificationSettingRepository) List(ctx context.Context) ([]*notification.EventSetting, error) {
	var rows []models.NotificationEventSettingModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Order("event_type ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list notification event settings: %w", err)
	}

	settings := make([]*notification.EventSetting, 0, len(rows))
	for i := range rows {
		s, err := r.mapper.SettingToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, nil
}

func (r *NotificationSettingRepository) Save(ctx context.Context, s *notification.EventSetting) error {
	model := r.mapper.SettingToModel(s)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		if isDuplicateKey(err) {
			return apperrors.NewConflictError("notification event setting already exists")
		}
		return fmt.Errorf("failed to save notification event setting: %w", err)
	}

	s.SetID(model.ID)
	return nil
}

func (r *NotificationSettingRepository) Update(ctx context.Context, s *notification.EventSetting) error {
	model := r.mapper.SettingToModel(s)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.NotificationEventSettingModel{}).
		Where("id = ?", model.ID).
		Select("*").
		Omit("id").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update notification event setting: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("notification event setting not found")
	}

	return nil
}

type NotificationPreferenceRepository struct {
	db     *gorm.DB
	mapper mappers.NotificationMapper
}

func NewNotificationPreferenceRepository(gdb *gorm.DB) *NotificationPreferenceRepository {
	return &NotificationPreferenceRepository{
		db:     gdb,
		mapper: mappers.NewNotificationMapper(),
	}
}

func (r *NotificationPreferenceRepository) Get(ctx context.Context, userID uint, eventType string) (*notification.Preference, error) {
	var model models.NotificationPreferenceModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("user_id = ? AND event_type = ?", userID, eventType).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("notification preference not found")
		}
		return nil, fmt.Errorf("failed to find notification preference: %w", err)
	}

	return r.mapper.PreferenceToDomain(&model)
}

func (r *NotificationPreferenceRepository) ListForUser(ctx context.Context, userID uint) ([]*notification.Preference, error) {
	var rows []models.NotificationPreferenceModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list notification preferences: %w", err)
	}

	prefs := make([]*notification.Preference, 0, len(rows))
	for i := range rows {
		p, err := r.mapper.PreferenceToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		prefs = append(prefs, p)
	}
	return prefs, nil
}

func (r *NotificationPreferenceRepository) Upsert(ctx context.Context, p *notification.Preference) error {
	model := r.mapper.PreferenceToModel(p)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"channels"}),
	}).Create(model).Error; err != nil {
		return fmt.Errorf("failed to upsert notification preference: %w", err)
	}

	return nil
}
