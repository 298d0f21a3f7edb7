package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/praxisops/praxis/internal/domain/audit"
	"github.com/praxisops/praxis/internal/infrastructure/persistence/models"
	"github.com/praxisops/praxis/internal/shared/db"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(gdb *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: gdb}
}

func (r *AuditLogRepository) Save(ctx context.Context, e *audit.Entry) error {
	model := &models.AuditLogModel{
		UserID:        e.UserID(),
		Action:        e.Action(),
		EntityType:    e.EntityType(),
		EntityID:      e.EntityID(),
		PreviousValue: e.PreviousValue(),
		NewValue:      e.NewValue(),
		Metadata:      e.Metadata(),
		APIKey:        e.APIKey(),
		IP:            e.IP(),
		CreatedAt:     e.CreatedAt().UnixMilli(),
	}
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save audit entry: %w", err)
	}

	e.SetID(model.ID)
	return nil
}

func (r *AuditLogRepository) ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]*audit.Entry, error) {
	tx := db.GetTxFromContext(ctx, r.db).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var rows []models.AuditLogModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	entries := make([]*audit.Entry, 0, len(rows))
	for i := range rows {
		m := &rows[i]
		entries = append(entries, audit.ReconstructEntry(
			m.ID,
			m.UserID,
			m.Action,
			m.EntityType,
			m.EntityID,
			m.PreviousValue,
			m.NewValue,
			m.Metadata,
			m.APIKey,
			m.IP,
			time.UnixMilli(m.CreatedAt).UTC(),
		))
	}
	return entries, nil
}
