package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/praxisops/praxis/internal/domain/tracking"
	"github.com/praxisops/praxis/internal/infrastructure/persistence/models"
	"github.com/praxisops/praxis/internal/shared/db"
	apperrors "github.com/praxisops/praxis/internal/shared/errors"
)

type EmailTrackingRepository struct {
	db *gorm.DB
}

func NewEmailTrackingRepository(gdb *gorm.DB) *EmailTrackingRepository {
	return &EmailTrackingRepository{db: gdb}
}

func (r *EmailTrackingRepository) Save(ctx context.Context, t *tracking.Tracking) error {
	model := &models.EmailTrackingModel{
		ID:        t.ID(),
		Recipient: t.Recipient(),
		Subject:   t.Subject(),
		CreatedAt: t.CreatedAt().UnixMilli(),
	}
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save email tracking: %w", err)
	}

	return nil
}

func (r *EmailTrackingRepository) GetByID(ctx context.Context, id string) (*tracking.Tracking, error) {
	var model models.EmailTrackingModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("email tracking not found")
		}
		return nil, fmt.Errorf("failed to find email tracking: %w", err)
	}

	return tracking.ReconstructTracking(
		model.ID,
		model.Recipient,
		model.Subject,
		time.UnixMilli(model.CreatedAt).UTC(),
	), nil
}

func (r *EmailTrackingRepository) SaveEvent(ctx context.Context, e *tracking.Event) error {
	model := &models.EmailTrackingEventModel{
		TrackingID: e.TrackingID(),
		Kind:       e.Kind(),
		URL:        e.URL(),
		IP:         e.IP(),
		UserAgent:  e.UserAgent(),
		Referer:    e.Referer(),
		CreatedAt:  e.CreatedAt().UnixMilli(),
	}
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save tracking event: %w", err)
	}

	e.SetID(model.ID)
	return nil
}

func (r *EmailTrackingRepository) ListEvents(ctx context.Context, trackingID string, limit int) ([]*tracking.Event, error) {
	tx := db.GetTxFromContext(ctx, r.db).
		Where("tracking_id = ?", trackingID).
		Order("created_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var rows []models.EmailTrackingEventModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tracking events: %w", err)
	}

	events := make([]*tracking.Event, 0, len(rows))
	for i := range rows {
		m := &rows[i]
		events = append(events, tracking.ReconstructEvent(
			m.ID,
			m.TrackingID,
			m.Kind,
			m.URL,
			m.IP,
			m.UserAgent,
			m.Referer,
			time.UnixMilli(m.CreatedAt).UTC(),
		))
	}
	return events, nil
}
