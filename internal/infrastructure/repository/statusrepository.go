package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/praxisops/praxis/internal/domain/ticket"
	"github.com/praxisops/praxis/internal/infrastructure/persistence/mappers"
	"github.com/praxisops/praxis/internal/infrastructure/persistence/models"
	"github.com/praxisops/praxis/internal/shared/db"
	apperrors "github.com/praxisops/praxis/internal/shared/errors"
)

type TicketStatusRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketStatusRepository(gdb *gorm.DB) *TicketStatusRepository {
	return &TicketStatusRepository{
		db:     gdb,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketStatusRepository) ListAll(ctx context.Context) ([]*ticket.StatusDefinition, error) {
	var rows []models.TicketStatusModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list ticket statuses: %w", err)
	}

	defs := make([]*ticket.StatusDefinition, 0, len(rows))
	for i := range rows {
		defs = append(defs, r.mapper.StatusToDomain(&rows[i]))
	}
	return defs, nil
}

func (r *TicketStatusRepository) GetBySlug(ctx context.Context, slug string) (*ticket.StatusDefinition, error) {
	var model models.TicketStatusModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("tech_status = ?", slug).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("ticket status not found")
		}
		return nil, fmt.Errorf("failed to find ticket status: %w", err)
	}

	return r.mapper.StatusToDomain(&model), nil
}

func (r *TicketStatusRepository) GetDefault(ctx context.Context) (*ticket.StatusDefinition, error) {
	var model models.TicketStatusModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("is_default = ?", true).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("no default ticket status configured")
		}
		return nil, fmt.Errorf("failed to find default ticket status: %w", err)
	}

	return r.mapper.StatusToDomain(&model), nil
}

func (r *TicketStatusRepository) Save(ctx context.Context, def *ticket.StatusDefinition) error {
	model := r.mapper.StatusToModel(def)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		if isDuplicateKey(err) {
			return apperrors.NewConflictError("ticket status slug already exists")
		}
		return fmt.Errorf("failed to save ticket status: %w", err)
	}

	def.SetID(model.ID)
	return nil
}

func (r *TicketStatusRepository) Update(ctx context.Context, def *ticket.StatusDefinition) error {
	model := r.mapper.StatusToModel(def)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.TicketStatusModel{}).
		Where("id = ?", model.ID).
		Select("*").
		Omit("id").
		Updates(model)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return apperrors.NewConflictError("ticket status slug already exists")
		}
		return fmt.Errorf("failed to update ticket status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("ticket status not found")
	}

	return nil
}

func (r *TicketStatusRepository) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Delete(&models.TicketStatusModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete ticket status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("ticket status not found")
	}

	return nil
}
