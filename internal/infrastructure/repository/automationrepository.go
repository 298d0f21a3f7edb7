package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/praxisops/praxis/internal/domain/automation"
	"github.com/praxisops/praxis/internal/infrastructure/persistence/mappers"
	"github.com/praxisops/praxis/internal/infrastructure/persistence/models"
	"github.com/praxisops/praxis/internal/shared/db"
	apperrors "github.com/praxisops/praxis/internal/shared/errors"
)

type AutomationRuleRepository struct {
	db     *gorm.DB
	mapper mappers.AutomationMapper
}

func NewAutomationRuleRepository(gdb *gorm.DB) *AutomationRuleRepository {
	return &AutomationRuleRepository{
		db:     gdb,
		mapper: mappers.NewAutomationMapper(),
	}
}

func (r *AutomationRuleRepository) Save(ctx context.Context, rule *automation.Rule) error {
	model := r.mapper.RuleToModel(rule)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save automation rule: %w", err)
	}

	return rule.SetID(model.ID)
}

func (r *AutomationRuleRepository) Update(ctx context.Context, rule *automation.Rule) error {
	model := r.mapper.RuleToModel(rule)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.AutomationRuleModel{}).
		Where("id = ?", model.ID).
		Select("*").
		Omit("id").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update automation rule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("automation rule not found")
	}

	return nil
}

func (r *AutomationRuleRepository) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Delete(&models.AutomationRuleModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete automation rule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("automation rule not found")
	}

	return nil
}

func (r *AutomationRuleRepository) GetByID(ctx context.Context, id uint) (*automation.Rule, error) {
	var model models.AutomationRuleModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("automation rule not found")
		}
		return nil, fmt.Errorf("failed to find automation rule: %w", err)
	}

	return r.mapper.RuleToDomain(&model)
}

func (r *AutomationRuleRepository) List(ctx context.Context) ([]*automation.Rule, error) {
	var rows []models.AutomationRuleModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list automation rules: %w", err)
	}

	return r.rulesToDomain(rows)
}

func (r *AutomationRuleRepository) ListActiveByKind(ctx context.Context, kind string) ([]*automation.Rule, error) {
	var rows []models.AutomationRuleModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("kind = ? AND status = ?", kind, automation.StatusActive).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list active %s rules: %w", kind, err)
	}

	return r.rulesToDomain(rows)
}

func (r *AutomationRuleRepository) rulesToDomain(rows []models.AutomationRuleModel) ([]*automation.Rule, error) {
	rules := make([]*automation.Rule, 0, len(rows))
	for i := range rows {
		rule, err := r.mapper.RuleToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

type AutomationRunRepository struct {
	db     *gorm.DB
	mapper mappers.AutomationMapper
}

func NewAutomationRunRepository(gdb *gorm.DB) *AutomationRunRepository {
	return &AutomationRunRepository{
		db:     gdb,
		mapper: mappers.NewAutomationMapper(),
	}
}

func (r *AutomationRunRepository) Save(ctx context.Context, run *automation.Run) error {
	model := r.mapper.RunToModel(run)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save automation run: %w", err)
	}

	return run.SetID(model.ID)
}

func (r *AutomationRunRepository) ListByRule(ctx context.Context, ruleID uint, limit int) ([]*automation.Run, error) {
	tx := db.GetTxFromContext(ctx, r.db).
		Where("rule_id = ?", ruleID).
		Order("started_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var rows []models.AutomationRunModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list automation runs: %w", err)
	}

	runs := make([]*automation.Run, 0, len(rows))
	for i := range rows {
		run, err := r.mapper.RunToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}
