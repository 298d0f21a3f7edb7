package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/praxisops/praxis/internal/domain/ticket"
	"github.com/praxisops/praxis/internal/infrastructure/persistence/mappers"
	"github.com/praxisops/praxis/internal/infrastructure/persistence/models"
	"github.com/praxisops/praxis/internal/shared/db"
	apperrors "github.com/praxisops/praxis/internal/shared/errors"
)

// allowedTicketOrderByFields whitelists ORDER BY columns to keep user input
// out of raw SQL.
var allowedTicketOrderByFields = map[string]bool{
	"id":         true,
	"subject":    true,
	"status":     true,
	"priority":   true,
	"company_id": true,
	"created_at": true,
	"updated_at": true,
	"closed_at":  true,
}

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketRepository(gdb *gorm.DB) *TicketRepository {
	return &TicketRepository{
		db:     gdb,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketRepository) Save(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		if isDuplicateKey(err) {
			return apperrors.NewConflictError("ticket external reference already exists")
		}
		return fmt.Errorf("failed to save ticket: %w", err)
	}

	return t.SetID(model.ID)
}

func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	// Select("*") so cleared pointer columns (closed_at, assigned_user_id)
	// are written as NULL instead of being skipped as zero values.
	result := tx.
		Model(&models.TicketModel{}).
		Where("id = ?", model.ID).
		Select("*").
		Omit("id").
		Updates(model)

	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return apperrors.NewConflictError("ticket external reference already exists")
		}
		return fmt.Errorf("failed to update ticket: %w", result.Error)
	}

	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("ticket not found")
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) List(ctx context.Context, filter ticket.Filter) ([]*ticket.Ticket, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db).Model(&models.TicketModel{})

	if filter.Status != nil {
		tx = tx.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		tx = tx.Where("priority = ?", *filter.Priority)
	}
	if filter.CompanyID != nil {
		tx = tx.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.ModuleSlug != nil {
		tx = tx.Where("module_slug = ?", *filter.ModuleSlug)
	}
	if filter.AssignedUserID != nil {
		tx = tx.Where("assigned_user_id = ?", *filter.AssignedUserID)
	}
	if filter.RequesterID != nil {
		tx = tx.Where("requester_id = ?", *filter.RequesterID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		tx = tx.Where("subject LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	orderBy := "created_at"
	if filter.SortBy != "" && allowedTicketOrderByFields[filter.SortBy] {
		orderBy = filter.SortBy
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}
	tx = tx.Order(orderBy + " " + direction)

	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		tx = tx.Offset(filter.Offset)
	}

	var rows []models.TicketModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets := make([]*ticket.Ticket, 0, len(rows))
	for i := range rows {
		t, err := r.mapper.ToDomain(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, t)
	}

	return tickets, total, nil
}

func (r *TicketRepository) AddReply(ctx context.Context, reply *ticket.Reply) error {
	model := r.mapper.ReplyToModel(reply)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save reply: %w", err)
	}

	return reply.SetID(model.ID)
}

func (r *TicketRepository) ListReplies(ctx context.Context, ticketID uint, includeInternal bool) ([]*ticket.Reply, error) {
	tx := db.GetTxFromContext(ctx, r.db).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC")

	if !includeInternal {
		tx = tx.Where("is_internal = ?", false)
	}

	var rows []models.ReplyModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}

	replies := make([]*ticket.Reply, 0, len(rows))
	for i := range rows {
		reply, err := r.mapper.ReplyToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		replies = append(replies, reply)
	}

	return replies, nil
}

// AddWatcher inserts the pair, silently keeping the existing row on
// conflict. Reports whether a new row was inserted.
func (r *TicketRepository) AddWatcher(ctx context.Context, w *ticket.Watcher) (bool, error) {
	model := r.mapper.WatcherToModel(w)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(model)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return false, nil
		}
		return false, fmt.Errorf("failed to add watcher: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// RemoveWatcher deletes the pair; removing an absent watcher is a success.
// Reports whether a row was actually deleted.
func (r *TicketRepository) RemoveWatcher(ctx context.Context, ticketID, userID uint) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Where("ticket_id = ? AND user_id = ?", ticketID, userID).
		Delete(&models.WatcherModel{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to remove watcher: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *TicketRepository) ListWatchers(ctx context.Context, ticketID uint) ([]*ticket.Watcher, error) {
	var rows []models.WatcherModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list watchers: %w", err)
	}

	watchers := make([]*ticket.Watcher, 0, len(rows))
	for i := range rows {
		watchers = append(watchers, r.mapper.WatcherToDomain(&rows[i]))
	}

	return watchers, nil
}

func (r *TicketRepository) CountByStatus(ctx context.Context, slugs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(slugs))
	if len(slugs) == 0 {
		return counts, nil
	}

	tx := db.GetTxFromContext(ctx, r.db)

	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	if err := tx.Model(&models.TicketModel{}).
		Select("status, COUNT(*) AS count").
		Where("status IN ?", slugs).
		Group("status").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count tickets by status: %w", err)
	}

	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *TicketRepository) RewriteStatus(ctx context.Context, oldSlug, newSlug string) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.TicketModel{}).
		Where("status = ?", oldSlug).
		Update("status", newSlug)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to rewrite status %s to %s: %w", oldSlug, newSlug, result.Error)
	}

	return result.RowsAffected, nil
}

// isDuplicateKey detects unique-constraint violations across the mysql and
// sqlite drivers.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed")
}
