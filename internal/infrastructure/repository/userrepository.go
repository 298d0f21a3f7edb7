package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/praxisops/praxis/internal/domain/user"
	"github.com/praxisops/praxis/internal/infrastructure/persistence/models"
	"github.com/praxisops/praxis/internal/shared/db"
	apperrors "github.com/praxisops/praxis/internal/shared/errors"
)

// companyAdminRole is the membership role the dispatcher treats as the
// company's escalation audience.
const companyAdminRole = "company_admin"

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(gdb *gorm.DB) *UserRepository {
	return &UserRepository{db: gdb}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return userToDomain(&model), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model models.UserModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return userToDomain(&model), nil
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	model := &models.UserModel{
		Email:        u.Email(),
		Name:         u.Name(),
		PasswordHash: u.PasswordHash(),
		IsSuperAdmin: u.IsSuperAdmin(),
		IsTechnician: u.IsTechnician(),
		Phone:        u.Phone(),
		CreatedAt:    u.CreatedAt().UnixMilli(),
		UpdatedAt:    u.CreatedAt().UnixMilli(),
	}
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		if isDuplicateKey(err) {
			return apperrors.NewConflictError("email already registered")
		}
		return fmt.Errorf("failed to save user: %w", err)
	}

	return u.SetID(model.ID)
}

func (r *UserRepository) ListMemberships(ctx context.Context, userID uint) ([]*user.Membership, error) {
	var rows []models.MembershipModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	memberships := make([]*user.Membership, 0, len(rows))
	for i := range rows {
		m, err := membershipToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, nil
}

func (r *UserRepository) ListCompanyAdmins(ctx context.Context, companyID uint) ([]uint, error) {
	var ids []uint
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Model(&models.MembershipModel{}).
		Where("company_id = ? AND role = ? AND status = ?", companyID, companyAdminRole, user.MembershipActive).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list company admins: %w", err)
	}

	return ids, nil
}

func userToDomain(model *models.UserModel) *user.User {
	return user.ReconstructUser(
		model.ID,
		model.Email,
		model.Name,
		model.PasswordHash,
		model.IsSuperAdmin,
		model.IsTechnician,
		model.Phone,
		time.UnixMilli(model.CreatedAt).UTC(),
		time.UnixMilli(model.UpdatedAt).UTC(),
	)
}

func membershipToDomain(model *models.MembershipModel) (*user.Membership, error) {
	var permissions, grants []string
	if model.Permissions != "" {
		if err := json.Unmarshal([]byte(model.Permissions), &permissions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal permissions (membership=%d): %w", model.ID, err)
		}
	}
	if model.Grants != "" {
		if err := json.Unmarshal([]byte(model.Grants), &grants); err != nil {
			return nil, fmt.Errorf("failed to unmarshal grants (membership=%d): %w", model.ID, err)
		}
	}

	return user.ReconstructMembership(
		model.UserID,
		model.CompanyID,
		model.Role,
		permissions,
		grants,
		model.Status,
		time.UnixMilli(model.CreatedAt).UTC(),
	), nil
}
