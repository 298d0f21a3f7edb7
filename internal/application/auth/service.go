// Package auth implements credential login for the portal API.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/praxisops/praxis/internal/domain/user"
	"github.com/praxisops/praxis/internal/shared/errors"
	"github.com/praxisops/praxis/internal/shared/logger"
)

// PasswordHasher verifies a plaintext password against a stored hash.
type PasswordHasher interface {
	Verify(password, hash string) error
}

// TokenGenerator mints the bearer token carried by authenticated requests.
type TokenGenerator interface {
	Generate(userID uint, isSuperAdmin, isTechnician bool) (string, error)
}

type LoginResult struct {
	Token        string `json:"token"`
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	IsSuperAdmin bool   `json:"is_super_admin"`
	IsTechnician bool   `json:"is_technician"`
}

type Service struct {
	users  user.Repository
	hasher PasswordHasher
	tokens TokenGenerator
	logger logger.Interface
}

func NewService(users user.Repository, hasher PasswordHasher, tokens TokenGenerator, log logger.Interface) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens, logger: log}
}

// Login verifies credentials and returns a signed token. Unknown emails and
// wrong passwords produce the same error so accounts cannot be enumerated.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errors.NewValidationError("email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewUnauthorizedError("invalid credentials")
		}
		return nil, err
	}

	if err := s.hasher.Verify(password, u.PasswordHash()); err != nil {
		s.logger.Warnw("failed login attempt", "email", email)
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}

	token, err := s.tokens.Generate(u.ID(), u.IsSuperAdmin(), u.IsTechnician())
	if err != nil {
		return nil, errors.NewInternalError("failed to issue token", err.Error())
	}

	s.logger.Infow("user logged in", "user_id", u.ID())
	return &LoginResult{
		Token:        token,
		UserID:       u.ID(),
		Email:        u.Email(),
		Name:         u.Name(),
		IsSuperAdmin: u.IsSuperAdmin(),
		IsTechnician: u.IsTechnician(),
	}, nil
}

// Profile returns the authenticated user's own record.
func (s *Service) Profile(ctx context.Context, userID uint) (*ProfileResult, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	memberships, err := s.users.ListMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &ProfileResult{
		UserID:       u.ID(),
		Email:        u.Email(),
		Name:         u.Name(),
		IsSuperAdmin: u.IsSuperAdmin(),
		IsTechnician: u.IsTechnician(),
		CreatedAt:    u.CreatedAt().UTC().Format(time.RFC3339),
	}
	for _, m := range memberships {
		if !m.IsActive() {
			continue
		}
		out.Memberships = append(out.Memberships, MembershipInfo{
			CompanyID: m.CompanyID(),
			Role:      m.Role(),
		})
	}
	return out, nil
}

type MembershipInfo struct {
	CompanyID uint   `json:"company_id"`
	Role      string `json:"role"`
}

type ProfileResult struct {
	UserID       uint             `json:"user_id"`
	Email        string           `json:"email"`
	Name         string           `json:"name"`
	IsSuperAdmin bool             `json:"is_super_admin"`
	IsTechnician bool             `json:"is_technician"`
	CreatedAt    string           `json:"created_at"`
	Memberships  []MembershipInfo `json:"memberships,omitempty"`
}
