// Package permission decides whether a principal may perform an operation
// inside a company scope.
package permission

import (
	"context"

	"github.com/praxisops/praxis/internal/domain/user"
	"github.com/praxisops/praxis/internal/shared/errors"
	"github.com/praxisops/praxis/internal/shared/logger"
)

// Enforcer is the policy backend slice the guard needs. Satisfied by the
// casbin-backed infrastructure enforcer.
type Enforcer interface {
	Enforce(userID, companyID uint, permission string) (bool, error)
}

// Principal is the authenticated caller as seen by the guard.
type Principal struct {
	UserID       uint
	IsSuperAdmin bool
	IsTechnician bool
}

// Guard checks dot-scoped permission slugs against a principal's membership
// and the policy store. Super admins bypass every check; everyone else needs
// an active membership in the company plus either a merged membership
// permission or a policy-store grant.
type Guard struct {
	users    user.Repository
	enforcer Enforcer
	logger   logger.Interface
}

func NewGuard(users user.Repository, enforcer Enforcer, log logger.Interface) *Guard {
	return &Guard{users: users, enforcer: enforcer, logger: log}
}

// Require returns nil when the principal holds the permission in the company
// scope, a Forbidden error otherwise.
func (g *Guard) Require(ctx context.Context, p Principal, companyID uint, permission string) error {
	if p.IsSuperAdmin {
		return nil
	}
	if p.UserID == 0 {
		return errors.NewUnauthorizedError("authentication required")
	}

	membership, err := g.activeMembership(ctx, p.UserID, companyID)
	if err != nil {
		return err
	}

	if membership.HasPermission(permission) {
		return nil
	}

	allowed, err := g.enforcer.Enforce(p.UserID, companyID, permission)
	if err != nil {
		g.logger.Errorw("permission enforcement failed", "user_id", p.UserID, "company_id", companyID, "permission", permission, "error", err)
		return errors.NewInternalError("permission check failed")
	}
	if !allowed {
		return errors.NewForbiddenError("missing permission", permission)
	}
	return nil
}

// CompanyIDs returns the companies the principal can act in. Super admins
// get nil, meaning unscoped.
func (g *Guard) CompanyIDs(ctx context.Context, p Principal) ([]uint, error) {
	if p.IsSuperAdmin {
		return nil, nil
	}

	memberships, err := g.users.ListMemberships(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	out := make([]uint, 0, len(memberships))
	for _, m := range memberships {
		if m.IsActive() {
			out = append(out, m.CompanyID())
		}
	}
	return out, nil
}

// CanSeeInternal reports whether the principal may read internal replies.
func (g *Guard) CanSeeInternal(p Principal) bool {
	return p.IsSuperAdmin || p.IsTechnician
}

func (g *Guard) activeMembership(ctx context.Context, userID, companyID uint) (*user.Membership, error) {
	memberships, err := g.users.ListMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, m := range memberships {
		if m.CompanyID() != companyID {
			continue
		}
		if !m.IsActive() {
			return nil, errors.NewForbiddenError("membership is not active")
		}
		return m, nil
	}
	return nil, errors.NewForbiddenError("no membership in this company")
}
