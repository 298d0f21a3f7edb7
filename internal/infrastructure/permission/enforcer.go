// Package permission enforces company-scoped access through Casbin with
// the policy store in the portal database.
package permission

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/praxisops/praxis/internal/shared/logger"
)

// rbacModel is a domain-scoped RBAC model: subjects hold roles per company
// and roles hold permission slugs per company.
const rbacModel = `
[request_definition]
r = sub, dom, obj

[policy_definition]
p = sub, dom, obj

[role_definition]
g = _, _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub, r.dom) && r.dom == p.dom && r.obj == p.obj
`

type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

func NewEnforcer(db *gorm.DB, log logger.Interface) (*Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	m, err := casbinmodel.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	return &Enforcer{enforcer: enforcer, logger: log}, nil
}

// Enforce reports whether the user holds the permission slug inside the
// company, either through a role or a direct grant.
func (e *Enforcer) Enforce(userID, companyID uint, permission string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(subject(userID), domain(companyID), permission)
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "user_id", userID, "company_id", companyID, "permission", permission)
		return false, fmt.Errorf("permission check failed: %w", err)
	}
	return allowed, nil
}

// GrantRolePermission attaches a permission slug to a role within a company.
func (e *Enforcer) GrantRolePermission(role string, companyID uint, permission string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddPolicy(role, domain(companyID), permission); err != nil {
		return fmt.Errorf("failed to add policy: %w", err)
	}
	return e.enforcer.SavePolicy()
}

// RevokeRolePermission removes a permission slug from a role within a company.
func (e *Enforcer) RevokeRolePermission(role string, companyID uint, permission string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.RemovePolicy(role, domain(companyID), permission); err != nil {
		return fmt.Errorf("failed to remove policy: %w", err)
	}
	return e.enforcer.SavePolicy()
}

// GrantUserPermission gives one user a direct permission slug in a company,
// additive on top of the role.
func (e *Enforcer) GrantUserPermission(userID, companyID uint, permission string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddPolicy(subject(userID), domain(companyID), permission); err != nil {
		return fmt.Errorf("failed to add user grant: %w", err)
	}
	return e.enforcer.SavePolicy()
}

// AssignRole binds a user to a role within a company.
func (e *Enforcer) AssignRole(userID uint, role string, companyID uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddRoleForUserInDomain(subject(userID), role, domain(companyID)); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return e.enforcer.SavePolicy()
}

// UnassignRole removes a user's role binding within a company.
func (e *Enforcer) UnassignRole(userID uint, role string, companyID uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.DeleteRoleForUserInDomain(subject(userID), role, domain(companyID)); err != nil {
		return fmt.Errorf("failed to unassign role: %w", err)
	}
	return e.enforcer.SavePolicy()
}

func subject(userID uint) string   { return "user:" + strconv.FormatUint(uint64(userID), 10) }
func domain(companyID uint) string { return "company:" + strconv.FormatUint(uint64(companyID), 10) }
