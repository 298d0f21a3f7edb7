// Package user models portal principals and their company memberships.
package user

import (
	"fmt"
	"strings"
	"time"
)

// Membership statuses.
const (
	MembershipInvited   = "invited"
	MembershipActive    = "active"
	MembershipSuspended = "suspended"
)

// User is a portal principal.
type User struct {
	id           uint
	email        string
	name         string
	passwordHash string
	isSuperAdmin bool
	isTechnician bool
	phone        string
	createdAt    time.Time
	updatedAt    time.Time
}

func NewUser(email, name, passwordHash string, now time.Time) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	return &User{
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructUser(id uint, email, name, passwordHash string, isSuperAdmin, isTechnician bool, phone string, createdAt, updatedAt time.Time) *User {
	return &User{
		id:           id,
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		isSuperAdmin: isSuperAdmin,
		isTechnician: isTechnician,
		phone:        phone,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uint             { return u.id }
func (u *User) Email() string        { return u.email }
func (u *User) Name() string         { return u.name }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) IsSuperAdmin() bool   { return u.isSuperAdmin }
func (u *User) IsTechnician() bool   { return u.isTechnician }
func (u *User) Phone() string        { return u.phone }
func (u *User) CreatedAt() time.Time { return u.createdAt }

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	u.id = id
	return nil
}

// Membership binds a user to a company with a role. Role permissions plus
// user-specific grants form the effective permission set the guard checks.
type Membership struct {
	userID      uint
	companyID   uint
	role        string
	permissions []string
	grants      []string
	status      string
	createdAt   time.Time
}

func NewMembership(userID, companyID uint, role string, permissions []string, now time.Time) (*Membership, error) {
	if userID == 0 || companyID == 0 {
		return nil, fmt.Errorf("user and company are required")
	}
	if role == "" {
		return nil, fmt.Errorf("role is required")
	}

	return &Membership{
		userID:      userID,
		companyID:   companyID,
		role:        role,
		permissions: permissions,
		status:      MembershipActive,
		createdAt:   now,
	}, nil
}

func ReconstructMembership(userID, companyID uint, role string, permissions, grants []string, status string, createdAt time.Time) *Membership {
	return &Membership{
		userID:      userID,
		companyID:   companyID,
		role:        role,
		permissions: permissions,
		grants:      grants,
		status:      status,
		createdAt:   createdAt,
	}
}

func (m *Membership) UserID() uint    { return m.userID }
func (m *Membership) CompanyID() uint { return m.companyID }
func (m *Membership) Role() string    { return m.role }
func (m *Membership) Status() string  { return m.status }
func (m *Membership) IsActive() bool  { return m.status == MembershipActive }

// EffectivePermissions merges role permissions with user-specific grants.
// Grants are additive only.
func (m *Membership) EffectivePermissions() []string {
	seen := make(map[string]struct{}, len(m.permissions)+len(m.grants))
	out := make([]string, 0, len(m.permissions)+len(m.grants))
	for _, p := range m.permissions {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	for _, g := range m.grants {
		if _, ok := seen[g]; !ok {
			seen[g] = struct{}{}
			out = append(out, g)
		}
	}
	return out
}

// HasPermission checks one dot-scoped slug against the merged set.
func (m *Membership) HasPermission(permission string) bool {
	for _, p := range m.EffectivePermissions() {
		if p == permission {
			return true
		}
	}
	return false
}
