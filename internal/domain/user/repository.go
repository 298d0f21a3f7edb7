package user

import "context"

// Repository persists users and memberships.
type Repository interface {
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, u *User) error

	ListMemberships(ctx context.Context, userID uint) ([]*Membership, error)
	// ListCompanyAdmins returns user IDs holding the company admin role,
	// used by the notification dispatcher for recipient resolution.
	ListCompanyAdmins(ctx context.Context, companyID uint) ([]uint, error)
}
