package models

type UserModel struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"size:255;not null;uniqueIndex"`
	Name         string `gorm:"size:128;not null"`
	PasswordHash string `gorm:"size:128"`
	IsSuperAdmin bool   `gorm:"not null;default:false"`
	IsTechnician bool   `gorm:"not null;default:false"`
	Phone        string `gorm:"size:32"`
	CreatedAt    int64  `gorm:"not null"`
	UpdatedAt    int64  `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

// MembershipModel binds a user to a company with a role; Permissions holds
// the role's dot-scoped slugs and Grants the additive per-user extras.
type MembershipModel struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"not null;uniqueIndex:idx_membership_user_company"`
	CompanyID   uint   `gorm:"not null;uniqueIndex:idx_membership_user_company"`
	Role        string `gorm:"size:64;not null"`
	Permissions string `gorm:"type:json"`
	Grants      string `gorm:"type:json"`
	Status      string `gorm:"size:16;not null;default:'active'"`
	CreatedAt   int64  `gorm:"not null"`
}

func (MembershipModel) TableName() string {
	return "memberships"
}
