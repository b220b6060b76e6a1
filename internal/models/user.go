package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user can hold. Only admins may change a user's role.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// SelfAlias is the reserved path segment that resolves to the authenticated
// user. It is rejected as a username at signup time.
const SelfAlias = "me"

type User struct {
	ID        string  `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string  `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string  `gorm:"uniqueIndex;size:254;not null" json:"email"`
	FirstName string  `gorm:"size:150" json:"first_name"`
	LastName  string  `gorm:"size:150" json:"last_name"`
	Bio       string  `gorm:"type:text" json:"bio"`
	Role      string  `gorm:"default:'user';not null" json:"role"`
	// ConfirmationCode holds a bcrypt hash of the last issued code, nil once
	// redeemed or never issued (admin-created accounts).
	ConfirmationCode *string   `gorm:"size:60" json:"-"`
	Active           bool      `gorm:"default:false;not null" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}

// IsModerator reports whether the user holds moderator privileges or higher.
func (user *User) IsModerator() bool {
	return user.Role == RoleModerator || user.Role == RoleAdmin
}

// IsAdmin reports whether the user holds the admin role.
func (user *User) IsAdmin() bool {
	return user.Role == RoleAdmin
}
