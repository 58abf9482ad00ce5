package models

import (
	"fmt"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ParseRole converts a stored or submitted value into a Role. An empty value
// is the default role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "":
		return RoleUser, nil
	case RoleUser, RoleModerator, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// CanModerate reports whether the role may edit or delete content written by
// other users.
func (r Role) CanModerate() bool {
	switch r {
	case RoleAdmin, RoleModerator:
		return true
	case RoleUser:
		return false
	}
	return false
}

type User struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username    string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email       string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Role        Role      `gorm:"size:16;default:'user';not null;index" json:"role"`
	Bio         string    `gorm:"type:text;not null;default:''" json:"bio"`
	FirstName   string    `gorm:"size:150;not null;default:''" json:"first_name"`
	LastName    string    `gorm:"size:150;not null;default:''" json:"last_name"`
	IsSuperuser bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsElevated is the catalog-management check: admin role or superuser flag.
func (u *User) IsElevated() bool {
	return u.Role == RoleAdmin || u.IsSuperuser
}
