// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is an explicit, optional role on a user account. Authorization code
// must match on it exhaustively instead of probing for profile attributes.
type Role string

const (
	// RoleNone is the default role for regular accounts.
	RoleNone Role = "none"
	// RoleAdmin marks an account with administrative privileges.
	RoleAdmin Role = "admin"
)

// User represents a registered account with its public profile fields.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Bio       string         `json:"bio"`
	Avatar    string         `json:"avatar"`
	Role      Role           `gorm:"type:varchar(20);default:'none'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Posts     []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`

	// FollowersCount and FollowingCount are not persisted; computed at query time
	FollowersCount int `gorm:"-" json:"followers_count"`
	FollowingCount int `gorm:"-" json:"following_count"`
}

// IsAdmin reports whether the user's role grants administrative privileges.
func (u *User) IsAdmin() bool {
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleNone:
		return false
	default:
		return false
	}
}
