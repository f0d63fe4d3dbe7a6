package models

import "time"

// Role is the coarse authorization tag of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a registered dashboard account. Email is stored lower-cased.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Name         string    `json:"name" gorm:"size:120;not null"`
	Role         Role      `json:"role" gorm:"size:20;not null;default:user"`
	CreatedAt    time.Time `json:"created_at"`
	Orders       []Order   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// IsAdmin reports whether the user may reach the admin routes.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
