package models

import (
	"time"

	"github.com/room911/access-api/internal/apperrors"
	"gorm.io/gorm"
)

// User represents an admin-panel account.
type User struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	Name              string `gorm:"not null" json:"name"`
	Email             string `gorm:"uniqueIndex;not null" json:"email"`
	EncryptedPassword string `gorm:"column:password;not null" json:"-"`
	// No gorm default tag: GORM would skip a zero-valued field carrying one,
	// silently turning an explicit active=false insert into true. New
	// accounts get active=true from their creation paths instead.
	Active bool   `gorm:"not null" json:"active"`
	Role   string `gorm:"not null" json:"role"`
	Audit

	// Associations
	Tokens []AccessToken `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// Role constants
const (
	RoleAdmin = "admin_room_911"
)

// BeforeCreate hook for setting defaults
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleAdmin
	}
	return nil
}

func (u *User) GetID() uint { return u.ID }

// ActiveField marks the attribute used by AllActive.
func (u *User) ActiveField() string { return "active" }

// IsAdmin returns true if the user holds the administrator role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Assign sets a whitelisted attribute from request data. The password key
// expects an already-hashed value; hashing happens in the auth service.
func (u *User) Assign(field string, value any) error {
	switch field {
	case "name":
		return assignString(&u.Name, field, value)
	case "email":
		return assignString(&u.Email, field, value)
	case "password":
		return assignString(&u.EncryptedPassword, field, value)
	case "active":
		return assignBool(&u.Active, field, value)
	case "role":
		return assignString(&u.Role, field, value)
	default:
		return apperrors.InvalidField(field)
	}
}

// UserResponse is the JSON response format for users
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Active:    u.Active,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
