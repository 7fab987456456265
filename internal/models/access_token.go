package models

import (
	"time"
)

// AccessToken is the server-side record backing an issued bearer token.
// The signed token carries this row's ID; deleting the row revokes it.
type AccessToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Name      string     `gorm:"not null" json:"name"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for AccessToken
func (AccessToken) TableName() string {
	return "access_tokens"
}

// IsExpired returns true if the token has passed its stored expiry.
func (t *AccessToken) IsExpired() bool {
	if t.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*t.ExpiresAt)
}
