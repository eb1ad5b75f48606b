package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. It is created on sign-up and never changed
// or deleted afterwards.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Email        *string   `json:"email,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasEmail reports whether the user registered with an email address.
func (u *User) HasEmail() bool {
	return u.Email != nil && *u.Email != ""
}
