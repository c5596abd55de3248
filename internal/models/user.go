package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultAvatarURL is assigned to users who sign up without an avatar.
const DefaultAvatarURL = "https://res.cloudinary.com/demo/image/upload/v1/avatar-placeholder.png"

// UserDB represents a user record in the database
type UserDB struct {
	ID        uuid.UUID `db:"id"`         // Primary key
	Username  string    `db:"username"`   // Unique username
	Email     string    `db:"email"`      // Unique, lower-cased email
	Password  string    `db:"password"`   // bcrypt hash
	Avatar    string    `db:"avatar"`     // Avatar URL
	CreatedAt time.Time `db:"created_at"` // Creation timestamp
}

// Public returns the user without credentials.
func (u *UserDB) Public() *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

// User is the public view of a user.
// swagger:model User
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Avatar    string    `json:"avatar" db:"avatar"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// UserUpdate lists the user fields a profile update may change.
// Nil fields are left untouched.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string // already hashed
	Avatar   *string
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Username == nil && u.Email == nil && u.Password == nil && u.Avatar == nil
}
