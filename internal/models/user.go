package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
// Users are created the first time a magic-link login succeeds for an email.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique).
	// Used for login and as the sharing handle.
	Email string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64
}

// NewUser creates a User for the given email with a fresh ID.
func NewUser(email string) *User {
	return &User{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: time.Now().Unix(),
	}
}

// LoginToken is a pending magic-link login.
// Only a hash of the emailed uid is stored.
type LoginToken struct {
	// Hash is the hex digest of the uid sent in the login link.
	Hash string

	// Email is the address the link was sent to.
	Email string

	// CreatedAt is the Unix timestamp when the token was issued.
	CreatedAt int64
}

// Expired reports whether the token is older than ttl at now.
func (t *LoginToken) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(time.Unix(t.CreatedAt, 0)) > ttl
}
