package domain

import (
	"slices"
	"time"
)

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// RedactedPassword replaces the password hash whenever users are listed.
const RedactedPassword = "********"

// User models a registered account. Accounts are never deleted; a ban flips
// Disabled and nothing else.
type User struct {
	ID           int64     `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	Disabled     bool      `json:"disabled"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity returns the request-scoped view of the account.
func (u *User) Identity() *Identity {
	return &Identity{
		UserID:   u.ID,
		Username: u.Username,
		Roles:    slices.Clone(u.Roles),
		Disabled: u.Disabled,
	}
}

// Identity is the authenticated subject of a single request. It is resolved
// from the datastore on every request and never cached.
type Identity struct {
	UserID   int64
	Username string
	Roles    []string
	Disabled bool
}

// HasRole reports whether the identity holds role.
func (i *Identity) HasRole(role string) bool {
	return slices.Contains(i.Roles, role)
}

// MissingScope returns the first required scope the identity lacks.
func (i *Identity) MissingScope(required []string) (string, bool) {
	for _, scope := range required {
		if !i.HasRole(scope) {
			return scope, true
		}
	}
	return "", false
}
