package domain

import (
	"errors"
	"strings"
	"time"
)

// Role is the closed set of roles a user can hold. It is parsed once at the
// boundary and carried as-is afterwards.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleFaculty Role = "faculty"
	RoleStudent Role = "student"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
)

// ParseRole maps user input onto a Role. Surrounding whitespace and letter
// case are ignored.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleFaculty, RoleStudent:
		return r, true
	}
	return "", false
}

func (r Role) String() string { return string(r) }

// User models an account in the credential store.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeEmail returns the canonical form used for lookups and uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Identity is the caller resolved from a bearer token. The role always comes
// from the credential store, never from the token itself.
type Identity struct {
	UserID string
	Name   string
	Email  string
	Role   Role
}

// IdentityOf builds the identity view of a stored user.
func IdentityOf(u *User) *Identity {
	return &Identity{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
