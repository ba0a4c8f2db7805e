package ports

import (
	"context"

	"github.com/campusboard/notice-board/internal/core/domain"
)

// RegisterInput carries the fields of a self-registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AuthResult is returned by successful registration and login.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// TokenVerifier resolves a bearer token to the caller's current identity.
// Any failure to authenticate is reported as domain.ErrUnauthenticated.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}
