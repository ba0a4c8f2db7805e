package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusboard/notice-board/internal/core/domain"
	"github.com/campusboard/notice-board/internal/core/ports"
	"github.com/campusboard/notice-board/internal/pkg/metrics"
)

const (
	minPasswordLength = 6
	// bcrypt only accepts passwords up to 72 bytes.
	maxPasswordLength = 72
)

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.UserRepository
	tokens *TokenService
	logger zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens *TokenService, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, logger: logger}
}

// Register creates a student or faculty account and signs the caller in.
// Admin accounts are provisioned with EnsureUser only. An empty role means
// student.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	if strings.TrimSpace(in.Role) == "" {
		in.Role = string(domain.RoleStudent)
	}
	role, ok := domain.ParseRole(in.Role)
	if !ok || role == domain.RoleAdmin {
		return nil, domain.Invalid("role", "must be one of: student faculty")
	}

	user, err := s.newUser(in.Name, in.Email, in.Password, role)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(created)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role.String()).Msg("user registered")
	return &ports.AuthResult{Token: token, User: created}, nil
}

// Login checks the password and returns a fresh token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		metrics.AuthLoginsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthLoginsTotal.WithLabelValues("invalid").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.AuthLoginsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	metrics.AuthLoginsTotal.WithLabelValues("ok").Inc()
	return &ports.AuthResult{Token: token, User: user}, nil
}

// EnsureUser creates the account unless the email is already registered.
// The second return value reports whether a user was created.
func (s *AuthService) EnsureUser(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, bool, error) {
	existing, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, fmt.Errorf("ensure user: %w", err)
	}

	user, err := s.newUser(name, email, password, role)
	if err != nil {
		return nil, false, err
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func (s *AuthService) newUser(name, email, password string, role domain.Role) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalid("name", "is required")
	}
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.Invalid("email", "is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.Invalid("email", "must be a valid email")
	}
	if len(password) < minPasswordLength {
		return nil, domain.Invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if len(password) > maxPasswordLength {
		return nil, domain.Invalid("password", fmt.Sprintf("must be at most %d bytes", maxPasswordLength))
	}
	if r, ok := domain.ParseRole(string(role)); !ok || r != role {
		return nil, domain.Invalid("role", "is not a known role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
