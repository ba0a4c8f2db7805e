package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/campusboard/notice-board/internal/core/domain"
)

type userRecord struct {
	user domain.User
}

// UserRepository implements ports.UserRepository on a Store.
type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := domain.NormalizeEmail(user.Email)
	if _, taken := r.s.emails[email]; taken {
		return nil, domain.ErrUserExists
	}

	rec := &userRecord{user: *user}
	rec.user.ID = uuid.NewString()
	rec.user.Email = email
	r.s.users[rec.user.ID] = rec
	r.s.emails[email] = rec.user.ID

	out := rec.user
	return &out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.emails[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := r.s.users[id].user
	return &out, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := rec.user
	return &out, nil
}
