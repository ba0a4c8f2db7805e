package ports

import (
	"context"

	"github.com/campusboard/notice-board/internal/core/domain"
)

// NoticeRepository defines persistence operations for notices. Every notice
// it returns carries the poster's display name.
type NoticeRepository interface {
	// Find returns the notices matching filter, newest first.
	Find(ctx context.Context, filter domain.NoticeFilter) ([]*domain.Notice, error)
	// Create assigns ID and timestamps, persists n and returns the stored
	// record. A PostedBy that does not reference an existing user is a
	// validation error.
	Create(ctx context.Context, n *domain.Notice) (*domain.Notice, error)
	// DeleteByID returns domain.ErrNoticeNotFound when nothing was removed.
	DeleteByID(ctx context.Context, id string) error
	// FindByID returns domain.ErrNoticeNotFound for unknown or malformed IDs.
	FindByID(ctx context.Context, id string) (*domain.Notice, error)
}

// IdempotencyStore remembers which notice a (user, key) pair created so a
// retried POST returns the first notice.
type IdempotencyStore interface {
	Lookup(ctx context.Context, userID, key string) (noticeID string, found bool, err error)
	Remember(ctx context.Context, userID, key, noticeID string) error
}
