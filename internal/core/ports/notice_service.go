package ports

import (
	"context"

	"github.com/campusboard/notice-board/internal/core/domain"
)

// ListNoticesInput carries the raw query parameters of a listing.
type ListNoticesInput struct {
	Search   string
	Category string // optional, exact category name
	Date     string // optional, YYYY-MM-DD
}

// CreateNoticeInput carries the fields of a notice to post.
type CreateNoticeInput struct {
	Title    string
	Content  string
	Category string
	// IdempotencyKey is optional; a repeated key from the same user replays
	// the notice created the first time.
	IdempotencyKey string
}

// NoticeService defines the notice use cases. A nil identity means an
// anonymous caller.
type NoticeService interface {
	ListNotices(ctx context.Context, caller *domain.Identity, input ListNoticesInput) ([]*domain.Notice, error)
	GetNotice(ctx context.Context, id string) (*domain.Notice, error)
	CreateNotice(ctx context.Context, caller *domain.Identity, input CreateNoticeInput) (*domain.Notice, error)
	DeleteNotice(ctx context.Context, caller *domain.Identity, id string) error
}
