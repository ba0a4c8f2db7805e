package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category classifies a notice. The set is closed.
type Category string

const (
	CategoryExam    Category = "Exam"
	CategoryHoliday Category = "Holiday"
	CategoryEvent   Category = "Event"
)

// Categories lists every accepted category in display order.
var Categories = []Category{CategoryExam, CategoryHoliday, CategoryEvent}

var ErrNoticeNotFound = errors.New("notice not found")

// ErrIdempotencyConflict means an idempotency key was reused for a notice
// with different fields.
var ErrIdempotencyConflict = errors.New("idempotency key already used for a different notice")

// ErrValidation is the sentinel every *ValidationError unwraps to.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a single rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid is shorthand for building a *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ParseCategory accepts only the exact category names.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Poster is the display view of the user who posted a notice. It is joined
// on read and never stored with the notice.
type Poster struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Notice is a single announcement on the board.
type Notice struct {
	ID        string
	Title     string
	Content   string
	Category  Category
	PostedBy  Poster
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewNotice validates the fields of a notice about to be posted and returns
// it with trimmed title and content. Timestamps are left to the caller.
func NewNotice(title, content, category, postedBy string) (*Notice, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, Invalid("title", "is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, Invalid("content", "is required")
	}
	cat, ok := ParseCategory(category)
	if !ok {
		return nil, Invalid("category", "must be one of: Exam Holiday Event")
	}
	if postedBy == "" {
		return nil, Invalid("posted_by", "is required")
	}
	return &Notice{
		Title:    title,
		Content:  content,
		Category: cat,
		PostedBy: Poster{ID: postedBy},
	}, nil
}

// SameFields reports whether n and other carry the same title, content and
// category.
func (n *Notice) SameFields(other *Notice) bool {
	return n.Title == other.Title && n.Content == other.Content && n.Category == other.Category
}

// NoticeFilter narrows a listing. Zero-valued fields match everything and
// set fields combine with AND.
type NoticeFilter struct {
	// Search is matched case-insensitively against title or content.
	Search   string
	Category Category
	// Day, when non-zero, restricts to notices created on that calendar day
	// in Day's location.
	Day time.Time
}

// DayEnd is the exclusive upper bound of the Day window.
func (f NoticeFilter) DayEnd() time.Time {
	return f.Day.AddDate(0, 0, 1)
}

// Matches reports whether n satisfies every set field of f.
func (f NoticeFilter) Matches(n *Notice) bool {
	if f.Category != "" && n.Category != f.Category {
		return false
	}
	if !f.Day.IsZero() {
		if n.CreatedAt.Before(f.Day) || !n.CreatedAt.Before(f.DayEnd()) {
			return false
		}
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(n.Title), q) && !strings.Contains(strings.ToLower(n.Content), q) {
			return false
		}
	}
	return true
}
