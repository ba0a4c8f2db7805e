package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/campusboard/notice-board/internal/core/domain"
)

type noticeRecord struct {
	notice domain.Notice
	seq    uint64
}

// NoticeRepository implements ports.NoticeRepository on a Store.
type NoticeRepository struct {
	s *Store
}

func (r *NoticeRepository) Find(_ context.Context, filter domain.NoticeFilter) ([]*domain.Notice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make([]*noticeRecord, 0, len(r.s.notices))
	for _, rec := range r.s.notices {
		if filter.Matches(&rec.notice) {
			matched = append(matched, rec)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.notice.CreatedAt.Equal(b.notice.CreatedAt) {
			return a.notice.CreatedAt.After(b.notice.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]*domain.Notice, len(matched))
	for i, rec := range matched {
		out[i] = r.joined(rec)
	}
	return out, nil
}

func (r *NoticeRepository) Create(_ context.Context, n *domain.Notice) (*domain.Notice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[n.PostedBy.ID]; !ok {
		return nil, domain.Invalid("posted_by", "does not reference an existing user")
	}

	now := r.s.now().UTC()
	rec := &noticeRecord{notice: *n, seq: r.s.nextSeq()}
	rec.notice.ID = uuid.NewString()
	rec.notice.PostedBy = domain.Poster{ID: n.PostedBy.ID}
	rec.notice.CreatedAt = now
	rec.notice.UpdatedAt = now
	r.s.notices[rec.notice.ID] = rec

	return r.joined(rec), nil
}

func (r *NoticeRepository) DeleteByID(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.notices[id]; !ok {
		return domain.ErrNoticeNotFound
	}
	delete(r.s.notices, id)
	return nil
}

func (r *NoticeRepository) FindByID(_ context.Context, id string) (*domain.Notice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.notices[id]
	if !ok {
		return nil, domain.ErrNoticeNotFound
	}
	return r.joined(rec), nil
}

// joined copies the record and resolves the poster name. Callers hold the lock.
func (r *NoticeRepository) joined(rec *noticeRecord) *domain.Notice {
	out := rec.notice
	if u, ok := r.s.users[out.PostedBy.ID]; ok {
		out.PostedBy.Name = u.user.Name
	}
	return &out
}
