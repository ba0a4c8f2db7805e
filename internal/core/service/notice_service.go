package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusboard/notice-board/internal/core/domain"
	"github.com/campusboard/notice-board/internal/core/ports"
	"github.com/campusboard/notice-board/internal/pkg/metrics"
)

const dateLayout = "2006-01-02"

// NoticeService gates every notice operation through the role policy before
// touching the repository.
type NoticeService struct {
	repo   ports.NoticeRepository
	idem   ports.IdempotencyStore
	loc    *time.Location
	logger zerolog.Logger
}

// NewNoticeService wires the service. idem may be nil, in which case
// idempotency keys are ignored. loc is the timezone calendar days are
// interpreted in; nil means UTC.
func NewNoticeService(repo ports.NoticeRepository, idem ports.IdempotencyStore, loc *time.Location, logger zerolog.Logger) *NoticeService {
	if loc == nil {
		loc = time.UTC
	}
	return &NoticeService{repo: repo, idem: idem, loc: loc, logger: logger}
}

// ListNotices is public. A storage failure degrades to an empty listing
// instead of failing the page; invalid filters are still rejected.
func (s *NoticeService) ListNotices(ctx context.Context, caller *domain.Identity, in ports.ListNoticesInput) ([]*domain.Notice, error) {
	if err := s.authorize(caller, domain.ActionListNotices); err != nil {
		return nil, err
	}

	filter, err := s.parseFilter(in)
	if err != nil {
		return nil, err
	}

	notices, err := s.repo.Find(ctx, filter)
	if err != nil {
		s.logger.Warn().Err(err).Msg("notice listing failed, returning empty result")
		metrics.NoticeListDegradedTotal.Inc()
		return []*domain.Notice{}, nil
	}
	return notices, nil
}

// GetNotice is public.
func (s *NoticeService) GetNotice(ctx context.Context, id string) (*domain.Notice, error) {
	if id == "" {
		return nil, domain.ErrNoticeNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// CreateNotice posts a notice on behalf of caller. Authentication,
// authorization and field validation all happen before any write.
func (s *NoticeService) CreateNotice(ctx context.Context, caller *domain.Identity, in ports.CreateNoticeInput) (*domain.Notice, error) {
	if err := s.authorize(caller, domain.ActionCreateNotice); err != nil {
		return nil, err
	}

	notice, err := domain.NewNotice(in.Title, in.Content, in.Category, caller.UserID)
	if err != nil {
		return nil, err
	}

	if in.IdempotencyKey != "" {
		if existing := s.replay(ctx, caller.UserID, in.IdempotencyKey); existing != nil {
			if !existing.SameFields(notice) {
				return nil, domain.ErrIdempotencyConflict
			}
			return existing, nil
		}
	}

	created, err := s.repo.Create(ctx, notice)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("user_id", caller.UserID).Msg("failed to create notice")
		return nil, fmt.Errorf("create notice: %w", err)
	}

	if in.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, caller.UserID, in.IdempotencyKey, created.ID); err != nil {
			s.logger.Warn().Err(err).Str("notice_id", created.ID).Msg("failed to store idempotency key")
		}
	}

	metrics.NoticesCreatedTotal.WithLabelValues(string(created.Category)).Inc()
	s.logger.Info().
		Str("notice_id", created.ID).
		Str("category", string(created.Category)).
		Str("user_id", caller.UserID).
		Msg("notice created")

	return created, nil
}

// DeleteNotice removes any notice; admins and faculty are not limited to
// their own posts.
func (s *NoticeService) DeleteNotice(ctx context.Context, caller *domain.Identity, id string) error {
	if err := s.authorize(caller, domain.ActionDeleteNotice); err != nil {
		return err
	}
	if id == "" {
		return domain.ErrNoticeNotFound
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNoticeNotFound) {
			return err
		}
		s.logger.Error().Err(err).Str("notice_id", id).Msg("failed to delete notice")
		return fmt.Errorf("delete notice: %w", err)
	}

	metrics.NoticesDeletedTotal.Inc()
	s.logger.Info().Str("notice_id", id).Str("user_id", caller.UserID).Msg("notice deleted")
	return nil
}

// authorize requires an identity for every action except listing.
func (s *NoticeService) authorize(caller *domain.Identity, action domain.Action) error {
	if caller == nil && action != domain.ActionListNotices {
		return domain.ErrUnauthenticated
	}
	if !domain.CanPerform(domain.RoleOf(caller), action) {
		metrics.AuthorizationDeniedTotal.WithLabelValues(string(action)).Inc()
		return domain.ErrForbidden
	}
	return nil
}

// replay returns the notice previously created under key, if it still
// exists. Store errors are logged and treated as a miss.
func (s *NoticeService) replay(ctx context.Context, userID, key string) *domain.Notice {
	if s.idem == nil {
		return nil
	}
	id, found, err := s.idem.Lookup(ctx, userID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil
	}
	s.logger.Info().Str("notice_id", id).Str("user_id", userID).Msg("idempotent replay")
	return existing
}

func (s *NoticeService) parseFilter(in ports.ListNoticesInput) (domain.NoticeFilter, error) {
	f := domain.NoticeFilter{Search: strings.TrimSpace(in.Search)}
	if in.Category != "" {
		c, ok := domain.ParseCategory(in.Category)
		if !ok {
			return f, domain.Invalid("category", "must be one of: Exam Holiday Event")
		}
		f.Category = c
	}
	if in.Date != "" {
		day, err := time.ParseInLocation(dateLayout, in.Date, s.loc)
		if err != nil {
			return f, domain.Invalid("date", "must be formatted as YYYY-MM-DD")
		}
		f.Day = day
	}
	return f, nil
}
