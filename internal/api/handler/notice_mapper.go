package handler

import (
	"github.com/campusboard/notice-board/internal/core/domain"
	"github.com/campusboard/notice-board/internal/core/ports"
)

// --- Request → Service input ---

func toListInput(q listNoticesQuery) ports.ListNoticesInput {
	return ports.ListNoticesInput{
		Search:   q.Search,
		Category: q.Category,
		Date:     q.Date,
	}
}

func toCreateInput(req createNoticeRequest, idempotencyKey string) ports.CreateNoticeInput {
	return ports.CreateNoticeInput{
		Title:          req.Title,
		Content:        req.Content,
		Category:       req.Category,
		IdempotencyKey: idempotencyKey,
	}
}

// --- Service result → HTTP response ---

func toNoticeResponse(n *domain.Notice) noticeResponse {
	return noticeResponse{
		ID:       n.ID,
		Title:    n.Title,
		Content:  n.Content,
		Category: string(n.Category),
		PostedBy: posterResponse{
			ID:   n.PostedBy.ID,
			Name: n.PostedBy.Name,
		},
		CreatedAt: n.CreatedAt.UTC(),
		UpdatedAt: n.UpdatedAt.UTC(),
	}
}

func toNoticeListResponse(ns []*domain.Notice) []noticeResponse {
	out := make([]noticeResponse, len(ns))
	for i, n := range ns {
		out[i] = toNoticeResponse(n)
	}
	return out
}
