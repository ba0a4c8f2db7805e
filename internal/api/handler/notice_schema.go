package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse confirms an operation that returns no resource.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Request types ---

type listNoticesQuery struct {
	Search   string `query:"search"`
	Category string `query:"category" validate:"omitempty,oneof=Exam Holiday Event"`
	Date     string `query:"date"     validate:"omitempty,datetime=2006-01-02"`
}

type createNoticeRequest struct {
	Title    string `json:"title"    validate:"required"`
	Content  string `json:"content"  validate:"required"`
	Category string `json:"category" validate:"required,oneof=Exam Holiday Event"`
}

// --- Response types ---

// Response-only types owned by the transport layer, kept apart from domain
// types so the JSON contract does not follow internal changes.

type posterResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type noticeResponse struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Category  string         `json:"category"`
	PostedBy  posterResponse `json:"posted_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
