package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusboard/notice-board/internal/api/middleware"
	"github.com/campusboard/notice-board/internal/core/ports"
)

// NoticeHandler handles HTTP requests for notice operations.
type NoticeHandler struct {
	service ports.NoticeService
}

func NewNoticeHandler(service ports.NoticeService) *NoticeHandler {
	return &NoticeHandler{service: service}
}

// List handles GET /api/notices.
//
// @Summary      List notices
// @Description  Newest first. Filters combine with AND.
// @Tags         notices
// @Produce      json
// @Param        search    query     string  false  "Case-insensitive match on title or content"
// @Param        category  query     string  false  "Exam, Holiday or Event"
// @Param        date      query     string  false  "Posting day, YYYY-MM-DD"
// @Success      200       {array}   noticeResponse
// @Failure      400       {object}  errorResponse
// @Router       /notices [get]
func (h *NoticeHandler) List(c echo.Context) error {
	var q listNoticesQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	notices, err := h.service.ListNotices(c.Request().Context(), middleware.IdentityFrom(c), toListInput(q))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNoticeListResponse(notices))
}

// Get handles GET /api/notices/:id.
//
// @Summary      Get a notice
// @Tags         notices
// @Produce      json
// @Param        id   path      string  true  "Notice ID"
// @Success      200  {object}  noticeResponse
// @Failure      404  {object}  errorResponse
// @Router       /notices/{id} [get]
func (h *NoticeHandler) Get(c echo.Context) error {
	notice, err := h.service.GetNotice(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNoticeResponse(notice))
}

// Create handles POST /api/notices.
//
// @Summary      Post a notice
// @Tags         notices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Description  A repeated Idempotency-Key with the same fields returns the first notice; with different fields it is rejected with 409.
// @Param        Idempotency-Key  header    string               false  "Replays the first notice created with this key"
// @Param        body             body      createNoticeRequest  true   "Notice"
// @Success      201              {object}  noticeResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /notices [post]
func (h *NoticeHandler) Create(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	var req createNoticeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	idempotencyKey := c.Request().Header.Get("Idempotency-Key")
	notice, err := h.service.CreateNotice(c.Request().Context(), caller, toCreateInput(req, idempotencyKey))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toNoticeResponse(notice))
}

// Delete handles DELETE /api/notices/:id.
//
// @Summary      Delete a notice
// @Tags         notices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notice ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /notices/{id} [delete]
func (h *NoticeHandler) Delete(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteNotice(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "notice deleted"})
}
