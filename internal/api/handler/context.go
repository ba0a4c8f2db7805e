package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusboard/notice-board/internal/api/middleware"
	"github.com/campusboard/notice-board/internal/core/domain"
)

// requireCaller returns the identity injected by the Auth middleware. Its
// absence means the route was registered without Auth; reject with 401
// rather than run the handler anonymously.
func requireCaller(c echo.Context) (*domain.Identity, error) {
	id := middleware.IdentityFrom(c)
	if id == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return id, nil
}
