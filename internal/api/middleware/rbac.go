package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusboard/notice-board/internal/core/domain"
	"github.com/campusboard/notice-board/internal/pkg/metrics"
)

// Authorize enforces the role policy for action before the handler runs.
// It must be chained after Auth for every action that needs an identity.
func Authorize(action domain.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFrom(c)
			if id == nil && action != domain.ActionListNotices {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			if !domain.CanPerform(domain.RoleOf(id), action) {
				metrics.AuthorizationDeniedTotal.WithLabelValues(string(action)).Inc()
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}
