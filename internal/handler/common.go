package handler // http handlers for the SchoolConnect API

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/schoolconnect/schoolconnect/internal/authz"
)

// dbTimeout bounds every storage call made from a handler. A request that
// exceeds it fails as a transient backend error, never as a denial.
const dbTimeout = 5 * time.Second

// callerFrom builds the explicit identity the authz engine works with from
// the values JWTAuth stored in context. A zero caller means the request is
// unauthenticated.
func callerFrom(c echo.Context) authz.Caller {
	if uid, ok := c.Get("user_id").(uint64); ok {
		return authz.Caller{UserID: uid}
	}
	return authz.Caller{}
}

// reqCtx derives a bounded context from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// parseDate accepts a bare date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// writeAuthzError maps the authorization taxonomy onto distinct HTTP
// responses, so "log in", "not yours", "no such school" and "try again"
// never collapse into one generic failure.
func writeAuthzError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, authz.ErrAuthenticationRequired):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	case errors.Is(err, authz.ErrDenied):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you don't have permission"})
	case errors.Is(err, authz.ErrNotAdmin):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "admin role required"})
	case errors.Is(err, authz.ErrSchoolNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "school not found"})
	case errors.Is(err, authz.ErrAlreadyOwner):
		return c.JSON(http.StatusConflict, echo.Map{"error": "you already manage a school"})
	case errors.Is(err, authz.ErrNoSchool):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "join or create a school first"})
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "backend timeout, try again"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
