package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicbook/appointment-system/internal/api/middleware"
	"github.com/clinicbook/appointment-system/internal/core/domain"
)

// ctxCaller extracts the caller identity injected by the Auth middleware.
// Its presence proves the middleware ran; a handler reached without it is a
// routing mistake and fails closed with 401.
func ctxCaller(c echo.Context) (domain.Caller, error) {
	caller, ok := c.Get(middleware.CallerKey).(domain.Caller)
	if !ok || caller.Role == "" {
		return domain.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return caller, nil
}
