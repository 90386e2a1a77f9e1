package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vetcareservices/clinic-portal/internal/api/middleware"
	"github.com/vetcareservices/clinic-portal/internal/core/ports"
)

// page assembles the data every template expects: the current Session, a
// title, and page-specific keys.
func page(c echo.Context, title string, extra echo.Map) echo.Map {
	data := echo.Map{
		"Title":   title,
		"Session": middleware.CurrentSession(c),
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// upstreamCookie resolves the backend cookie for the request's session. The
// guard has already run on protected routes, so a missing session here is a
// wiring bug, surfaced as ErrNoActiveSession by the store.
func upstreamCookie(c echo.Context, sessions ports.SessionStore) (string, error) {
	return sessions.UpstreamCookie(c.Request().Context(), middleware.SessionID(c))
}

// paramID parses the named numeric path parameter.
func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(400, "invalid "+name)
	}
	return id, nil
}
