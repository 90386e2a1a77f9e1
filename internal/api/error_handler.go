package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vetcareservices/clinic-portal/internal/api/middleware"
	"github.com/vetcareservices/clinic-portal/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Sends expired or missing sessions back to the login page.
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the shared error page for everything that stays on-site.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		// Session problems end the browsing session: drop the portal
		// cookie and restart at the login page.
		var authErr *domain.AuthError
		if errors.Is(err, domain.ErrSessionExpired) ||
			errors.Is(err, domain.ErrNoActiveSession) ||
			errors.As(err, &authErr) {
			c.SetCookie(middleware.ClearCookie())
			target := middleware.LoginPath + "?next=" + url.QueryEscape(c.Request().RequestURI)
			_ = c.Redirect(http.StatusSeeOther, target)
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			_ = c.Redirect(http.StatusSeeOther, middleware.UnauthorizedPath)
			return
		}

		code, msg := resolveError(err, log, c)
		renderErr := c.Render(code, "error", echo.Map{
			"Title":   "Something went wrong",
			"Session": middleware.CurrentSession(c),
			"Status":  code,
			"Message": msg,
		})
		if renderErr != nil {
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusServiceUnavailable, "the clinic service is temporarily unavailable, try again shortly"
	case errors.Is(err, domain.ErrUnknownRole):
		return http.StatusBadGateway, "the clinic service returned an unrecognized account role"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
