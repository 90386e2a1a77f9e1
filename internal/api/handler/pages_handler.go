package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PagesHandler serves the public pages that need no backend data.
type PagesHandler struct{}

func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

func (h *PagesHandler) Home(c echo.Context) error {
	return c.Render(http.StatusOK, "home", page(c, "Welcome", nil))
}

// Unauthorized is the fixed access-denied destination the route guard
// redirects to. Deliberately bland: no detail about what was protected.
func (h *PagesHandler) Unauthorized(c echo.Context) error {
	return c.Render(http.StatusForbidden, "unauthorized", page(c, "Access denied", nil))
}
