package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vetcareservices/clinic-portal/internal/api/metrics"
	"github.com/vetcareservices/clinic-portal/internal/api/middleware"
	"github.com/vetcareservices/clinic-portal/internal/core/domain"
	"github.com/vetcareservices/clinic-portal/internal/core/ports"
)

// AuthHandler owns the login and registration forms, logout, and the profile
// page.
type AuthHandler struct {
	sessions      ports.SessionStore
	auth          ports.AuthGateway
	codec         middleware.TokenCodec
	secureCookies bool
}

func NewAuthHandler(sessions ports.SessionStore, auth ports.AuthGateway, codec middleware.TokenCodec, secureCookies bool) *AuthHandler {
	return &AuthHandler{sessions: sessions, auth: auth, codec: codec, secureCookies: secureCookies}
}

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

type profileForm struct {
	DisplayName string `form:"displayName" validate:"required"`
	Email       string `form:"email" validate:"required,email"`
}

// ShowLogin renders the login form. An already-authenticated visitor is sent
// straight to their role's landing page.
func (h *AuthHandler) ShowLogin(c echo.Context) error {
	if sess := middleware.CurrentSession(c); sess.Authenticated() {
		return c.Redirect(http.StatusSeeOther, roleHome(sess.Identity.Role))
	}
	return c.Render(http.StatusOK, "login", page(c, "Log in", echo.Map{
		"Next":       c.QueryParam("next"),
		"Registered": c.QueryParam("registered") != "",
	}))
}

// ShowRegister renders the signup form.
func (h *AuthHandler) ShowRegister(c echo.Context) error {
	if sess := middleware.CurrentSession(c); sess.Authenticated() {
		return c.Redirect(http.StatusSeeOther, roleHome(sess.Identity.Role))
	}
	return c.Render(http.StatusOK, "register", page(c, "Create an account", nil))
}

type registerForm struct {
	FullName string `form:"fullName" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8"`
	Confirm  string `form:"confirm" validate:"required,eqfield=Password"`
}

// Register creates a pet-owner account and sends the user to the login form.
// No session is established here; the fresh credentials go through the normal
// login path.
func (h *AuthHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return h.registerFailed(c, http.StatusBadRequest, "invalid form submission", form)
	}
	if err := c.Validate(&form); err != nil {
		return h.registerFailed(c, http.StatusUnprocessableEntity, err.Error(), form)
	}

	reg := domain.Registration{FullName: form.FullName, Email: form.Email, Password: form.Password}
	if err := h.auth.Register(c.Request().Context(), reg); err != nil {
		var authErr *domain.AuthError
		switch {
		case errors.As(err, &authErr):
			msg := authErr.Message
			if msg == "" {
				msg = "that account could not be created"
			}
			return h.registerFailed(c, http.StatusUnprocessableEntity, msg, form)
		case errors.Is(err, domain.ErrBackendUnavailable):
			return h.registerFailed(c, http.StatusServiceUnavailable, "the clinic service is temporarily unavailable, please try again", form)
		default:
			return err
		}
	}
	return c.Redirect(http.StatusSeeOther, "/login?registered=1")
}

// Login handles the form submit. Failures re-render the form with an inline
// message and never navigate; success sets the session cookie and redirects
// to the remembered path or the role's landing page.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return h.loginFailed(c, http.StatusBadRequest, "invalid form submission", form)
	}
	if err := c.Validate(&form); err != nil {
		return h.loginFailed(c, http.StatusUnprocessableEntity, err.Error(), form)
	}

	sess, sid, err := h.sessions.Login(c.Request().Context(), form.Email, form.Password)
	if err != nil {
		var authErr *domain.AuthError
		switch {
		case errors.As(err, &authErr):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			msg := authErr.Message
			if msg == "" {
				msg = "invalid email or password"
			}
			return h.loginFailed(c, http.StatusUnauthorized, msg, form)
		case errors.Is(err, domain.ErrBackendUnavailable):
			metrics.LoginsTotal.WithLabelValues("backend_error").Inc()
			return h.loginFailed(c, http.StatusServiceUnavailable, "the clinic service is temporarily unavailable, please try again", form)
		default:
			metrics.LoginsTotal.WithLabelValues("backend_error").Inc()
			return err
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()

	token, err := h.codec.Issue(sid)
	if err != nil {
		h.sessions.Logout(c.Request().Context(), sid)
		return err
	}
	c.SetCookie(h.codec.Cookie(token, h.secureCookies))

	if target := safeNext(form.Next); target != "" {
		return c.Redirect(http.StatusSeeOther, target)
	}
	return c.Redirect(http.StatusSeeOther, roleHome(sess.Identity.Role))
}

// Logout tears down the session and always lands on the public home page,
// whatever happened upstream.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.Logout(c.Request().Context(), middleware.SessionID(c))
	c.SetCookie(middleware.ClearCookie())
	return c.Redirect(http.StatusSeeOther, "/")
}

// ShowProfile renders the profile form for any authenticated role.
func (h *AuthHandler) ShowProfile(c echo.Context) error {
	return c.Render(http.StatusOK, "profile", page(c, "My profile", nil))
}

// UpdateProfile merges edited fields into the identity. Role is untouchable
// from here; the backend assigns it.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var form profileForm
	if err := c.Bind(&form); err != nil {
		return c.Render(http.StatusBadRequest, "profile", page(c, "My profile", echo.Map{"Error": "invalid form submission"}))
	}
	if err := c.Validate(&form); err != nil {
		return c.Render(http.StatusUnprocessableEntity, "profile", page(c, "My profile", echo.Map{"Error": err.Error()}))
	}

	sid := middleware.SessionID(c)
	ident, err := h.sessions.UpdateIdentity(c.Request().Context(), sid, domain.IdentityUpdate{
		DisplayName: form.DisplayName,
		Email:       form.Email,
	})
	if err != nil {
		return err
	}

	// Re-inject so the rendered page shows the fresh identity.
	middleware.SetSession(c, domain.Session{Identity: ident, IsResolved: true}, sid)
	return c.Render(http.StatusOK, "profile", page(c, "My profile", echo.Map{"Saved": true}))
}

func (h *AuthHandler) registerFailed(c echo.Context, status int, msg string, form registerForm) error {
	return c.Render(status, "register", page(c, "Create an account", echo.Map{
		"Error":    msg,
		"FullName": form.FullName,
		"Email":    form.Email,
	}))
}

func (h *AuthHandler) loginFailed(c echo.Context, status int, msg string, form loginForm) error {
	return c.Render(status, "login", page(c, "Log in", echo.Map{
		"Error": msg,
		"Email": form.Email,
		"Next":  form.Next,
	}))
}

// roleHome maps each role to its landing page.
func roleHome(role domain.Role) string {
	switch role {
	case domain.RoleOwner:
		return "/owner"
	case domain.RoleEmployee:
		return "/employee"
	case domain.RoleVeterinarian:
		return "/vet"
	case domain.RoleAdministrator:
		return "/admin/dashboard"
	}
	return "/"
}

// safeNext accepts only same-site absolute paths, discarding anything that
// could turn the login redirect into an open redirect.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}
