package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vetcareservices/clinic-portal/internal/api/middleware"
	"github.com/vetcareservices/clinic-portal/internal/api/render"
	"github.com/vetcareservices/clinic-portal/internal/core/domain"
	"github.com/vetcareservices/clinic-portal/internal/core/ports"
)

type stubSessionStore struct {
	loginFn  func(ctx context.Context, email, password string) (domain.Session, string, error)
	updateFn func(ctx context.Context, sid string, update domain.IdentityUpdate) (*domain.Identity, error)
	cookie   string

	loggedOut []string
}

func (s *stubSessionStore) Resolve(context.Context, string) domain.Session {
	return domain.Anonymous()
}

func (s *stubSessionStore) Login(ctx context.Context, email, password string) (domain.Session, string, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubSessionStore) Logout(_ context.Context, sid string) {
	s.loggedOut = append(s.loggedOut, sid)
}

func (s *stubSessionStore) UpdateIdentity(ctx context.Context, sid string, update domain.IdentityUpdate) (*domain.Identity, error) {
	return s.updateFn(ctx, sid, update)
}

func (s *stubSessionStore) Touch(string) {}

func (s *stubSessionStore) UpstreamCookie(context.Context, string) (string, error) {
	if s.cookie != "" {
		return s.cookie, nil
	}
	return "", domain.ErrNoActiveSession
}

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	renderer, err := render.New()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e.Renderer = renderer
	return e
}

func ownerSession() (domain.Session, string) {
	return domain.Session{
		Identity:   &domain.Identity{ID: 7, DisplayName: "Ana", Email: "ana@example.com", Role: domain.RoleOwner},
		IsResolved: true,
	}, "sid-1"
}

func loginRequest(t *testing.T, e *echo.Echo, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookieName {
			return ck
		}
	}
	return nil
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho(t)
	store := &stubSessionStore{
		loginFn: func(ctx context.Context, email, password string) (domain.Session, string, error) {
			if email != "ana@example.com" || password != "secret" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			sess, sid := ownerSession()
			return sess, sid, nil
		},
	}
	h := NewAuthHandler(store, nil, middleware.NewTokenCodec("test-secret", time.Hour), false)

	c, rec := loginRequest(t, e, url.Values{"email": {"ana@example.com"}, "password": {"secret"}})
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/owner" {
		t.Fatalf("expected redirect to /owner, got %q", loc)
	}

	ck := sessionCookie(rec)
	if ck == nil {
		t.Fatal("expected the session cookie to be set")
	}
	if !ck.HttpOnly {
		t.Fatal("session cookie must be HttpOnly")
	}
	sid, err := middleware.NewTokenCodec("test-secret", time.Hour).Decode(ck.Value)
	if err != nil || sid != "sid-1" {
		t.Fatalf("cookie must carry the signed sid: %q %v", sid, err)
	}
}

func TestAuthHandler_Login_HonorsNext(t *testing.T) {
	e := newTestEcho(t)
	store := &stubSessionStore{
		loginFn: func(ctx context.Context, email, password string) (domain.Session, string, error) {
			sess, sid := ownerSession()
			return sess, sid, nil
		},
	}
	h := NewAuthHandler(store, nil, middleware.NewTokenCodec("test-secret", time.Hour), false)

	c, rec := loginRequest(t, e, url.Values{
		"email":    {"ana@example.com"},
		"password": {"secret"},
		"next":     {"/owner/appointments"},
	})
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/owner/appointments" {
		t.Fatalf("expected redirect to remembered path, got %q", loc)
	}
}

func TestAuthHandler_Login_RejectsOpenRedirect(t *testing.T) {
	e := newTestEcho(t)
	store := &stubSessionStore{
		loginFn: func(ctx context.Context, email, password string) (domain.Session, string, error) {
			sess, sid := ownerSession()
			return sess, sid, nil
		},
	}
	h := NewAuthHandler(store, nil, middleware.NewTokenCodec("test-secret", time.Hour), false)

	for _, next := range []string{"//evil.example.com/", "https://evil.example.com/"} {
		c, rec := loginRequest(t, e, url.Values{
			"email":    {"ana@example.com"},
			"password": {"secret"},
			"next":     {next},
		})
		if err := h.Login(c); err != nil {
			t.Fatalf("login: %v", err)
		}
		if loc := rec.Header().Get(echo.HeaderLocation); loc != "/owner" {
			t.Fatalf("next=%q must fall back to the role home, got %q", next, loc)
		}
	}
}

func TestAuthHandler_Login_InvalidCredentialsStaysOnForm(t *testing.T) {
	e := newTestEcho(t)
	store := &stubSessionStore{
		loginFn: func(ctx context.Context, email, password string) (domain.Session, string, error) {
			return domain.Anonymous(), "", &domain.AuthError{Status: 401, Message: "invalid email or password"}
		},
	}
	h := NewAuthHandler(store, nil, middleware.NewTokenCodec("test-secret", time.Hour), false)

	c, rec := loginRequest(t, e, url.Values{"email": {"ana@example.com"}, "password": {"wrong"}})
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "" {
		t.Fatalf("a rejected login must not navigate, got Location %q", loc)
	}
	if sessionCookie(rec) != nil {
		t.Fatal("no session cookie on a rejected login")
	}
	if !strings.Contains(rec.Body.String(), "invalid email or password") {
		t.Fatal("expected the inline error message on the form")
	}
	// The submitted email survives the re-render; the password never does.
	if !strings.Contains(rec.Body.String(), "ana@example.com") {
		t.Fatal("expected the email to be preserved on the form")
	}
	if strings.Contains(rec.Body.String(), "wrong") {
		t.Fatal("the password must never be echoed back")
	}
}

func TestAuthHandler_Login_BackendUnavailable(t *testing.T) {
	e := newTestEcho(t)
	store := &stubSessionStore{
		loginFn: func(ctx context.Context, email, password string) (domain.Session, string, error) {
			return domain.Anonymous(), "", domain.ErrBackendUnavailable
		},
	}
	h := NewAuthHandler(store, nil, middleware.NewTokenCodec("test-secret", time.Hour), false)

	c, rec := loginRequest(t, e, url.Values{"email": {"ana@example.com"}, "password": {"secret"}})
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "" {
		t.Fatalf("outage must not navigate, got Location %q", loc)
	}
}

func TestAuthHandler_Login_MissingFieldsRejectedLocally(t *testing.T) {
	e := newTestEcho(t)
	store := &stubSessionStore{
		loginFn: func(ctx context.Context, email, password string) (domain.Session, string, error) {
			t.Fatal("the backend must not be called for an invalid form")
			return domain.Anonymous(), "", nil
		},
	}
	h := NewAuthHandler(store, nil, middleware.NewTokenCodec("test-secret", time.Hour), false)

	c, rec := loginRequest(t, e, url.Values{"email": {"not-an-email"}})
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho(t)
	store := &stubSessionStore{}
	h := NewAuthHandler(store, nil, middleware.NewTokenCodec("test-secret", time.Hour), false)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetSession(c, domain.Session{Identity: &domain.Identity{ID: 7, Role: domain.RoleOwner}, IsResolved: true}, "sid-1")

	if err := h.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("expected 303 to /, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if len(store.loggedOut) != 1 || store.loggedOut[0] != "sid-1" {
		t.Fatalf("expected the session to be torn down, got %v", store.loggedOut)
	}
	ck := sessionCookie(rec)
	if ck == nil || !ck.Expires.Before(time.Now()) {
		t.Fatal("logout must clear the session cookie")
	}
}

func TestAuthHandler_ShowLogin_RedirectsAuthenticated(t *testing.T) {
	e := newTestEcho(t)
	store := &stubSessionStore{}
	h := NewAuthHandler(store, nil, middleware.NewTokenCodec("test-secret", time.Hour), false)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetSession(c, domain.Session{Identity: &domain.Identity{ID: 7, Role: domain.RoleVeterinarian}, IsResolved: true}, "sid-1")

	if err := h.ShowLogin(c); err != nil {
		t.Fatalf("show login: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/vet" {
		t.Fatalf("expected 303 to /vet, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

// stubAuthGateway covers only registration; the session store owns every
// other auth call.
type stubAuthGateway struct {
	ports.AuthGateway

	registerFn func(ctx context.Context, reg domain.Registration) error
}

func (s *stubAuthGateway) Register(ctx context.Context, reg domain.Registration) error {
	return s.registerFn(ctx, reg)
}

func registerRequest(t *testing.T, e *echo.Echo, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho(t)
	auth := &stubAuthGateway{
		registerFn: func(ctx context.Context, reg domain.Registration) error {
			if reg.FullName != "Ana Torres" || reg.Email != "ana@example.com" || reg.Password != "hunter2hunter2" {
				t.Fatalf("unexpected registration payload: %+v", reg)
			}
			return nil
		},
	}
	h := NewAuthHandler(&stubSessionStore{}, auth, middleware.NewTokenCodec("test-secret", time.Hour), false)

	c, rec := registerRequest(t, e, url.Values{
		"fullName": {"Ana Torres"},
		"email":    {"ana@example.com"},
		"password": {"hunter2hunter2"},
		"confirm":  {"hunter2hunter2"},
	})
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login?registered=1" {
		t.Fatalf("expected redirect to the login form, got %q", loc)
	}
	if sessionCookie(rec) != nil {
		t.Fatal("registration must not establish a session")
	}
}

func TestAuthHandler_Register_DuplicateEmailStaysOnForm(t *testing.T) {
	e := newTestEcho(t)
	auth := &stubAuthGateway{
		registerFn: func(ctx context.Context, reg domain.Registration) error {
			return &domain.AuthError{Status: http.StatusConflict, Message: "email already registered"}
		},
	}
	h := NewAuthHandler(&stubSessionStore{}, auth, middleware.NewTokenCodec("test-secret", time.Hour), false)

	c, rec := registerRequest(t, e, url.Values{
		"fullName": {"Ana Torres"},
		"email":    {"ana@example.com"},
		"password": {"hunter2hunter2"},
		"confirm":  {"hunter2hunter2"},
	})
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "" {
		t.Fatalf("a rejected signup must not navigate, got Location %q", loc)
	}
	if !strings.Contains(rec.Body.String(), "email already registered") {
		t.Fatal("expected the backend's reason inline on the form")
	}
	if !strings.Contains(rec.Body.String(), "Ana Torres") {
		t.Fatal("expected the submitted name to be preserved on the form")
	}
}

func TestAuthHandler_Register_PasswordMismatchRejectedLocally(t *testing.T) {
	e := newTestEcho(t)
	auth := &stubAuthGateway{
		registerFn: func(ctx context.Context, reg domain.Registration) error {
			t.Fatal("the backend must not be called for a mismatched confirmation")
			return nil
		},
	}
	h := NewAuthHandler(&stubSessionStore{}, auth, middleware.NewTokenCodec("test-secret", time.Hour), false)

	c, rec := registerRequest(t, e, url.Values{
		"fullName": {"Ana Torres"},
		"email":    {"ana@example.com"},
		"password": {"hunter2hunter2"},
		"confirm":  {"different-password"},
	})
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	e := newTestEcho(t)
	store := &stubSessionStore{
		updateFn: func(ctx context.Context, sid string, update domain.IdentityUpdate) (*domain.Identity, error) {
			if sid != "sid-1" {
				t.Fatalf("unexpected sid %q", sid)
			}
			return &domain.Identity{ID: 7, DisplayName: update.DisplayName, Email: update.Email, Role: domain.RoleOwner}, nil
		},
	}
	h := NewAuthHandler(store, nil, middleware.NewTokenCodec("test-secret", time.Hour), false)

	form := url.Values{"displayName": {"Ana T."}, "email": {"ana.t@example.com"}}
	req := httptest.NewRequest(http.MethodPost, "/profile", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	sess, sid := ownerSession()
	middleware.SetSession(c, sess, sid)

	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Ana T.") {
		t.Fatal("expected the refreshed identity on the page")
	}
}
