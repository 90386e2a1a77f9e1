package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vetcareservices/clinic-portal/internal/core/domain"
)

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	token, err := codec.Issue("sid-abc")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	sid, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sid != "sid-abc" {
		t.Fatalf("expected sid-abc, got %q", sid)
	}
}

func TestTokenCodec_RejectsTamperedToken(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)
	token, err := codec.Issue("sid-abc")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := codec.Decode(token + "x"); err == nil {
		t.Fatal("tampered token must not decode")
	}
}

func TestTokenCodec_RejectsForeignSecret(t *testing.T) {
	token, err := NewTokenCodec("secret-a", time.Hour).Issue("sid-abc")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewTokenCodec("secret-b", time.Hour).Decode(token); err == nil {
		t.Fatal("token signed with another secret must not decode")
	}
}

func TestTokenCodec_RejectsExpiredToken(t *testing.T) {
	codec := NewTokenCodec("test-secret", -time.Minute)
	token, err := codec.Issue("sid-abc")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := codec.Decode(token); err == nil {
		t.Fatal("expired token must not decode")
	}
}

func TestClearCookie_ExpiresInThePast(t *testing.T) {
	ck := ClearCookie()
	if ck.Name != SessionCookieName {
		t.Fatalf("unexpected cookie name %q", ck.Name)
	}
	if !ck.Expires.Before(time.Now()) {
		t.Fatal("clearing cookie must expire in the past")
	}
}

// stubStore implements ports.SessionStore for the resolve middleware.
type stubStore struct {
	sessions map[string]domain.Session
	touched  []string
}

func (s *stubStore) Resolve(_ context.Context, sid string) domain.Session {
	if sess, ok := s.sessions[sid]; ok {
		return sess
	}
	return domain.Anonymous()
}

func (s *stubStore) Login(context.Context, string, string) (domain.Session, string, error) {
	return domain.Anonymous(), "", nil
}

func (s *stubStore) Logout(context.Context, string) {}

func (s *stubStore) UpdateIdentity(context.Context, string, domain.IdentityUpdate) (*domain.Identity, error) {
	return nil, domain.ErrNoActiveSession
}

func (s *stubStore) Touch(sid string) { s.touched = append(s.touched, sid) }

func (s *stubStore) UpstreamCookie(context.Context, string) (string, error) {
	return "", domain.ErrNoActiveSession
}

func resolveRequest(t *testing.T, store *stubStore, codec TokenCodec, cookie *http.Cookie) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := ResolveSession(store, codec)(func(c echo.Context) error { return nil })
	if err := handler(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	return c
}

func TestResolveSession_ValidCookie(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)
	token, err := codec.Issue("sid-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	store := &stubStore{sessions: map[string]domain.Session{
		"sid-1": {Identity: &domain.Identity{ID: 1, Role: domain.RoleOwner}, IsResolved: true},
	}}

	c := resolveRequest(t, store, codec, &http.Cookie{Name: SessionCookieName, Value: token})

	sess := CurrentSession(c)
	if !sess.Authenticated() {
		t.Fatal("expected authenticated session")
	}
	if SessionID(c) != "sid-1" {
		t.Fatalf("expected sid-1, got %q", SessionID(c))
	}
	if len(store.touched) != 1 || store.touched[0] != "sid-1" {
		t.Fatalf("every authenticated request counts as activity, touched=%v", store.touched)
	}
}

func TestResolveSession_NoCookieIsAnonymous(t *testing.T) {
	store := &stubStore{}
	c := resolveRequest(t, store, NewTokenCodec("test-secret", time.Hour), nil)

	sess := CurrentSession(c)
	if !sess.IsResolved || sess.Authenticated() {
		t.Fatalf("expected resolved anonymous session, got %+v", sess)
	}
	if SessionID(c) != "" {
		t.Fatalf("expected empty sid, got %q", SessionID(c))
	}
	if len(store.touched) != 0 {
		t.Fatal("anonymous requests are not activity")
	}
}

func TestResolveSession_GarbageCookieIsAnonymous(t *testing.T) {
	store := &stubStore{}
	c := resolveRequest(t, store, NewTokenCodec("test-secret", time.Hour),
		&http.Cookie{Name: SessionCookieName, Value: "not-a-token"})

	if CurrentSession(c).Authenticated() {
		t.Fatal("garbage cookie must degrade to anonymous")
	}
}

func TestResolveSession_StaleSIDIsAnonymous(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)
	token, err := codec.Issue("sid-gone")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	store := &stubStore{}
	c := resolveRequest(t, store, codec, &http.Cookie{Name: SessionCookieName, Value: token})

	if CurrentSession(c).Authenticated() {
		t.Fatal("a valid token for a dead session must degrade to anonymous")
	}
	if SessionID(c) != "" {
		t.Fatal("dead sessions leave no sid in the request context")
	}
}
