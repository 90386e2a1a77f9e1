package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/vetcareservices/clinic-portal/internal/core/domain"
	"github.com/vetcareservices/clinic-portal/internal/core/ports"
)

const (
	sessionContextKey = "portal_session"
	sidContextKey     = "portal_sid"
)

// ResolveSession recovers the session referenced by the portal cookie and
// injects it into the request context. Every downstream handler sees a
// resolved Session: a missing, malformed or expired cookie degrades to a
// resolved anonymous session, never an error. Each authenticated request
// counts as user activity.
func ResolveSession(store ports.SessionStore, codec TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(SessionCookieName); err == nil {
				if s, err := codec.Decode(ck.Value); err == nil {
					sid = s
				}
			}

			sess := store.Resolve(c.Request().Context(), sid)
			if sess.Authenticated() {
				store.Touch(sid)
			} else {
				sid = ""
			}

			c.Set(sessionContextKey, sess)
			c.Set(sidContextKey, sid)
			return next(c)
		}
	}
}

// CurrentSession returns the Session injected by ResolveSession. When the
// middleware did not run, the zero Session (unresolved) is returned and the
// route guard refuses to decide.
func CurrentSession(c echo.Context) domain.Session {
	sess, _ := c.Get(sessionContextKey).(domain.Session)
	return sess
}

// SessionID returns the authenticated session's ID, or "" when anonymous.
func SessionID(c echo.Context) string {
	sid, _ := c.Get(sidContextKey).(string)
	return sid
}

// SetSession overrides the injected session for the remainder of the request.
// Used by the login handler after establishing a fresh session, and by tests.
func SetSession(c echo.Context, sess domain.Session, sid string) {
	c.Set(sessionContextKey, sess)
	c.Set(sidContextKey, sid)
}
