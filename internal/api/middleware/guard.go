package middleware

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/vetcareservices/clinic-portal/internal/api/metrics"
	"github.com/vetcareservices/clinic-portal/internal/core/domain"
)

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// AccessRule is the set of roles permitted to view a protected destination.
// Rules are static: built once at route registration, never mutated.
type AccessRule struct {
	allowed map[domain.Role]struct{}
}

// NewAccessRule builds a rule from one or more roles. An empty or invalid
// rule is a programming error and panics at registration time, so a route
// nobody could ever reach cannot ship.
func NewAccessRule(roles ...domain.Role) AccessRule {
	if len(roles) == 0 {
		panic("guard: access rule must allow at least one role")
	}
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		if !r.Valid() {
			panic(fmt.Sprintf("guard: unknown role %q in access rule", r))
		}
		allowed[r] = struct{}{}
	}
	return AccessRule{allowed: allowed}
}

// AnyRole permits every authenticated user regardless of role.
func AnyRole() AccessRule {
	return NewAccessRule(domain.AllRoles()...)
}

// Allows reports whether the role may view the destination.
func (r AccessRule) Allows(role domain.Role) bool {
	_, ok := r.allowed[role]
	return ok
}

// Guard decides render vs redirect for a navigation, purely from the Session
// snapshot injected by ResolveSession:
//
//   - unresolved session: refuse with 503 and no redirect, so an
//     authenticated user is never bounced to the login page by a decision
//     taken too early. Cannot happen while the middleware chain is intact.
//   - no identity: redirect to the login page, remembering the requested
//     path so login can return the user there (best-effort).
//   - identity without a permitted role: redirect to the access-denied page;
//     the protected content is never rendered, not even momentarily.
//   - permitted role: render.
func Guard(rule AccessRule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := CurrentSession(c)

			if !sess.IsResolved {
				metrics.GuardDecisionsTotal.WithLabelValues("pending").Inc()
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session not resolved")
			}

			if !sess.Authenticated() {
				metrics.GuardDecisionsTotal.WithLabelValues("login_redirect").Inc()
				target := LoginPath + "?next=" + url.QueryEscape(c.Request().URL.RequestURI())
				return c.Redirect(http.StatusSeeOther, target)
			}

			if !rule.Allows(sess.Identity.Role) {
				metrics.GuardDecisionsTotal.WithLabelValues("unauthorized_redirect").Inc()
				return c.Redirect(http.StatusSeeOther, UnauthorizedPath)
			}

			metrics.GuardDecisionsTotal.WithLabelValues("allowed").Inc()
			return next(c)
		}
	}
}
