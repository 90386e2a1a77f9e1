package ports

import (
	"context"

	"github.com/vetcareservices/clinic-portal/internal/core/domain"
)

// SessionStore is the single source of truth for "who is logged in".
type SessionStore interface {
	// Resolve recovers the session identified by sid from persisted state,
	// revalidating it upstream when stale. The returned Session is always
	// resolved; recovery failures degrade to a logged-out session and are
	// never surfaced.
	Resolve(ctx context.Context, sid string) domain.Session

	// Login establishes a new session. On success it returns the resolved
	// session and the new session ID. Credential rejections surface as
	// *domain.AuthError.
	Login(ctx context.Context, email, password string) (domain.Session, string, error)

	// Logout tears the session down. Best-effort upstream, guaranteed
	// locally; it never fails visibly.
	Logout(ctx context.Context, sid string)

	// UpdateIdentity merges profile fields into the active identity and
	// re-persists the snapshot. Fails with domain.ErrNoActiveSession when no
	// identity is active. Role is never changed.
	UpdateIdentity(ctx context.Context, sid string, update domain.IdentityUpdate) (*domain.Identity, error)

	// Touch records user activity, resetting the inactivity window.
	Touch(sid string)

	// UpstreamCookie exposes the backend cookie for the given session so
	// page handlers can call the clinic API on the user's behalf.
	UpstreamCookie(ctx context.Context, sid string) (string, error)
}

// SessionRepository persists session snapshots. Find returns
// domain.ErrNotFound for unknown or expired sids.
type SessionRepository interface {
	Save(ctx context.Context, rec *domain.SessionRecord) error
	Find(ctx context.Context, sid string) (*domain.SessionRecord, error)
	Delete(ctx context.Context, sid string) error
}
