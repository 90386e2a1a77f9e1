package domain

import "time"

// Identity is the authenticated user as reported by the clinic backend.
// Role is immutable for the lifetime of a session; changing it requires
// re-authentication.
type Identity struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
}

// IdentityUpdate carries the profile fields a user may edit. Zero-value
// fields are left untouched; Role is deliberately absent.
type IdentityUpdate struct {
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Registration is the self-service signup payload. New accounts are always
// pet owners; staff roles are assigned by an administrator afterwards.
type Registration struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the portal-side view of "who is logged in". Identity is nil when
// logged out. IsResolved is false only for a Session that has not yet been
// checked against persisted state; the route guard refuses to act on an
// unresolved Session.
type Session struct {
	Identity   *Identity
	IsResolved bool
}

// Authenticated reports whether the session carries an identity.
func (s Session) Authenticated() bool {
	return s.Identity != nil
}

// Anonymous returns a resolved, logged-out Session.
func Anonymous() Session {
	return Session{IsResolved: true}
}

// SessionRecord is the persisted session snapshot: the single durable
// artifact this module owns. UpstreamCookie is the clinic backend's own
// session cookie, replayed on every request made on the user's behalf.
type SessionRecord struct {
	SID            string    `json:"sid"`
	Identity       Identity  `json:"identity"`
	UpstreamCookie string    `json:"upstreamCookie"`
	VerifiedAt     time.Time `json:"verifiedAt"`
}
