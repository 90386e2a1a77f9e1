package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vetcareservices/clinic-portal/internal/api/metrics"
	"github.com/vetcareservices/clinic-portal/internal/core/domain"
	"github.com/vetcareservices/clinic-portal/internal/core/ports"
)

const (
	defaultIdleTimeout   = 5 * time.Minute
	defaultRefreshWindow = 2 * time.Minute
	expireCallTimeout    = 10 * time.Second
)

// SessionStore implements ports.SessionStore. It owns the persisted session
// snapshots and, for each active session, a single inactivity timer that
// logs the session out after the idle window elapses without a Touch.
type SessionStore struct {
	auth          ports.AuthGateway
	sessions      ports.SessionRepository
	idleTimeout   time.Duration
	refreshWindow time.Duration
	log           zerolog.Logger

	mu       sync.Mutex
	watchers map[string]*time.Timer
	closed   bool
}

// NewSessionStore wires a SessionStore. Non-positive durations fall back to
// the defaults (5m idle, 2m revalidation).
func NewSessionStore(auth ports.AuthGateway, sessions ports.SessionRepository, idleTimeout, refreshWindow time.Duration, log zerolog.Logger) *SessionStore {
	if idleTimeout <= 0 {
		idleTimeout = defaultIdleTimeout
	}
	if refreshWindow <= 0 {
		refreshWindow = defaultRefreshWindow
	}
	return &SessionStore{
		auth:          auth,
		sessions:      sessions,
		idleTimeout:   idleTimeout,
		refreshWindow: refreshWindow,
		log:           log,
		watchers:      make(map[string]*time.Timer),
	}
}

// Resolve recovers the session for sid. Recovery is defined to always leave
// the session in a well-known state: any failure degrades to logged-out and
// is logged, never propagated.
func (s *SessionStore) Resolve(ctx context.Context, sid string) domain.Session {
	if sid == "" {
		return domain.Anonymous()
	}

	rec, err := s.sessions.Find(ctx, sid)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Err(err).Msg("session snapshot unavailable, treating as logged out")
		}
		s.releaseWatcher(sid)
		return domain.Anonymous()
	}

	if time.Since(rec.VerifiedAt) > s.refreshWindow {
		ident, err := s.auth.CurrentIdentity(ctx, rec.UpstreamCookie)
		switch {
		case errors.Is(err, domain.ErrSessionExpired):
			// Expected when the backend cookie lapsed; clear and move on.
			s.log.Debug().Str("sid", sid).Msg("upstream session expired, clearing snapshot")
			s.discard(ctx, sid)
			return domain.Anonymous()
		case err != nil:
			// Any failed recovery serves the logged-out UI. The persisted
			// state goes too, so every tab agrees; the user logs back in
			// once the backend answers again.
			s.log.Warn().Err(err).Str("sid", sid).Msg("session revalidation failed, treating as logged out")
			s.discard(ctx, sid)
			return domain.Anonymous()
		default:
			rec.Identity = *ident
			rec.VerifiedAt = time.Now().UTC()
			if err := s.sessions.Save(ctx, rec); err != nil {
				s.log.Warn().Err(err).Str("sid", sid).Msg("failed to re-persist refreshed snapshot")
			}
		}
	}

	s.armWatcher(sid)
	identity := rec.Identity
	return domain.Session{Identity: &identity, IsResolved: true}
}

// Login confirms credentials upstream, fetches the canonical identity and
// persists the snapshot. The snapshot and the returned session are built from
// the same record, so the two can never disagree.
func (s *SessionStore) Login(ctx context.Context, email, password string) (domain.Session, string, error) {
	cookie, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return domain.Anonymous(), "", err
	}

	ident, err := s.auth.CurrentIdentity(ctx, cookie)
	if err != nil {
		return domain.Anonymous(), "", err
	}

	rec := &domain.SessionRecord{
		SID:            uuid.NewString(),
		Identity:       *ident,
		UpstreamCookie: cookie,
		VerifiedAt:     time.Now().UTC(),
	}
	if err := s.sessions.Save(ctx, rec); err != nil {
		return domain.Anonymous(), "", err
	}

	s.armWatcher(rec.SID)
	s.log.Info().Int64("user_id", ident.ID).Str("role", string(ident.Role)).Msg("login succeeded")

	identity := rec.Identity
	return domain.Session{Identity: &identity, IsResolved: true}, rec.SID, nil
}

// Logout invalidates the upstream session best-effort and always clears the
// local snapshot. It never fails visibly.
func (s *SessionStore) Logout(ctx context.Context, sid string) {
	if sid == "" {
		return
	}

	rec, err := s.sessions.Find(ctx, sid)
	if err == nil {
		if err := s.auth.Logout(ctx, rec.UpstreamCookie); err != nil {
			s.log.Warn().Err(err).Str("sid", sid).Msg("upstream logout failed, clearing local state anyway")
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.log.Warn().Err(err).Str("sid", sid).Msg("snapshot lookup failed during logout")
	}

	s.discard(ctx, sid)
}

// UpdateIdentity merges profile fields into the active identity via the
// backend and re-persists the snapshot. Role is carried over untouched.
func (s *SessionStore) UpdateIdentity(ctx context.Context, sid string, update domain.IdentityUpdate) (*domain.Identity, error) {
	rec, err := s.sessions.Find(ctx, sid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoActiveSession
		}
		return nil, err
	}

	ident, err := s.auth.UpdateProfile(ctx, rec.UpstreamCookie, rec.Identity.ID, update)
	if err != nil {
		return nil, err
	}

	ident.Role = rec.Identity.Role
	rec.Identity = *ident
	rec.VerifiedAt = time.Now().UTC()
	if err := s.sessions.Save(ctx, rec); err != nil {
		return nil, err
	}

	identity := rec.Identity
	return &identity, nil
}

// Touch records user activity and resets the inactivity timer. Sessions
// without an identity have no watcher, so a Touch on them is a no-op.
func (s *SessionStore) Touch(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.watchers[sid]; ok {
		t.Reset(s.idleTimeout)
	}
}

// UpstreamCookie returns the backend cookie for sid so handlers can call the
// clinic API on the user's behalf.
func (s *SessionStore) UpstreamCookie(ctx context.Context, sid string) (string, error) {
	rec, err := s.sessions.Find(ctx, sid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNoActiveSession
		}
		return "", err
	}
	return rec.UpstreamCookie, nil
}

// Close stops every inactivity timer. Snapshots are left in place; their TTL
// reaps them if the portal never comes back.
func (s *SessionStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for sid, t := range s.watchers {
		t.Stop()
		delete(s.watchers, sid)
	}
}

// discard removes the snapshot and the watcher. Deletion failures are logged;
// the repository TTL guarantees eventual cleanup.
func (s *SessionStore) discard(ctx context.Context, sid string) {
	if err := s.sessions.Delete(ctx, sid); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.log.Error().Err(err).Str("sid", sid).Msg("failed to delete session snapshot")
	}
	s.releaseWatcher(sid)
}

// armWatcher ensures exactly one inactivity timer exists for sid.
func (s *SessionStore) armWatcher(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if t, ok := s.watchers[sid]; ok {
		t.Reset(s.idleTimeout)
		return
	}
	s.watchers[sid] = time.AfterFunc(s.idleTimeout, func() { s.expireIdle(sid) })
}

func (s *SessionStore) releaseWatcher(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.watchers[sid]; ok {
		t.Stop()
		delete(s.watchers, sid)
	}
}

func (s *SessionStore) expireIdle(sid string) {
	ctx, cancel := context.WithTimeout(context.Background(), expireCallTimeout)
	defer cancel()

	s.log.Info().Str("sid", sid).Dur("idle_timeout", s.idleTimeout).Msg("session idle, logging out")
	metrics.IdleLogoutsTotal.Inc()
	s.Logout(ctx, sid)
}
