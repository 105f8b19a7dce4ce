package service

import (
	"sync"
	"time"
)

// DefaultSessionTTL bounds how long a configuration session stays live
// without being refreshed.
const DefaultSessionTTL = 15 * time.Minute

// Session is a short-lived, in-process configuration scratchpad for one
// actor. Multi-step setup flows stash intermediate choices here so they
// survive independent interactions without editing the original ephemeral
// message. Sessions are not persisted; losing them on restart is fine.
type Session struct {
	ActorID    int64
	Config     map[string]string
	StartedAt  time.Time
	LastUpdate time.Time
	Version    int
}

// SessionStore holds per-actor sessions with a single TTL policy. Expired
// sessions are treated as absent and purged lazily on the next read.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[int64]*Session
	now      func() time.Time
}

// NewSessionStore creates a session store with the given TTL; a
// non-positive TTL falls back to DefaultSessionTTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[int64]*Session),
		now:      time.Now,
	}
}

// Start creates (or replaces) the actor's session with the given initial
// config and returns a copy of it.
func (s *SessionStore) Start(actorID int64, initial map[string]string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	session := &Session{
		ActorID:    actorID,
		Config:     make(map[string]string, len(initial)),
		StartedAt:  now,
		LastUpdate: now,
		Version:    1,
	}
	for k, v := range initial {
		session.Config[k] = v
	}
	s.sessions[actorID] = session

	return session.snapshot()
}

// Get returns a copy of the actor's live session. A session past its TTL is
// purged and reported as absent.
func (s *SessionStore) Get(actorID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.live(actorID)
	if session == nil {
		return Session{}, false
	}
	return session.snapshot(), true
}

// Mutate applies fn to the session's config map, bumps the version and
// refreshes the last-update timestamp. It reports false if no live session
// exists for the actor.
func (s *SessionStore) Mutate(actorID int64, fn func(config map[string]string)) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.live(actorID)
	if session == nil {
		return Session{}, false
	}

	fn(session.Config)
	session.Version++
	session.LastUpdate = s.now()

	return session.snapshot(), true
}

// End removes the actor's session if present
func (s *SessionStore) End(actorID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, actorID)
}

// Extend pushes the session's expiry out by refreshing its last-update
// timestamp forward by the given extra duration. It reports false if no
// live session exists.
func (s *SessionStore) Extend(actorID int64, extra time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.live(actorID)
	if session == nil {
		return false
	}

	session.LastUpdate = s.now().Add(extra)
	return true
}

// PurgeExpired drops every expired session and returns how many were removed
func (s *SessionStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	cutoff := s.now().Add(-s.ttl)
	for actorID, session := range s.sessions {
		if session.LastUpdate.Before(cutoff) {
			delete(s.sessions, actorID)
			purged++
		}
	}
	return purged
}

// live returns the actor's session if still within TTL, purging it otherwise.
// Callers must hold the mutex.
func (s *SessionStore) live(actorID int64) *Session {
	session, ok := s.sessions[actorID]
	if !ok {
		return nil
	}
	if s.now().Sub(session.LastUpdate) > s.ttl {
		delete(s.sessions, actorID)
		return nil
	}
	return session
}

func (session *Session) snapshot() Session {
	copied := *session
	copied.Config = make(map[string]string, len(session.Config))
	for k, v := range session.Config {
		copied.Config[k] = v
	}
	return copied
}
