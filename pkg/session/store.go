package session

import "sync"

// Store owns the process-wide session. All mutation goes through Set and
// Clear so the session is never left half-populated.
type Store struct {
	mu      sync.RWMutex
	current Session
}

func NewStore() *Store {
	return &Store{}
}

// Set replaces the session atomically. Authorization checks made after Set
// returns see the new identity.
func (s *Store) Set(userID string, isAdmin bool, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Session{UserID: userID, IsAdmin: isAdmin, Token: token}
}

// Clear resets to the anonymous state and discards the token.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Session{}
}

// IsAuthenticated reports whether a token is held. No local expiry check is
// made; the server is the judge of the token on every request.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token != ""
}

// IsAdmin is always false for the anonymous session.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.IsAdmin
}

// Token returns the current bearer token, empty when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// Snapshot returns a copy of the current session for rendering.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
