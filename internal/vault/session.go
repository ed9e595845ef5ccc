package vault

import "sync"

// SessionKey is the process-lifetime holder of the current derived key.
// Single slot, in-memory only: a second Set overwrites the first, and
// Clear is the only way the key leaves memory. Nothing here ever
// touches disk or logs.
type SessionKey struct {
	mu  sync.Mutex
	key []byte
}

// Set stores key for the session, replacing any previous key.
func (s *SessionKey) Set(key []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = make([]byte, len(key))
	copy(s.key, key)
}

// Get returns the current key and whether one is set. Absence is the
// canonical logged-out state; callers must treat it as
// ErrAuthenticationRequired, never re-derive from a cached password.
func (s *SessionKey) Get() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key == nil {
		return nil, false
	}
	key := make([]byte, len(s.key))
	copy(key, s.key)
	return key, true
}

// Clear drops the key. Safe to call on an already-cleared session.
func (s *SessionKey) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.key {
		s.key[i] = 0
	}
	s.key = nil
}
