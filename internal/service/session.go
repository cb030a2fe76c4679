package service

import "sync"

// Session holds at most one bearer token. The token is opaque and never
// checked here.
type Session struct {
	mu    sync.RWMutex
	token string
}

// SetToken replaces the held token. An empty token clears the slot.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// CurrentToken returns the held token and whether one is present
func (s *Session) CurrentToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}
