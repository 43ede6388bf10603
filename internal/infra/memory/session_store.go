package memory

import (
	"sync"

	"techify-quiz/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.UserSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.UserSession),
	}
}

func (s *SessionStore) Save(session *app.UserSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token()] = session
}

func (s *SessionStore) Get(token string) (*app.UserSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	return session, ok
}

func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}
