package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"techify-quiz/internal/app"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Notes:
//   - Sessions themselves stay in a local map because the attempt in progress
//     is process-local state.
//   - Redis holds a liveness key per login with a TTL; once it expires the
//     login is treated as gone and the local copy is dropped.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.UserSession
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.UserSession),
	}
}

func (s *SessionStore) Save(session *app.UserSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token()] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(session.Token()), session.Identity().Email, s.ttl).Err()
}

// Get returns the session and refreshes its liveness TTL.
func (s *SessionStore) Get(token string) (*app.UserSession, bool) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	live, err := s.refresh(token)
	if err == nil && !live {
		s.Delete(token)
		return nil, false
	}
	return session, true
}

func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	_ = s.client.Del(context.Background(), s.key(token)).Err()
}

func (s *SessionStore) refresh(token string) (bool, error) {
	ctx := context.Background()
	if s.ttl <= 0 {
		n, err := s.client.Exists(ctx, s.key(token)).Result()
		return n > 0, err
	}
	return s.client.Expire(ctx, s.key(token), s.ttl).Result()
}

func (s *SessionStore) key(token string) string {
	return "quiz:session:" + token
}
