package redis

import (
	"context"
	"sync"
	"time"

	"quadquiz-service/internal/game"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Game sessions stay in a local in-memory map: the state machine is a
//     single-writer object driven by one connection.
//   - Redis marks session liveness so an operator can see active games and a
//     future multi-instance deployment can route connections.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*game.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*game.Session),
	}
}

func (s *SessionStore) Save(session *game.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(session.ID()), "1", s.ttl).Err()
}

func (s *SessionStore) Get(gameID string) (*game.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[gameID]
	return session, ok
}

func (s *SessionStore) Delete(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, gameID)
	_ = s.client.Del(context.Background(), s.key(gameID)).Err()
}

func (s *SessionStore) key(gameID string) string {
	return "quiz:game:" + gameID
}
