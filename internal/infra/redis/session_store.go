package redis

import (
	"context"
	"sync"
	"time"

	"culture-millionaire/internal/app"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Engines hold timers and subscribers, so they live in a local map; Redis only
// marks which players have a live game on this instance.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	logger   *zap.Logger
	mu       sync.RWMutex
	sessions map[string]*app.Engine
}

func NewSessionStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		logger:   logger,
		sessions: make(map[string]*app.Engine),
	}
}

func (s *SessionStore) PutIfAbsent(playerID string, engine *app.Engine) *app.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[playerID]; ok {
		return existing
	}
	s.sessions[playerID] = engine
	// the marker is best-effort; the engine is usable without it
	if err := s.client.Set(context.Background(), s.key(playerID), "1", s.ttl).Err(); err != nil {
		s.logger.Warn("set session marker failed", zap.String("player_id", playerID), zap.Error(err))
	}
	return engine
}

func (s *SessionStore) Get(playerID string) (*app.Engine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	engine, ok := s.sessions[playerID]
	return engine, ok
}

func (s *SessionStore) Delete(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[playerID]; !ok {
		return
	}
	delete(s.sessions, playerID)
	if err := s.client.Del(context.Background(), s.key(playerID)).Err(); err != nil {
		s.logger.Warn("clear session marker failed", zap.String("player_id", playerID), zap.Error(err))
	}
}

// Touch extends the liveness marker of a player still connected.
func (s *SessionStore) Touch(ctx context.Context, playerID string) error {
	if s.ttl <= 0 {
		return nil
	}
	return s.client.Expire(ctx, s.key(playerID), s.ttl).Err()
}

func (s *SessionStore) key(playerID string) string {
	return "game:session:" + playerID
}
