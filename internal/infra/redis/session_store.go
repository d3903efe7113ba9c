package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"timed-quiz-service/internal/domain"
)

// SessionStore keeps quiz sessions in Redis as JSON under
// quiz:session:<id>, with a TTL so abandoned attempts expire on their own.
// State is fully serialized, so any instance behind a load balancer can
// continue an attempt.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Get(ctx context.Context, id string) (domain.QuizSession, bool, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.QuizSession{}, false, nil
	}
	if err != nil {
		return domain.QuizSession{}, false, fmt.Errorf("redis get session: %w", err)
	}
	var session domain.QuizSession
	if err := json.Unmarshal(raw, &session); err != nil {
		// Unreadable payloads surface as corrupt state so the user restarts.
		return domain.QuizSession{}, false, fmt.Errorf("%w: %v", domain.ErrSessionCorrupt, err)
	}
	return session, true, nil
}

func (s *SessionStore) Save(ctx context.Context, id string, session domain.QuizSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(id), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(id string) string {
	return "quiz:session:" + id
}
