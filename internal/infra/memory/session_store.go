package memory

import (
	"context"
	"sync"

	"timed-quiz-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// Sessions are stored by value, so each Get hands back an independent copy
// and a request's mutations only land on Save.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.QuizSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.QuizSession),
	}
}

func (s *SessionStore) Get(_ context.Context, id string) (domain.QuizSession, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok, nil
}

func (s *SessionStore) Save(_ context.Context, id string, session domain.QuizSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = session
	return nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
