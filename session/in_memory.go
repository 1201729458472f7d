package session

import (
	"context"
	"sync"

	"github.com/deskmind/deskmind/core"
)

// InMemoryStore is a volatile SessionStore implementation storing sessions in
// a process local map. It is safe for concurrent access and best suited for
// tests or ephemeral demo setups. Each returned session is cloned to prevent
// external mutation of internal state.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.Session)}
}

// Load returns a clone of the persisted session or core.ErrSessionNotFound.
func (s *InMemoryStore) Load(_ context.Context, id string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[id]; ok {
		return sess.Clone(), nil
	}
	return nil, core.ErrSessionNotFound
}

// Save stores a clone of the provided session snapshot. Sessions without an
// ID are rejected.
func (s *InMemoryStore) Save(_ context.Context, sess *core.Session) error {
	if sess == nil || sess.ID == "" {
		return core.NewValidationInputError("session", "must have an id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess.Clone()
	return nil
}

// Len reports how many sessions are currently stored. Intended for tests.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
