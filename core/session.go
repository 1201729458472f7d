package core

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Session represents one ongoing conversation owned by a single agent. It
// tracks the ordered turn history plus an open metadata map whose keys are
// agent-defined (e.g. "task"). Values are raw JSON so the framework
// stays agnostic to per-agent contracts. It is safe for concurrent access.
//
// Contract:
//   - Mutations update the Updated timestamp
//   - Turns returns a defensive copy to avoid external mutation
//   - Clone performs deep copies of maps/slices for safe divergence
type Session struct {
	ID       string                     `json:"id"`
	AgentID  string                     `json:"agent_id"`
	UserID   string                     `json:"user_id"`
	Turns    []Turn                     `json:"turns"`
	Metadata map[string]json.RawMessage `json:"metadata"`
	Created  time.Time                  `json:"created"`
	Updated  time.Time                  `json:"updated"`
	mu       sync.RWMutex
}

// Turn is one entry in a session's history: who said what, when, and which
// classification / handler produced it (assistant turns only).
type Turn struct {
	Role      string    `json:"role"` // user, assistant
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Intent    string    `json:"intent,omitempty"`
	Handler   string    `json:"handler,omitempty"`
}

// NewSession creates a new session scoped to an agent and user.
func NewSession(id, agentID, userID string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:       id,
		AgentID:  agentID,
		UserID:   userID,
		Turns:    []Turn{},
		Metadata: map[string]json.RawMessage{},
		Created:  now,
		Updated:  now,
	}
}

// AddTurn appends a turn to the history updating the Updated timestamp.
func (s *Session) AddTurn(t Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now().UTC()
	}
	s.Turns = append(s.Turns, t)
	s.Updated = time.Now().UTC()
}

// GetTurns returns a defensive copy of the full turn history.
func (s *Session) GetTurns() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := make([]Turn, len(s.Turns))
	copy(turns, s.Turns)
	return turns
}

// History returns up to the last n turns (all turns when n <= 0). The result
// is a copy suitable for building model context.
func (s *Session) History(n int) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := 0
	if n > 0 && len(s.Turns) > n {
		start = len(s.Turns) - n
	}
	turns := make([]Turn, len(s.Turns)-start)
	copy(turns, s.Turns[start:])
	return turns
}

// SetMeta stores a raw JSON value under key updating the Updated timestamp.
func (s *Session) SetMeta(key string, value json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Metadata[key] = value
	s.Updated = time.Now().UTC()
}

// GetMeta returns the raw JSON value and existence flag for a metadata key.
func (s *Session) GetMeta(key string) (json.RawMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.Metadata[key]
	return v, ok
}

// MergeMeta merges the provided key/value pairs into Metadata.
func (s *Session) MergeMeta(delta map[string]json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range delta {
		s.Metadata[k] = v
	}
	s.Updated = time.Now().UTC()
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{
		ID:       s.ID,
		AgentID:  s.AgentID,
		UserID:   s.UserID,
		Turns:    make([]Turn, len(s.Turns)),
		Metadata: make(map[string]json.RawMessage, len(s.Metadata)),
		Created:  s.Created,
		Updated:  s.Updated,
	}
	copy(clone.Turns, s.Turns)
	for k, v := range s.Metadata {
		raw := make(json.RawMessage, len(v))
		copy(raw, v)
		clone.Metadata[k] = raw
	}
	return clone
}

// SessionStore persists sessions and their evolving turn history. Load
// returns ErrSessionNotFound (possibly wrapped) when no session exists under
// the id; other failures should wrap ErrStorageUnavailable.
type SessionStore interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
}
