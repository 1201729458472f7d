package testutil

import (
	"encoding/json"
	"time"

	"github.com/deskmind/deskmind/core"
)

// SessionBuilder helps construct sessions with fluent chaining for tests.
// Example:
//
//	sess := NewSessionBuilder("sess-1").Meta("task", raw).Turns(t1, t2).Build()
type SessionBuilder struct {
	id      string
	agentID string
	userID  string
	meta    map[string]json.RawMessage
	turns   []core.Turn
}

// NewSessionBuilder creates a new builder for a session with the given id.
// Use chainable methods (Agent, User, Meta, Turn, Turns) then call Build.
func NewSessionBuilder(id string) *SessionBuilder {
	return &SessionBuilder{
		id:      id,
		agentID: "test_agent",
		userID:  "test_user",
		meta:    map[string]json.RawMessage{},
	}
}

// Agent sets the owning agent id (chainable).
func (b *SessionBuilder) Agent(agentID string) *SessionBuilder {
	b.agentID = agentID
	return b
}

// User sets the user id (chainable).
func (b *SessionBuilder) User(userID string) *SessionBuilder {
	b.userID = userID
	return b
}

// Meta sets or overwrites a metadata key on the resulting session (chainable).
func (b *SessionBuilder) Meta(key string, value json.RawMessage) *SessionBuilder {
	b.meta[key] = value
	return b
}

// Turn appends a single turn to the session history (chainable).
func (b *SessionBuilder) Turn(role, content string) *SessionBuilder {
	b.turns = append(b.turns, core.Turn{Role: role, Content: content, Timestamp: time.Now().UTC()})
	return b
}

// Turns appends fully specified turns to the session history (chainable).
func (b *SessionBuilder) Turns(turns ...core.Turn) *SessionBuilder {
	b.turns = append(b.turns, turns...)
	return b
}

// Build returns a *core.Session with pre-populated metadata and turns.
func (b *SessionBuilder) Build() *core.Session {
	s := core.NewSession(b.id, b.agentID, b.userID)
	for k, v := range b.meta {
		s.SetMeta(k, v)
	}
	for _, t := range b.turns {
		s.AddTurn(t)
	}
	return s
}
