package core

import (
	"context"
	"time"
)

// Fact is an append-only semantic memory record scoped to an agent.
type Fact struct {
	ID       string         `json:"id"`
	AgentID  string         `json:"agent_id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Created  time.Time      `json:"created"`
}

// Episode is an episodic memory record: a user+agent scoped summary of one
// past interaction, retrieved most-recent-first.
type Episode struct {
	ID      string    `json:"id"`
	AgentID string    `json:"agent_id"`
	UserID  string    `json:"user_id"`
	Summary string    `json:"summary"`
	Created time.Time `json:"created"`
}

// RecallBundle is the ranked set of memory records relevant to one turn.
// Ranking is deterministic for identical inputs.
type RecallBundle struct {
	Facts    []Fact    `json:"facts"`
	Episodes []Episode `json:"episodes"`
}

// Empty reports whether the bundle carries no memory at all.
func (b RecallBundle) Empty() bool { return len(b.Facts) == 0 && len(b.Episodes) == 0 }

// MemoryStore defines persistence + retrieval for facts and episodes.
// Implementations must be safe for concurrent use. Facts performs a
// substring/term match over fact content; an empty query matches everything.
// Episodes returns records most-recent-first up to limit.
type MemoryStore interface {
	StoreFact(ctx context.Context, fact Fact) error
	StoreEpisode(ctx context.Context, episode Episode) error
	Facts(ctx context.Context, agentID, query string) ([]Fact, error)
	Episodes(ctx context.Context, agentID, userID string, limit int) ([]Episode, error)
}
