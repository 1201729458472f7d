package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/deskmind/deskmind/core"
)

// InMemoryStore is a naive process-local MemoryStore. It offers:
//  1. Append-only agent scoped facts with substring Facts queries
//  2. User+agent scoped episodes returned most-recent-first
//
// Concurrency: protected by RWMutex. Suitable for tests / demos; swap for the
// sqlite store (or a remote backend) for production memory.
type InMemoryStore struct {
	mu       sync.RWMutex
	facts    map[string][]core.Fact    // agentID -> ordered facts
	episodes map[string][]core.Episode // agentID|userID -> ordered episodes
}

// NewInMemoryStore creates a new in-memory memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		facts:    make(map[string][]core.Fact),
		episodes: make(map[string][]core.Episode),
	}
}

// StoreFact appends an immutable fact, generating ID and timestamp if unset.
func (m *InMemoryStore) StoreFact(_ context.Context, fact core.Fact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fact.ID == "" {
		fact.ID = core.NewID()
	}
	if fact.Created.IsZero() {
		fact.Created = time.Now().UTC()
	}
	m.facts[fact.AgentID] = append(m.facts[fact.AgentID], fact)
	return nil
}

// StoreEpisode appends an episode, generating ID and timestamp if unset.
func (m *InMemoryStore) StoreEpisode(_ context.Context, ep core.Episode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ep.ID == "" {
		ep.ID = core.NewID()
	}
	if ep.Created.IsZero() {
		ep.Created = time.Now().UTC()
	}
	key := episodeKey(ep.AgentID, ep.UserID)
	m.episodes[key] = append(m.episodes[key], ep)
	return nil
}

// Facts returns the agent's facts whose content contains the query
// (case-insensitive). An empty query matches everything. Results preserve
// append order.
func (m *InMemoryStore) Facts(_ context.Context, agentID, query string) ([]core.Fact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q := strings.ToLower(query)
	results := make([]core.Fact, 0)
	for _, f := range m.facts[agentID] {
		if q == "" || strings.Contains(strings.ToLower(f.Content), q) {
			results = append(results, f)
		}
	}
	return results, nil
}

// Episodes returns up to limit episodes for the user+agent scope,
// most-recent-first.
func (m *InMemoryStore) Episodes(_ context.Context, agentID, userID string, limit int) ([]core.Episode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	eps := m.episodes[episodeKey(agentID, userID)]
	results := make([]core.Episode, len(eps))
	copy(results, eps)
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Created.Equal(results[j].Created) {
			return results[i].ID > results[j].ID
		}
		return results[i].Created.After(results[j].Created)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func episodeKey(agentID, userID string) string { return agentID + "|" + userID }
