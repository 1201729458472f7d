package rag

import (
	"context"
	"sync"

	"github.com/deskmind/deskmind/core"
)

// InMemoryStore is a volatile KnowledgeStore keeping chunks in a process
// local map keyed by agent then document. Safe for concurrent access; chunks
// are copied on the way in and out.
type InMemoryStore struct {
	mu     sync.RWMutex
	chunks map[string]map[string][]core.KnowledgeChunk // agentID -> documentID -> chunks
}

// NewInMemoryStore constructs an empty in-memory knowledge store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{chunks: make(map[string]map[string][]core.KnowledgeChunk)}
}

// ReplaceDocument atomically supersedes any chunks stored under the document ID.
func (s *InMemoryStore) ReplaceDocument(_ context.Context, agentID, documentID string, chunks []core.KnowledgeChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chunks[agentID]; !ok {
		s.chunks[agentID] = make(map[string][]core.KnowledgeChunk)
	}
	copied := make([]core.KnowledgeChunk, len(chunks))
	copy(copied, chunks)
	s.chunks[agentID][documentID] = copied
	return nil
}

// ChunksByAgent returns every chunk ingested under the exact agent ID.
func (s *InMemoryStore) ChunksByAgent(_ context.Context, agentID string) ([]core.KnowledgeChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.KnowledgeChunk
	for _, docChunks := range s.chunks[agentID] {
		out = append(out, docChunks...)
	}
	return out, nil
}
