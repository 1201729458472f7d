package core

import "context"

// Document is the unit of knowledge ingestion. Documents are immutable once
// ingested; re-ingesting the same ID supersedes prior chunks rather than
// editing them.
type Document struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type,omitempty"`
}

// KnowledgeChunk is a bounded span of an ingested document together with its
// embedding. Ordinal preserves document order and breaks retrieval score ties.
type KnowledgeChunk struct {
	DocumentID string    `json:"document_id"`
	Ordinal    int       `json:"ordinal"`
	Text       string    `json:"text"`
	Embedding  []float32 `json:"embedding"`
}

// ScoredChunk pairs a chunk with its similarity score for one query.
type ScoredChunk struct {
	KnowledgeChunk
	Score float64 `json:"score"`
}

// IngestStats reports how much work one ingestion performed.
type IngestStats struct {
	DocumentID string `json:"document_id"`
	Chunks     int    `json:"chunks"`
	Embeddings int    `json:"embeddings"`
}

// KnowledgeStore persists embedded chunks scoped by agent. ReplaceDocument
// atomically removes any chunks previously stored under the document ID
// before inserting the new set, making ingestion idempotent by document ID.
// ChunksByAgent returns every chunk ingested under the exact agent ID.
type KnowledgeStore interface {
	ReplaceDocument(ctx context.Context, agentID, documentID string, chunks []KnowledgeChunk) error
	ChunksByAgent(ctx context.Context, agentID string) ([]KnowledgeChunk, error)
}
