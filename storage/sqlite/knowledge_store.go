package sqlite

import (
	"context"
	"database/sql"

	"github.com/deskmind/deskmind/core"
)

// KnowledgeStore is a SQLite-backed core.KnowledgeStore. Embeddings are
// stored as little-endian float32 blobs; similarity scoring happens in
// process, so the schema needs no vector extension.
type KnowledgeStore struct {
	db *sql.DB
}

var _ core.KnowledgeStore = (*KnowledgeStore)(nil)

// NewKnowledgeStore creates a knowledge store over an existing database handle.
func NewKnowledgeStore(db *sql.DB) *KnowledgeStore {
	return &KnowledgeStore{db: db}
}

// ReplaceDocument implements core.KnowledgeStore. Delete and insert run in
// one transaction so re-ingesting a document is atomic.
func (s *KnowledgeStore) ReplaceDocument(ctx context.Context, agentID, documentID string, chunks []core.KnowledgeChunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.NewStorageError("knowledge.replace", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM knowledge_chunks WHERE agent_id = ? AND document_id = ?`,
		agentID, documentID); err != nil {
		return core.NewStorageError("knowledge.replace", err)
	}

	for _, chunk := range chunks {
		blob, err := serializeVector(chunk.Embedding)
		if err != nil {
			return core.NewStorageError("knowledge.replace", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO knowledge_chunks (agent_id, document_id, ordinal, text, embedding) VALUES (?, ?, ?, ?, ?)`,
			agentID, documentID, chunk.Ordinal, chunk.Text, blob); err != nil {
			return core.NewStorageError("knowledge.replace", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return core.NewStorageError("knowledge.replace", err)
	}
	return nil
}

// ChunksByAgent implements core.KnowledgeStore.
func (s *KnowledgeStore) ChunksByAgent(ctx context.Context, agentID string) ([]core.KnowledgeChunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, ordinal, text, embedding FROM knowledge_chunks
		WHERE agent_id = ?
		ORDER BY document_id, ordinal`,
		agentID)
	if err != nil {
		return nil, core.NewStorageError("knowledge.chunks", err)
	}
	defer rows.Close()

	var chunks []core.KnowledgeChunk
	for rows.Next() {
		var (
			chunk core.KnowledgeChunk
			blob  []byte
		)
		if err := rows.Scan(&chunk.DocumentID, &chunk.Ordinal, &chunk.Text, &blob); err != nil {
			return nil, core.NewStorageError("knowledge.chunks", err)
		}
		vec, err := deserializeVector(blob)
		if err != nil {
			return nil, core.NewStorageError("knowledge.chunks", err)
		}
		chunk.Embedding = vec
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewStorageError("knowledge.chunks", err)
	}
	return chunks, nil
}
