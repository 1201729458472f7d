package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/deskmind/deskmind/core"
)

// MemoryStore is a SQLite-backed core.MemoryStore.
type MemoryStore struct {
	db *sql.DB
}

var _ core.MemoryStore = (*MemoryStore)(nil)

// NewMemoryStore creates a memory store over an existing database handle.
func NewMemoryStore(db *sql.DB) *MemoryStore {
	return &MemoryStore{db: db}
}

// StoreFact implements core.MemoryStore.
func (s *MemoryStore) StoreFact(ctx context.Context, fact core.Fact) error {
	var metaJSON []byte
	if fact.Metadata != nil {
		var err error
		metaJSON, err = json.Marshal(fact.Metadata)
		if err != nil {
			return core.NewStorageError("memory.fact", err)
		}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO facts (id, agent_id, content, metadata, created_at) VALUES (?, ?, ?, ?, ?)`,
		fact.ID, fact.AgentID, fact.Content, nullable(metaJSON), fact.Created)
	if err != nil {
		return core.NewStorageError("memory.fact", err)
	}
	return nil
}

// StoreEpisode implements core.MemoryStore.
func (s *MemoryStore) StoreEpisode(ctx context.Context, episode core.Episode) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO episodes (id, agent_id, user_id, summary, created_at) VALUES (?, ?, ?, ?, ?)`,
		episode.ID, episode.AgentID, episode.UserID, episode.Summary, episode.Created)
	if err != nil {
		return core.NewStorageError("memory.episode", err)
	}
	return nil
}

// Facts implements core.MemoryStore. The query is a case-insensitive
// substring match over content; empty matches everything. Results come back
// in insertion order (creation time, id as tiebreak) so ranking above this
// layer stays deterministic.
func (s *MemoryStore) Facts(ctx context.Context, agentID, query string) ([]core.Fact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, agent_id, content, metadata, created_at FROM facts
		WHERE agent_id = ? AND (? = '' OR LOWER(content) LIKE ?)
		ORDER BY created_at, id`,
		agentID, query, "%"+strings.ToLower(query)+"%")
	if err != nil {
		return nil, core.NewStorageError("memory.facts", err)
	}
	defer rows.Close()

	var facts []core.Fact
	for rows.Next() {
		var (
			f        core.Fact
			metaJSON sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.AgentID, &f.Content, &metaJSON, &f.Created); err != nil {
			return nil, core.NewStorageError("memory.facts", err)
		}
		if metaJSON.Valid && metaJSON.String != "" {
			if err := json.Unmarshal([]byte(metaJSON.String), &f.Metadata); err != nil {
				return nil, core.NewStorageError("memory.facts", err)
			}
		}
		facts = append(facts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewStorageError("memory.facts", err)
	}
	return facts, nil
}

// Episodes implements core.MemoryStore, most recent first.
func (s *MemoryStore) Episodes(ctx context.Context, agentID, userID string, limit int) ([]core.Episode, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, agent_id, user_id, summary, created_at FROM episodes
		WHERE agent_id = ? AND user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		agentID, userID, limit)
	if err != nil {
		return nil, core.NewStorageError("memory.episodes", err)
	}
	defer rows.Close()

	var episodes []core.Episode
	for rows.Next() {
		var e core.Episode
		if err := rows.Scan(&e.ID, &e.AgentID, &e.UserID, &e.Summary, &e.Created); err != nil {
			return nil, core.NewStorageError("memory.episodes", err)
		}
		episodes = append(episodes, e)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewStorageError("memory.episodes", err)
	}
	return episodes, nil
}

// nullable maps an empty blob to NULL so the column stays clean.
func nullable(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
