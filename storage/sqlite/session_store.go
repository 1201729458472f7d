package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deskmind/deskmind/core"
)

// SessionStore is a SQLite-backed core.SessionStore. Turn history and
// metadata are stored as JSON columns; the row is the unit of atomicity.
type SessionStore struct {
	db *sql.DB
}

var _ core.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a session store over an existing database handle.
func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Load implements core.SessionStore.
func (s *SessionStore) Load(ctx context.Context, id string) (*core.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, agent_id, user_id, turns, metadata, created_at, updated_at FROM sessions WHERE id = ?`, id)

	var (
		sess      core.Session
		turnsJSON []byte
		metaJSON  []byte
	)
	err := row.Scan(&sess.ID, &sess.AgentID, &sess.UserID, &turnsJSON, &metaJSON, &sess.Created, &sess.Updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrSessionNotFound
	}
	if err != nil {
		return nil, core.NewStorageError("session.load", err)
	}

	if err := json.Unmarshal(turnsJSON, &sess.Turns); err != nil {
		return nil, core.NewStorageError("session.load", fmt.Errorf("corrupt turns column: %w", err))
	}
	if err := json.Unmarshal(metaJSON, &sess.Metadata); err != nil {
		return nil, core.NewStorageError("session.load", fmt.Errorf("corrupt metadata column: %w", err))
	}
	return &sess, nil
}

// Save implements core.SessionStore with an upsert keyed on the session id.
func (s *SessionStore) Save(ctx context.Context, sess *core.Session) error {
	if sess == nil || sess.ID == "" {
		return core.NewValidationInputError("session", "must have an id")
	}

	turnsJSON, err := json.Marshal(sess.GetTurns())
	if err != nil {
		return core.NewStorageError("session.save", err)
	}
	meta := sess.Metadata
	if meta == nil {
		meta = map[string]json.RawMessage{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return core.NewStorageError("session.save", err)
	}

	now := time.Now().UTC()
	created := sess.Created
	if created.IsZero() {
		created = now
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, agent_id, user_id, turns, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			agent_id = excluded.agent_id,
			user_id = excluded.user_id,
			turns = excluded.turns,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at`,
		sess.ID, sess.AgentID, sess.UserID, string(turnsJSON), string(metaJSON), created, now)
	if err != nil {
		return core.NewStorageError("session.save", err)
	}
	return nil
}
