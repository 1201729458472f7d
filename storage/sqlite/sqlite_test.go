package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskmind/deskmind/core"
)

func newTestDB(t *testing.T) *SessionStore {
	t.Helper()
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSessionStore(db)
}

func TestSessionStoreRoundTrip(t *testing.T) {
	store := newTestDB(t)
	ctx := context.Background()

	sess := core.NewSession("sess-1", "agent-1", "user-1")
	sess.AddTurn(core.Turn{Role: "user", Content: "hello", Timestamp: time.Now().UTC(), Intent: "greeting"})
	sess.AddTurn(core.Turn{Role: "assistant", Content: "hi!", Timestamp: time.Now().UTC(), Handler: "greeting"})
	sess.SetMeta("task", []byte(`{"id":"TSK-9"}`))

	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "agent-1", got.AgentID)
	assert.Equal(t, "user-1", got.UserID)
	turns := got.GetTurns()
	require.Len(t, turns, 2)
	assert.Equal(t, "hello", turns[0].Content)
	assert.Equal(t, "greeting", turns[1].Handler)
	raw, ok := got.GetMeta("task")
	require.True(t, ok)
	assert.JSONEq(t, `{"id":"TSK-9"}`, string(raw))
}

func TestSessionStoreNotFound(t *testing.T) {
	store := newTestDB(t)

	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestSessionStoreUpsert(t *testing.T) {
	store := newTestDB(t)
	ctx := context.Background()

	sess := core.NewSession("sess-1", "agent-1", "user-1")
	require.NoError(t, store.Save(ctx, sess))

	sess.AddTurn(core.Turn{Role: "user", Content: "again", Timestamp: time.Now().UTC()})
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, got.GetTurns(), 1)
}

func TestSessionStoreRejectsEmptyID(t *testing.T) {
	store := newTestDB(t)

	err := store.Save(context.Background(), core.NewSession("", "agent-1", "user-1"))
	var verr *core.ValidationInputError
	assert.ErrorAs(t, err, &verr)
}

func TestMemoryStoreFactsAndEpisodes(t *testing.T) {
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "mem.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store := NewMemoryStore(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.StoreFact(ctx, core.Fact{
		ID: "f1", AgentID: "agent-1", Content: "user prefers email updates",
		Metadata: map[string]any{"source": "onboarding"}, Created: base,
	}))
	require.NoError(t, store.StoreFact(ctx, core.Fact{
		ID: "f2", AgentID: "agent-1", Content: "billing runs monthly", Created: base.Add(time.Minute),
	}))
	require.NoError(t, store.StoreFact(ctx, core.Fact{
		ID: "f3", AgentID: "other", Content: "unrelated", Created: base,
	}))

	all, err := store.Facts(ctx, "agent-1", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "f1", all[0].ID)
	assert.Equal(t, "onboarding", all[0].Metadata["source"])

	matched, err := store.Facts(ctx, "agent-1", "email")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "f1", matched[0].ID)

	for i, summary := range []string{"first chat", "second chat", "third chat"} {
		require.NoError(t, store.StoreEpisode(ctx, core.Episode{
			ID: string(rune('a' + i)), AgentID: "agent-1", UserID: "user-1",
			Summary: summary, Created: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	episodes, err := store.Episodes(ctx, "agent-1", "user-1", 2)
	require.NoError(t, err)
	require.Len(t, episodes, 2)
	assert.Equal(t, "third chat", episodes[0].Summary)
	assert.Equal(t, "second chat", episodes[1].Summary)

	none, err := store.Episodes(ctx, "agent-1", "someone-else", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestKnowledgeStoreReplaceAndList(t *testing.T) {
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "kb.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store := NewKnowledgeStore(db)
	ctx := context.Background()

	chunks := []core.KnowledgeChunk{
		{DocumentID: "doc-1", Ordinal: 0, Text: "part one", Embedding: []float32{0.1, 0.2, 0.3}},
		{DocumentID: "doc-1", Ordinal: 1, Text: "part two", Embedding: []float32{0.4, 0.5, 0.6}},
	}
	require.NoError(t, store.ReplaceDocument(ctx, "agent-1", "doc-1", chunks))

	got, err := store.ChunksByAgent(ctx, "agent-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "part one", got[0].Text)
	assert.InDeltaSlice(t, []float32{0.4, 0.5, 0.6}, got[1].Embedding, 1e-6)

	// Re-ingesting replaces the old chunk set entirely.
	require.NoError(t, store.ReplaceDocument(ctx, "agent-1", "doc-1", []core.KnowledgeChunk{
		{DocumentID: "doc-1", Ordinal: 0, Text: "rewritten", Embedding: []float32{1, 0, 0}},
	}))
	got, err = store.ChunksByAgent(ctx, "agent-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "rewritten", got[0].Text)

	other, err := store.ChunksByAgent(ctx, "other-agent")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestVectorRoundTrip(t *testing.T) {
	vec := []float32{1.5, -2.25, 0, 3.125}
	blob, err := serializeVector(vec)
	require.NoError(t, err)
	got, err := deserializeVector(blob)
	require.NoError(t, err)
	assert.Equal(t, vec, got)

	_, err = deserializeVector([]byte{1, 2, 3})
	assert.Error(t, err)
}
