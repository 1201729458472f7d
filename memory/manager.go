package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/deskmind/deskmind/core"
)

// Options tunes recall behavior.
type Options struct {
	// MaxFacts caps how many facts a RecallBundle carries.
	MaxFacts int
	// MaxEpisodes caps how many episodes a RecallBundle carries.
	MaxEpisodes int
}

// Manager layers deterministic recall ranking over a core.MemoryStore. For a
// fixed store state and input the returned bundle is identical call-to-call:
// facts are ranked by term overlap with the query then recency, with the fact
// ID as the final tiebreak; episodes come back most-recent-first from the
// store.
type Manager struct {
	store core.MemoryStore
	opts  Options
}

// NewManager constructs a Manager with optional overrides.
func NewManager(store core.MemoryStore, optFns ...func(o *Options)) *Manager {
	opts := Options{MaxFacts: 5, MaxEpisodes: 3}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Manager{store: store, opts: opts}
}

// StoreFact appends an immutable agent scoped fact.
func (m *Manager) StoreFact(ctx context.Context, agentID, content string, metadata map[string]any) error {
	fact := core.Fact{AgentID: agentID, Content: content, Metadata: metadata}
	if err := m.store.StoreFact(ctx, fact); err != nil {
		return core.NewStorageError("memory.fact", err)
	}
	return nil
}

// StoreEpisode appends a user+agent scoped interaction summary.
func (m *Manager) StoreEpisode(ctx context.Context, agentID, userID, summary string) error {
	ep := core.Episode{AgentID: agentID, UserID: userID, Summary: summary}
	if err := m.store.StoreEpisode(ctx, ep); err != nil {
		return core.NewStorageError("memory.episode", err)
	}
	return nil
}

// Facts is a read-only projection of the agent's facts matching query.
func (m *Manager) Facts(ctx context.Context, agentID, query string) ([]core.Fact, error) {
	facts, err := m.store.Facts(ctx, agentID, query)
	if err != nil {
		return nil, core.NewStorageError("memory.facts", err)
	}
	return facts, nil
}

// Episodes is a read-only projection of the user's episodes, most-recent-first.
func (m *Manager) Episodes(ctx context.Context, agentID, userID string, limit int) ([]core.Episode, error) {
	eps, err := m.store.Episodes(ctx, agentID, userID, limit)
	if err != nil {
		return nil, core.NewStorageError("memory.episodes", err)
	}
	return eps, nil
}

// Recall returns the ranked bundle of facts and episodes relevant to the
// query for one turn.
func (m *Manager) Recall(ctx context.Context, agentID, userID, query string) (core.RecallBundle, error) {
	facts, err := m.store.Facts(ctx, agentID, "")
	if err != nil {
		return core.RecallBundle{}, core.NewStorageError("memory.recall", err)
	}

	ranked := rankFacts(facts, query)
	if len(ranked) > m.opts.MaxFacts {
		ranked = ranked[:m.opts.MaxFacts]
	}

	episodes, err := m.store.Episodes(ctx, agentID, userID, m.opts.MaxEpisodes)
	if err != nil {
		return core.RecallBundle{}, core.NewStorageError("memory.recall", err)
	}

	return core.RecallBundle{Facts: ranked, Episodes: episodes}, nil
}

// rankFacts orders facts by descending term overlap with the query, breaking
// ties by recency and finally by ID so the ordering is stable for identical
// inputs. Facts with zero overlap are dropped when the query is non-empty.
func rankFacts(facts []core.Fact, query string) []core.Fact {
	terms := queryTerms(query)

	type scored struct {
		fact  core.Fact
		score int
	}
	scoredFacts := make([]scored, 0, len(facts))
	for _, f := range facts {
		s := overlap(strings.ToLower(f.Content), terms)
		if len(terms) > 0 && s == 0 {
			continue
		}
		scoredFacts = append(scoredFacts, scored{fact: f, score: s})
	}

	sort.SliceStable(scoredFacts, func(i, j int) bool {
		if scoredFacts[i].score != scoredFacts[j].score {
			return scoredFacts[i].score > scoredFacts[j].score
		}
		if !scoredFacts[i].fact.Created.Equal(scoredFacts[j].fact.Created) {
			return scoredFacts[i].fact.Created.After(scoredFacts[j].fact.Created)
		}
		return scoredFacts[i].fact.ID < scoredFacts[j].fact.ID
	})

	result := make([]core.Fact, len(scoredFacts))
	for i, sf := range scoredFacts {
		result[i] = sf.fact
	}
	return result
}

func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := fields[:0]
	for _, f := range fields {
		if len(f) >= 3 { // skip stop-word sized tokens
			terms = append(terms, f)
		}
	}
	return terms
}

func overlap(content string, terms []string) int {
	count := 0
	for _, t := range terms {
		if strings.Contains(content, t) {
			count++
		}
	}
	return count
}

// Summarize builds the one-line episode summary persisted after a turn.
func Summarize(intent core.Intent, reply core.Response) string {
	content := reply.Content
	if len(content) > 120 {
		content = content[:117] + "..."
	}
	return fmt.Sprintf("intent=%s handler=%s reply=%s", intent.Type, reply.Metadata.Handler, content)
}
