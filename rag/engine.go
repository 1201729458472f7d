package rag

import (
	"context"
	"fmt"
	"sort"

	"github.com/deskmind/deskmind/core"
	"github.com/deskmind/deskmind/logging"
)

// Options configures an Engine.
type Options struct {
	// Chunker bounds chunk size/overlap in tokens.
	Chunker ChunkerConfig
	// Store persists embedded chunks; defaults to in-memory.
	Store core.KnowledgeStore
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Engine ties the chunker, an embedding provider and a KnowledgeStore into
// the ingest/retrieve pipeline. All operations are scoped by agent ID.
type Engine struct {
	embedder Embedder
	chunker  ChunkerConfig
	store    core.KnowledgeStore
	logger   logging.Logger
}

// NewEngine constructs an Engine with optional overrides.
func NewEngine(embedder Embedder, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Chunker: DefaultChunkerConfig(),
		Store:   NewInMemoryStore(),
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{embedder: embedder, chunker: opts.Chunker, store: opts.Store, logger: opts.Logger}
}

// Ingest splits the document into chunks, embeds each and persists the set
// scoped to agentID, superseding any chunks previously stored under the same
// document ID. Safe to retry: ingestion is idempotent by document ID.
func (e *Engine) Ingest(ctx context.Context, agentID string, doc core.Document) (core.IngestStats, error) {
	if doc.ID == "" {
		return core.IngestStats{}, fmt.Errorf("document id is required")
	}

	chunks := ChunkText(doc.Content, e.chunker)
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings, err := e.embedder.Embed(ctx, texts)
	if err != nil {
		return core.IngestStats{}, fmt.Errorf("failed to embed document %s: %w", doc.ID, err)
	}
	if len(embeddings) != len(chunks) {
		return core.IngestStats{}, fmt.Errorf("embedder returned %d vectors for %d chunks", len(embeddings), len(chunks))
	}

	records := make([]core.KnowledgeChunk, len(chunks))
	for i, c := range chunks {
		records[i] = core.KnowledgeChunk{
			DocumentID: doc.ID,
			Ordinal:    c.Index,
			Text:       c.Text,
			Embedding:  embeddings[i],
		}
	}

	if err := e.store.ReplaceDocument(ctx, agentID, doc.ID, records); err != nil {
		return core.IngestStats{}, core.NewStorageError("knowledge.replace", err)
	}

	e.logger.Info("document ingested", "agent_id", agentID, "document_id", doc.ID, "chunks", len(records))

	return core.IngestStats{DocumentID: doc.ID, Chunks: len(records), Embeddings: len(records)}, nil
}

// Retrieve embeds the query and returns up to topK chunks from agentID's
// index with cosine similarity >= threshold, ordered by descending score
// with ordinal as tiebreak. An empty result is not an error.
func (e *Engine) Retrieve(ctx context.Context, agentID, query string, topK int, threshold float64) ([]core.ScoredChunk, error) {
	if topK <= 0 {
		return nil, nil
	}

	vectors, err := e.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	queryVec := vectors[0]

	chunks, err := e.store.ChunksByAgent(ctx, agentID)
	if err != nil {
		return nil, core.NewStorageError("knowledge.chunks", err)
	}

	scored := make([]core.ScoredChunk, 0, len(chunks))
	for _, c := range chunks {
		score := CosineSimilarity(queryVec, c.Embedding)
		if score >= threshold {
			scored = append(scored, core.ScoredChunk{KnowledgeChunk: c, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Ordinal < scored[j].Ordinal
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	e.logger.Debug("knowledge retrieved", "agent_id", agentID, "hits", len(scored), "top_k", topK, "threshold", threshold)

	return scored, nil
}
