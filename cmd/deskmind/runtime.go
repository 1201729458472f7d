package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/deskmind/deskmind/agent"
	"github.com/deskmind/deskmind/config"
	"github.com/deskmind/deskmind/core"
	"github.com/deskmind/deskmind/logging"
	"github.com/deskmind/deskmind/model"
	modelanthropic "github.com/deskmind/deskmind/model/anthropic"
	modelopenai "github.com/deskmind/deskmind/model/openai"
	"github.com/deskmind/deskmind/rag"
	ragopenai "github.com/deskmind/deskmind/rag/openai"
	"github.com/deskmind/deskmind/storage/sqlite"
)

// runtime bundles everything the CLI commands need for one process.
type runtime struct {
	cfg    *config.Config
	agent  *agent.Agent
	engine *rag.Engine
	db     *sql.DB
	logger *logging.RuntimeLogger
}

func (r *runtime) close() {
	if r.db != nil {
		r.db.Close()
	}
}

// buildRuntime assembles the agent from environment configuration: durable
// SQLite stores when a database path is set, in-memory otherwise.
func buildRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.NewSlogLogger(parseLevel(cfg.LogLevel), cfg.LogFormat, false)

	m, err := buildModel(cfg)
	if err != nil {
		return nil, err
	}

	embedder := buildEmbedder(cfg)

	var (
		db           *sql.DB
		sessionStore core.SessionStore
		memoryStore  core.MemoryStore
		engineOpts   []func(o *rag.Options)
	)
	if cfg.DatabasePath != "" {
		db, err = sqlite.NewDB(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		sessionStore = sqlite.NewSessionStore(db)
		memoryStore = sqlite.NewMemoryStore(db)
		engineOpts = append(engineOpts, func(o *rag.Options) {
			o.Store = sqlite.NewKnowledgeStore(db)
		})
	}
	engineOpts = append(engineOpts, func(o *rag.Options) { o.Logger = logger.Structured() })

	engine := rag.NewEngine(embedder, engineOpts...)

	a := agent.New("general_assistant", func(o *agent.Options) {
		o.Model = m
		o.Knowledge = engine
		o.FallbackTimeout = cfg.FallbackTimeout
		o.MaxModelCalls = cfg.MaxModelCalls
		o.RetrievalTopK = cfg.RetrievalTopK
		o.RetrievalThreshold = cfg.RetrievalThreshold
		o.Logger = logger
		if sessionStore != nil {
			o.SessionStore = sessionStore
		}
		if memoryStore != nil {
			o.MemoryStore = memoryStore
		}
	})

	return &runtime{cfg: cfg, agent: a, engine: engine, db: db, logger: logger}, nil
}

func buildModel(cfg *config.Config) (model.Model, error) {
	switch cfg.Provider {
	case "openai":
		// The SDK client reads OPENAI_API_KEY from the environment.
		return modelopenai.NewModel(func(o *modelopenai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
		}), nil
	case "anthropic":
		return modelanthropic.NewModel(func(o *modelanthropic.Options) {
			o.APIKey = cfg.AnthropicAPIKey
			if cfg.Model != "" {
				o.Model = anthropic.Model(cfg.Model)
			}
		}), nil
	case "mock":
		return model.NewMockModel("mock", "mock"), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

func buildEmbedder(cfg *config.Config) rag.Embedder {
	if cfg.EmbeddingProvider == "openai" {
		return ragopenai.NewEmbedder()
	}
	return rag.NewHashEmbedder(0)
}

func parseLevel(s string) logging.LogLevel {
	switch s {
	case "debug":
		return logging.LogLevelDebug
	case "warn":
		return logging.LogLevelWarn
	case "error":
		return logging.LogLevelError
	default:
		return logging.LogLevelInfo
	}
}
