// Package config loads runtime configuration from the environment. A .env
// file in the working directory is honored when present; explicit
// environment variables always win.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries every tunable the deskmind runtime reads from the
// environment.
type Config struct {
	// DatabasePath is the SQLite file backing sessions, memory and
	// knowledge. Empty selects the in-memory stores.
	DatabasePath string `env:"DESKMIND_DB_PATH"`

	// Provider selects the generation backend: openai, anthropic or mock.
	Provider string `env:"DESKMIND_PROVIDER" envDefault:"mock"`

	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`

	// Model overrides the provider's default generation model.
	Model string `env:"DESKMIND_MODEL"`

	// EmbeddingProvider selects the embedder: openai or hash.
	EmbeddingProvider string `env:"DESKMIND_EMBEDDING_PROVIDER" envDefault:"hash"`

	// FallbackTimeout bounds one generation call.
	FallbackTimeout time.Duration `env:"DESKMIND_FALLBACK_TIMEOUT" envDefault:"20s"`

	// MaxModelCalls caps generation calls per process. Zero is unlimited.
	MaxModelCalls int `env:"DESKMIND_MAX_MODEL_CALLS" envDefault:"0"`

	// RetrievalTopK and RetrievalThreshold tune knowledge retrieval.
	RetrievalTopK      int     `env:"DESKMIND_RETRIEVAL_TOP_K" envDefault:"3"`
	RetrievalThreshold float64 `env:"DESKMIND_RETRIEVAL_THRESHOLD" envDefault:"0.2"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"DESKMIND_LOG_LEVEL" envDefault:"info"`
	// LogFormat is text or json.
	LogFormat string `env:"DESKMIND_LOG_FORMAT" envDefault:"text"`
}

// Load reads configuration from the environment, after sourcing .env when
// one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Provider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("provider openai requires OPENAI_API_KEY")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("provider anthropic requires ANTHROPIC_API_KEY")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	switch c.EmbeddingProvider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("embedding provider openai requires OPENAI_API_KEY")
		}
	case "hash":
	default:
		return fmt.Errorf("unknown embedding provider %q", c.EmbeddingProvider)
	}
	return nil
}
