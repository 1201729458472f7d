package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.Provider)
	assert.Equal(t, "hash", cfg.EmbeddingProvider)
	assert.Equal(t, 3, cfg.RetrievalTopK)
}

func TestLoadRejectsMissingKey(t *testing.T) {
	t.Setenv("DESKMIND_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("DESKMIND_PROVIDER", "bedrock")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DESKMIND_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	t.Setenv("DESKMIND_FALLBACK_TIMEOUT", "5s")
	t.Setenv("DESKMIND_RETRIEVAL_TOP_K", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "5s", cfg.FallbackTimeout.String())
	assert.Equal(t, 7, cfg.RetrievalTopK)
}
