package embedder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/carbonpeer/config"
)

func TestNewSelectsProvider(t *testing.T) {
	e, err := New(config.EmbeddingsConfig{Provider: "hash", Dimension: 64})
	require.NoError(t, err)
	assert.Equal(t, 64, e.Dimension())

	e, err = New(config.EmbeddingsConfig{Dimension: 128})
	require.NoError(t, err)
	assert.Equal(t, 128, e.Dimension())
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(config.EmbeddingsConfig{Provider: "word2vec"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedder: unknown embedding provider")
}

func TestNewRequiresOpenAIKey(t *testing.T) {
	_, err := New(config.EmbeddingsConfig{Provider: "openai"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedder: openai provider selected but openai_api_key not set")
}
