// Package embedder vectorizes text spans for similarity retrieval.
package embedder

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/verdantlabs/carbonpeer/config"
)

// Embedder produces one fixed-length vector per input text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// New selects an embedding provider from configuration. The hash provider
// is the default: deterministic, dependency-free, and reproducible across
// processes. The openai provider exists as the substitutable seam for a
// real embedding model.
func New(cfg config.EmbeddingsConfig) (Embedder, error) {
	switch cfg.Provider {
	case "hash", "":
		return NewHashEmbedder(cfg.Dimension), nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, eris.New("embedder: openai provider selected but openai_api_key not set")
		}
		return NewOpenAIEmbedder(cfg), nil
	default:
		return nil, eris.Errorf("embedder: unknown embedding provider: %s", cfg.Provider)
	}
}
