package embedder

import (
	"context"

	"github.com/rotisserie/eris"
	openai "github.com/sashabaranov/go-openai"

	"github.com/verdantlabs/carbonpeer/config"
)

type openAIEmbedder struct {
	client *openai.Client
	model  string
	dim    int
}

// NewOpenAIEmbedder returns the remote embedding provider.
func NewOpenAIEmbedder(cfg config.EmbeddingsConfig) Embedder {
	return &openAIEmbedder{
		client: openai.NewClient(cfg.OpenAIAPIKey),
		model:  cfg.Model,
		dim:    cfg.Dimension,
	}
}

func (e *openAIEmbedder) Dimension() int { return e.dim }

func (e *openAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model:      openai.EmbeddingModel(e.model),
		Input:      texts,
		Dimensions: e.dim,
	})
	if err != nil {
		return nil, eris.Wrap(err, "embedder: create openai embeddings")
	}

	results := make([][]float32, len(resp.Data))
	for i, datum := range resp.Data {
		if e.dim > 0 && len(datum.Embedding) != e.dim {
			return nil, eris.Errorf("embedder: dimension mismatch: expected %d, got %d", e.dim, len(datum.Embedding))
		}
		results[i] = datum.Embedding
	}

	return results, nil
}
