// Package recommend turns retrieved disclosure evidence into grounded,
// cited reduction recommendations for supplier benchmarks.
package recommend

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/verdantlabs/carbonpeer/config"
	"github.com/verdantlabs/carbonpeer/embedder"
	"github.com/verdantlabs/carbonpeer/model"
	"github.com/verdantlabs/carbonpeer/store"
)

const defaultTopK = 6

// Retriever fetches the evidence chunks most similar to a benchmark's
// reduction question, scoped to the peer company and category.
type Retriever struct {
	store    store.Store
	embedder embedder.Embedder
	topK     int
}

func NewRetriever(st store.Store, emb embedder.Embedder, cfg config.RetrievalConfig) *Retriever {
	topK := cfg.TopK
	if topK < 1 {
		topK = defaultTopK
	}
	return &Retriever{store: st, embedder: emb, topK: topK}
}

// Query phrases the retrieval question for a benchmark.
func Query(b model.Benchmark) string {
	return fmt.Sprintf("emissions reduction actions taken by %s in %s", b.PeerName, b.Category)
}

// Retrieve returns up to top-k chunks for the benchmark's peer and
// category, ranked by similarity. Only strictly positive scores
// qualify; ties keep insertion order.
func (r *Retriever) Retrieve(ctx context.Context, b model.Benchmark) ([]model.ScoredChunk, error) {
	candidates, err := r.store.FindChunks(ctx, b.TenantID, b.PeerID, b.Category)
	if err != nil {
		return nil, eris.Wrap(err, "recommend: find chunks")
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	vectors, err := r.embedder.Embed(ctx, []string{Query(b)})
	if err != nil {
		return nil, eris.Wrap(err, "recommend: embed query")
	}
	if len(vectors) != 1 {
		return nil, eris.Errorf("recommend: embedder returned %d vectors for one query", len(vectors))
	}

	return store.RankChunks(candidates, vectors[0], r.topK), nil
}
