package store

import (
	"sort"

	"github.com/verdantlabs/carbonpeer/model"
)

// RankChunks scores every candidate chunk against the query vector and
// returns the top k by descending score. Vectors are L2-normalized at
// embedding time, so the dot product is the cosine similarity. Zero and
// negative scores are dropped; ties keep the candidates' original order.
func RankChunks(candidates []model.DisclosureChunk, query []float32, k int) []model.ScoredChunk {
	if len(query) == 0 || k <= 0 {
		return nil
	}

	scored := make([]model.ScoredChunk, 0, len(candidates))
	for _, c := range candidates {
		score := dot(c.Embedding, query)
		if score <= 0 {
			continue
		}
		scored = append(scored, model.ScoredChunk{DisclosureChunk: c, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
