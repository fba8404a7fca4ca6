package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/carbonpeer/config"
	"github.com/verdantlabs/carbonpeer/store/storetest"
)

func TestRetrieveRanksBySimilarity(t *testing.T) {
	st := storetest.New()
	st.Chunks = append(st.Chunks,
		evidenceChunk("weak", 10, "weak match", []float32{0.1, 0, 0}),
		evidenceChunk("strong", 20, "strong match", []float32{0.9, 0, 0}),
		evidenceChunk("medium", 30, "medium match", []float32{0.5, 0, 0}),
	)
	r := NewRetriever(st, stubEmbedder{vector: []float32{1, 0, 0}}, config.RetrievalConfig{TopK: 6})

	got, err := r.Retrieve(context.Background(), testBenchmark())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "strong", got[0].ID)
	assert.Equal(t, "medium", got[1].ID)
	assert.Equal(t, "weak", got[2].ID)
}

func TestRetrieveTruncatesToTopK(t *testing.T) {
	st := storetest.New()
	for i := 0; i < 10; i++ {
		st.Chunks = append(st.Chunks,
			evidenceChunk(string(rune('a'+i)), i+1, "match", []float32{float32(i+1) / 10, 0, 0}))
	}
	r := NewRetriever(st, stubEmbedder{vector: []float32{1, 0, 0}}, config.RetrievalConfig{TopK: 4})

	got, err := r.Retrieve(context.Background(), testBenchmark())
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestRetrieveDropsNonPositiveScores(t *testing.T) {
	st := storetest.New()
	st.Chunks = append(st.Chunks,
		evidenceChunk("orthogonal", 1, "unrelated", []float32{0, 1, 0}),
		evidenceChunk("opposed", 2, "inverse", []float32{-1, 0, 0}),
		evidenceChunk("related", 3, "related", []float32{0.4, 0, 0}),
	)
	r := NewRetriever(st, stubEmbedder{vector: []float32{1, 0, 0}}, config.RetrievalConfig{TopK: 6})

	got, err := r.Retrieve(context.Background(), testBenchmark())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "related", got[0].ID)
}

func TestRetrieveBreaksTiesByInsertionOrder(t *testing.T) {
	st := storetest.New()
	st.Chunks = append(st.Chunks,
		evidenceChunk("first", 1, "same", []float32{0.5, 0, 0}),
		evidenceChunk("second", 2, "same", []float32{0.5, 0, 0}),
	)
	r := NewRetriever(st, stubEmbedder{vector: []float32{1, 0, 0}}, config.RetrievalConfig{TopK: 6})

	got, err := r.Retrieve(context.Background(), testBenchmark())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
}

func TestRetrieveScopesToPeerAndCategory(t *testing.T) {
	st := storetest.New()
	other := evidenceChunk("other-company", 1, "wrong peer", []float32{1, 0, 0})
	other.CompanyID = "dhl_001"
	wrongCat := evidenceChunk("other-category", 2, "wrong category", []float32{1, 0, 0})
	wrongCat.Category = "Transport & Distribution"
	st.Chunks = append(st.Chunks, other, wrongCat,
		evidenceChunk("match", 3, "right scope", []float32{0.5, 0, 0}))
	r := NewRetriever(st, stubEmbedder{vector: []float32{1, 0, 0}}, config.RetrievalConfig{TopK: 6})

	got, err := r.Retrieve(context.Background(), testBenchmark())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "match", got[0].ID)
}

func TestRetrieveEmptyScope(t *testing.T) {
	r := NewRetriever(storetest.New(), stubEmbedder{vector: []float32{1, 0, 0}}, config.RetrievalConfig{})
	got, err := r.Retrieve(context.Background(), testBenchmark())
	require.NoError(t, err)
	assert.Nil(t, got)
}
