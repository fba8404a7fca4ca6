package embedder

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const defaultDimension = 128

// hashEmbedder is the deterministic bag-of-hashed-words embedder.
// Identical text always yields a bit-identical vector, which makes
// retrieval reproducible and trivially testable. Synonyms score as
// unrelated; that trade-off is deliberate.
type hashEmbedder struct {
	dim int
}

// NewHashEmbedder returns the deterministic embedder. Non-positive
// dimensions fall back to the default.
func NewHashEmbedder(dim int) Embedder {
	if dim <= 0 {
		dim = defaultDimension
	}
	return &hashEmbedder{dim: dim}
}

func (e *hashEmbedder) Dimension() int { return e.dim }

func (e *hashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = e.embedOne(text)
	}
	return vectors, nil
}

func (e *hashEmbedder) embedOne(text string) []float32 {
	vec := make([]float32, e.dim)
	for _, token := range tokenize(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		vec[int(h.Sum32())%e.dim]++
	}
	return normalize(vec)
}

// tokenize lowercases the text and keeps alphanumeric words longer than
// two characters.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// normalize L2-normalizes in place; an all-zero vector stays zero.
func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}
