package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk_EmptyInput(t *testing.T) {
	c := New(900, 80)
	assert.Nil(t, c.Chunk(""))
	assert.Nil(t, c.Chunk("   \n\t  "))
}

func TestChunk_ShortInputSingleChunk(t *testing.T) {
	c := New(900, 80)
	chunks := c.Chunk("solar procurement via long-term PPAs")
	require.Len(t, chunks, 1)
	assert.Equal(t, "solar procurement via long-term PPAs", chunks[0])
}

func TestChunk_WindowOverlap(t *testing.T) {
	// 2000 characters with size 900 / overlap 80 must yield 3 chunks whose
	// boundaries share exactly the overlap region.
	text := strings.Repeat("abcdefghij", 200)
	c := New(900, 80)

	chunks := c.Chunk(text)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 900)
	assert.Len(t, chunks[1], 900)
	assert.Len(t, chunks[2], 360)

	for i := 0; i < len(chunks)-1; i++ {
		tail := chunks[i][len(chunks[i])-80:]
		head := chunks[i+1][:80]
		assert.Equal(t, tail, head, "chunk %d/%d overlap", i, i+1)
	}
}

func TestChunk_Deterministic(t *testing.T) {
	text := strings.Repeat("recycled content in packaging lines ", 60)
	c := New(500, 50)

	first := c.Chunk(text)
	second := c.Chunk(text)
	assert.Equal(t, first, second)
}

func TestChunk_ReconstructsNormalizedText(t *testing.T) {
	text := "  each   facility\nswitched to\telectric arc furnaces " +
		strings.Repeat("with scrap-based feedstock ", 80)
	c := New(300, 40)

	chunks := c.Chunk(text)
	require.NotEmpty(t, chunks)

	rebuilt := chunks[0]
	for _, chunk := range chunks[1:] {
		rebuilt += chunk[c.Overlap:]
	}
	assert.Equal(t, Normalize(text), rebuilt)
}

func TestNew_Defaults(t *testing.T) {
	c := New(0, -1)
	assert.Equal(t, 1000, c.Size)
	assert.Equal(t, 100, c.Overlap)

	// Overlap must stay below size.
	c = New(60, 90)
	assert.Less(t, c.Overlap, c.Size)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a b c", Normalize("  a \n b\t\tc "))
	assert.Equal(t, "", Normalize(" \n "))
}
