// Package chunker splits page text into overlapping fixed-size spans.
package chunker

import "strings"

const (
	defaultSize    = 1000
	defaultOverlap = 100
)

// Chunker slides a character window of Size across normalized text,
// advancing by Size-Overlap each step. The overlap keeps a fact that
// straddles a boundary present in at least one chunk.
type Chunker struct {
	Size    int
	Overlap int
}

// New returns a Chunker, substituting defaults for non-positive or
// inconsistent parameters.
func New(size, overlap int) Chunker {
	if size <= 0 {
		size = defaultSize
	}
	if overlap < 0 || overlap >= size {
		overlap = defaultOverlap
		if overlap >= size {
			overlap = size / 10
		}
	}
	return Chunker{Size: size, Overlap: overlap}
}

// Chunk returns the overlapping windows of text. Whitespace runs are
// collapsed to single spaces first; empty or whitespace-only input yields
// nil. The final window is whatever remains, never padded.
func (c Chunker) Chunk(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}

	runes := []rune(normalized)
	if len(runes) <= c.Size {
		return []string{normalized}
	}

	stride := c.Size - c.Overlap
	chunks := make([]string, 0, (len(runes)+stride-1)/stride)
	for start := 0; start < len(runes); start += stride {
		end := start + c.Size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// Normalize collapses all whitespace runs to single spaces and trims the
// ends.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
