package recommend

import (
	"context"
	"sync"

	"github.com/verdantlabs/carbonpeer/llm"
)

// stubEmbedder returns a fixed vector per input text.
type stubEmbedder struct {
	vector []float32
}

func (s stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = s.vector
	}
	return out, nil
}

func (s stubEmbedder) Dimension() int { return len(s.vector) }

// scriptedLLM replays one canned response or error and counts calls.
type scriptedLLM struct {
	response string
	err      error

	mu    sync.Mutex
	calls int
	last  []llm.Message
}

func (s *scriptedLLM) Generate(_ context.Context, messages []llm.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.last = messages
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *scriptedLLM) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
