package llm

import (
	"context"

	"github.com/rotisserie/eris"
)

// disabledClient is the default when no provider is configured. Every
// call fails, which routes generation to its deterministic fallback.
type disabledClient struct{}

func (disabledClient) Generate(context.Context, []Message) (string, error) {
	return "", eris.New("llm: generation disabled, no provider configured")
}
