// Package llm abstracts the chat-completion providers used by grounded
// generation. All providers are invoked non-streaming; the generator
// needs a complete JSON document before it can validate anything.
package llm

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/verdantlabs/carbonpeer/config"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderDisabled  = "disabled"
)

type Message struct {
	Role    string
	Content string
}

type Client interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

func NewClient(cfg config.LLMConfig) (Client, error) {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second

	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, eris.New("llm: openai provider selected but no API key configured")
		}
		return newOpenAIClient(cfg.OpenAIAPIKey, cfg.Model), nil
	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, eris.New("llm: anthropic provider selected but no API key configured")
		}
		return newAnthropicClient(cfg.AnthropicAPIKey, cfg.Model), nil
	case ProviderOllama:
		return newOllamaClient(cfg.OllamaHost, cfg.Model, timeout), nil
	case ProviderDisabled, "":
		return disabledClient{}, nil
	default:
		return nil, eris.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
