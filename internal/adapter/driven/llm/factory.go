package llm

import (
	"context"
	"fmt"

	"github.com/agentboard/agentboard/internal/domain/port/driven"
)

// NewProvider creates a Completer for the named provider. Supported
// providers are "openai" and "gemini". An empty model selects the
// provider's default.
func NewProvider(ctx context.Context, provider, model, apiKey string) (driven.Completer, error) {
	switch provider {
	case "openai", "":
		return NewOpenAIProvider(model, apiKey), nil
	case "gemini":
		return NewGeminiProvider(ctx, model, apiKey)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}
