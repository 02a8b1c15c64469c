package driven

import "context"

// CompletionRequest is a single prompt sent to a text-generation model.
type CompletionRequest struct {
	System string
	Prompt string
}

// TokenUsage reports the token accounting of one completion call.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
}

// CompletionResponse is the raw text returned by the model.
type CompletionResponse struct {
	Text  string
	Model string
	Usage TokenUsage
}

// Completer defines the driven port for the LLM completion endpoint.
// The output is untyped free text; downstream parsing is best effort.
type Completer interface {
	// ID identifies the provider and model, e.g. "openai:gpt-4o".
	ID() string

	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
