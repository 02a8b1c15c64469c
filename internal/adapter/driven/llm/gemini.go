package llm

import (
	"context"
	"fmt"

	genai "google.golang.org/genai"

	"github.com/agentboard/agentboard/internal/domain/port/driven"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Compile-time interface satisfaction check.
var _ driven.Completer = (*GeminiProvider)(nil)

// GeminiProvider implements the Completer port on the official genai client.
type GeminiProvider struct {
	cli   *genai.Client
	model string
}

// NewGeminiProvider creates a provider backed by the Gemini API.
func NewGeminiProvider(ctx context.Context, model, apiKey string) (*GeminiProvider, error) {
	if model == "" {
		model = defaultGeminiModel
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiProvider{cli: cli, model: model}, nil
}

// ID returns the provider identifier, e.g. "gemini:gemini-2.5-flash".
func (p *GeminiProvider) ID() string {
	return "gemini:" + p.model
}

// Complete sends the prompt with the system instruction and returns the first
// candidate's text.
func (p *GeminiProvider) Complete(ctx context.Context, req driven.CompletionRequest) (*driven.CompletionResponse, error) {
	var cfg *genai.GenerateContentConfig
	if req.System != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.System}}},
		}
	}

	resp, err := p.cli.Models.GenerateContent(ctx, p.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: req.Prompt}}}},
		cfg,
	)
	if err != nil {
		return nil, fmt.Errorf("call gemini api: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini api returned no candidates")
	}

	out := &driven.CompletionResponse{
		Text:  resp.Candidates[0].Content.Parts[0].Text,
		Model: p.model,
	}

	if resp.UsageMetadata != nil {
		out.Usage = driven.TokenUsage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	return out, nil
}
