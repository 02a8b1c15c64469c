// Package llm implements the Completer port for the supported LLM providers.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/agentboard/agentboard/internal/domain/port/driven"
)

const defaultOpenAIModel = "gpt-4o"

const openAIEndpoint = "https://api.openai.com/v1/chat/completions"

// Compile-time interface satisfaction check.
var _ driven.Completer = (*OpenAIProvider)(nil)

// OpenAIProvider implements the Completer port against the OpenAI chat
// completions API.
type OpenAIProvider struct {
	model      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIProvider creates a provider targeting the public OpenAI API.
func NewOpenAIProvider(model, apiKey string) *OpenAIProvider {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{
		model:   model,
		apiKey:  apiKey,
		baseURL: openAIEndpoint,
	}
}

// NewOpenAIProviderWithClient creates a provider with a custom HTTP client and
// base URL, for testing against an httptest server.
func NewOpenAIProviderWithClient(model, apiKey, baseURL string, client *http.Client) *OpenAIProvider {
	p := NewOpenAIProvider(model, apiKey)
	if baseURL != "" {
		p.baseURL = baseURL
	}
	p.httpClient = client
	return p
}

// ID returns the provider identifier, e.g. "openai:gpt-4o".
func (p *OpenAIProvider) ID() string {
	return "openai:" + p.model
}

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete sends the system and user messages to the chat completions API and
// returns the first choice.
func (p *OpenAIProvider) Complete(ctx context.Context, req driven.CompletionRequest) (*driven.CompletionResponse, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openai api key not provided")
	}

	messages := []openAIMessage{}
	if req.System != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(openAIRequest{Model: p.model, Messages: messages})
	if err != nil {
		return nil, fmt.Errorf("marshal openai request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build openai request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	client := p.httpClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call openai api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai api returned status %s", resp.Status)
	}

	var decoded openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode openai response: %w", err)
	}

	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("openai api returned no choices")
	}

	return &driven.CompletionResponse{
		Text:  decoded.Choices[0].Message.Content,
		Model: p.model,
		Usage: driven.TokenUsage{
			InputTokens:  decoded.Usage.PromptTokens,
			OutputTokens: decoded.Usage.CompletionTokens,
		},
	}, nil
}
