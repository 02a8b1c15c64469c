package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentboard/agentboard/internal/domain/port/driven"
)

// flakyCompleter fails a configured number of times before succeeding.
type flakyCompleter struct {
	failures int
	calls    int
}

func (f *flakyCompleter) ID() string { return "flaky:test" }

func (f *flakyCompleter) Complete(ctx context.Context, req driven.CompletionRequest) (*driven.CompletionResponse, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("transient failure")
	}
	return &driven.CompletionResponse{Text: "ok", Model: "test"}, nil
}

func TestResilientProvider_PassesThrough(t *testing.T) {
	inner := &flakyCompleter{}
	p := NewResilientProvider(inner)

	resp, err := p.Complete(context.Background(), driven.CompletionRequest{Prompt: "hi"})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, "flaky:test", p.ID())
}

func TestResilientProvider_RetriesOnce(t *testing.T) {
	inner := &flakyCompleter{failures: 1}
	p := NewResilientProvider(inner)

	resp, err := p.Complete(context.Background(), driven.CompletionRequest{Prompt: "hi"})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 2, inner.calls)
}

func TestResilientProvider_ExhaustsAttempts(t *testing.T) {
	inner := &flakyCompleter{failures: 5}
	p := NewResilientProvider(inner)

	_, err := p.Complete(context.Background(), driven.CompletionRequest{Prompt: "hi"})

	require.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}
