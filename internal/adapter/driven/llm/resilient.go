package llm

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"

	"github.com/agentboard/agentboard/internal/domain/port/driven"
)

const completionTimeout = 120 * time.Second

// Compile-time interface satisfaction check.
var _ driven.Completer = (*ResilientProvider)(nil)

// ResilientProvider wraps a Completer with a retry and an overall timeout.
// Transient provider failures get one extra attempt with exponential backoff;
// a completion that exceeds the timeout fails the generateTodos phase rather
// than stalling the whole pipeline.
type ResilientProvider struct {
	inner driven.Completer
}

// NewResilientProvider wraps the given Completer.
func NewResilientProvider(inner driven.Completer) *ResilientProvider {
	return &ResilientProvider{inner: inner}
}

// ID returns the wrapped provider's identifier.
func (p *ResilientProvider) ID() string {
	return p.inner.ID()
}

// Complete executes the wrapped completion under retry and timeout.
func (p *ResilientProvider) Complete(ctx context.Context, req driven.CompletionRequest) (*driven.CompletionResponse, error) {
	r := retry.New[*driven.CompletionResponse](retry.Config{
		MaxAttempts:   2,
		InitialDelay:  time.Second,
		BackoffPolicy: retry.BackoffExponential,
	})

	t := timeout.New[*driven.CompletionResponse](timeout.Config{
		DefaultTimeout: completionTimeout,
	})

	return t.Execute(ctx, completionTimeout, func(ctx context.Context) (*driven.CompletionResponse, error) {
		return r.Do(ctx, func(ctx context.Context) (*driven.CompletionResponse, error) {
			return p.inner.Complete(ctx, req)
		})
	})
}
