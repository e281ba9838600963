package domain

import (
	"context"
	"fmt"
)

// Embedder turns a text into a fixed-length vector. Implementations must return
// the same vector for identical input within a run.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// EmbedderFunc adapts a plain function to Embedder.
type EmbedderFunc func(ctx context.Context, text string) (EmbeddingResult, error)

// Embed calls f.
func (f EmbedderFunc) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return f(ctx, text)
}

// PrefixedEmbedder prepends a model instruction (e.g. "query: " / "passage: ") before embedding.
// Resumes and job descriptions use different prefixes with asymmetric models.
type PrefixedEmbedder struct {
	inner  Embedder
	prefix string
}

// NewPrefixedEmbedder wraps inner. An empty prefix makes it a pass-through.
func NewPrefixedEmbedder(inner Embedder, prefix string) *PrefixedEmbedder {
	return &PrefixedEmbedder{inner: inner, prefix: prefix}
}

// Embed prepends the prefix and delegates to the inner embedder.
func (e *PrefixedEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	result, err := e.inner.Embed(ctx, e.prefix+text)
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("prefixed embed: %w", err)
	}
	return result, nil
}

// HealthCheck forwards to the inner embedder when it supports health checks.
func (e *PrefixedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := e.inner.(HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
	}
	return nil
}
