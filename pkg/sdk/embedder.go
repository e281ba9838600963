package resumerank

import (
	"context"

	"github.com/kailas-cloud/resumerank/internal/domain"
)

// Embedder converts text to vector embeddings. Implementations must be safe for
// concurrent use: a run embeds several resumes at once.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// EmbedderFunc adapts a function to Embedder.
type EmbedderFunc func(ctx context.Context, text string) (EmbeddingResult, error)

// Embed calls f.
func (f EmbedderFunc) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return f(ctx, text)
}

// HealthChecker is optionally implemented by an Embedder to take part in Health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// adaptEmbedder converts a public Embedder to the internal one.
func adaptEmbedder(e Embedder) domain.Embedder {
	return domain.EmbedderFunc(func(ctx context.Context, text string) (domain.EmbeddingResult, error) {
		res, err := e.Embed(ctx, text)
		if err != nil {
			return domain.EmbeddingResult{}, err //nolint:wrapcheck // caller's error, wrapped by the scorer
		}
		return domain.EmbeddingResult{
			Embedding:    res.Embedding,
			PromptTokens: res.PromptTokens,
			TotalTokens:  res.TotalTokens,
		}, nil
	})
}

// embedderHealth probes the embedder when it implements HealthChecker.
type embedderHealth struct {
	inner Embedder
}

func (h embedderHealth) HealthCheck(ctx context.Context) error {
	if hc, ok := h.inner.(HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent adapter
	}
	return nil
}
