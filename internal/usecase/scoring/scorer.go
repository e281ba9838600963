// Package scoring embeds documents and measures their similarity to the job description.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/kailas-cloud/resumerank/internal/domain"
	"github.com/kailas-cloud/resumerank/internal/metrics"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Scorer validates provider vectors and computes cosine similarity.
type Scorer struct {
	embed      Embedder
	query      Embedder
	dimensions int
}

// New creates a Scorer. Without WithDimensions the expected vector length is
// whatever the caller passes to Embed (the job vector length during a run).
func New(embed Embedder) *Scorer {
	return &Scorer{embed: embed, query: embed}
}

// WithQueryEmbedder sets a separate embedder for job descriptions, used with
// asymmetric models that expect a query instruction.
func (s *Scorer) WithQueryEmbedder(e Embedder) *Scorer {
	if e != nil {
		s.query = e
	}
	return s
}

// WithDimensions pins the expected vector length for every call.
func (s *Scorer) WithDimensions(d int) *Scorer {
	if d > 0 {
		s.dimensions = d
	}
	return s
}

// Embed vectorizes text and rejects degenerate vectors with domain.ErrEmbeddingProviderError:
// empty, NaN/Inf components, or a length other than the pinned dimensions (or wantDim when
// nothing is pinned; wantDim <= 0 accepts any length).
func (s *Scorer) Embed(ctx context.Context, text string, wantDim int) ([]float32, error) {
	return s.vectorize(ctx, s.embed, text, wantDim)
}

// EmbedJob vectorizes a job description with the query embedder. Any length is
// accepted unless dimensions are pinned.
func (s *Scorer) EmbedJob(ctx context.Context, text string) ([]float32, error) {
	return s.vectorize(ctx, s.query, text, 0)
}

func (s *Scorer) vectorize(ctx context.Context, e Embedder, text string, wantDim int) ([]float32, error) {
	res, err := e.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", asProviderError(err))
	}
	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)

	if s.dimensions > 0 {
		wantDim = s.dimensions
	}
	if err := validateVector(res.Embedding, wantDim); err != nil {
		return nil, err
	}
	return res.Embedding, nil
}

// Score returns the cosine similarity between the job and document vectors.
func (s *Scorer) Score(job, doc []float32) float64 {
	return Cosine(job, doc)
}

func validateVector(vec []float32, wantDim int) error {
	if len(vec) == 0 {
		metrics.EmbeddingInvalidVectorsTotal.WithLabelValues("empty").Inc()
		return domain.NewInvalidVector("empty vector")
	}
	if wantDim > 0 && len(vec) != wantDim {
		metrics.EmbeddingInvalidVectorsTotal.WithLabelValues("dimension").Inc()
		return fmt.Errorf("%w: %w", domain.ErrVectorDimMismatch,
			domain.NewInvalidVector("expected %d dimensions, got %d", wantDim, len(vec)))
	}
	for i, v := range vec {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			metrics.EmbeddingInvalidVectorsTotal.WithLabelValues("non_finite").Inc()
			return domain.NewInvalidVector("component %d is %v", i, v)
		}
	}
	return nil
}

// asProviderError keeps budget and rate-limit errors distinguishable and marks
// everything else as a provider failure.
func asProviderError(err error) error {
	if isKnown(err) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrEmbeddingProviderError, err)
}

func isKnown(err error) bool {
	for _, target := range []error{
		domain.ErrEmbeddingProviderError,
		domain.ErrEmbeddingQuotaExceeded,
		domain.ErrRateLimited,
		context.Canceled,
		context.DeadlineExceeded,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
