package scoring

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/kailas-cloud/resumerank/internal/domain"
)

type mockEmbedder struct {
	vec    []float32
	tokens int
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: m.tokens}, nil
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 1}, []float32{-1, -1}, -1},
		{"zero norm", []float32{0, 0, 0}, []float32{1, 2, 3}, 0},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Cosine(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Cosine = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCosine_SelfSimilarityAndRange(t *testing.T) {
	vectors := [][]float32{
		{0.1, 0.2, 0.3},
		{1e-3, -4e-2, 7, 0.5},
		{123456, 0.000001, -98765},
		{0.33333334, 0.33333334, 0.33333334},
	}
	for _, v := range vectors {
		if got := Cosine(v, v); math.Abs(got-1) > 1e-9 {
			t.Errorf("Cosine(v, v) = %v, want 1", got)
		}
		if got := Cosine(v, v); got > 1 {
			t.Errorf("cosine must be clamped to 1, got %v", got)
		}
	}
}

func TestScorer_Embed(t *testing.T) {
	ctx, usage := domain.NewContextWithUsage(context.Background())
	s := New(&mockEmbedder{vec: []float32{0.1, 0.2}, tokens: 7})

	vec, err := s.Embed(ctx, "go developer", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 2 {
		t.Fatalf("expected 2 dims, got %d", len(vec))
	}
	if usage.TotalTokens() != 7 || usage.Calls() != 1 {
		t.Errorf("expected usage to be recorded, got tokens=%d calls=%d", usage.TotalTokens(), usage.Calls())
	}
}

func TestScorer_Embed_InvalidVectors(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	tests := []struct {
		name    string
		vec     []float32
		wantDim int
		pinned  int
	}{
		{"empty", nil, 0, 0},
		{"nan", []float32{0.1, nan}, 0, 0},
		{"inf", []float32{inf, 0.1}, 0, 0},
		{"wrong length for run", []float32{0.1, 0.2, 0.3}, 2, 0},
		{"wrong length for pinned", []float32{0.1, 0.2}, 0, 384},
		{"pinned wins over run length", []float32{0.1, 0.2}, 2, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New(&mockEmbedder{vec: tc.vec}).WithDimensions(tc.pinned)
			_, err := s.Embed(context.Background(), "text", tc.wantDim)
			if !errors.Is(err, domain.ErrEmbeddingProviderError) {
				t.Errorf("expected ErrEmbeddingProviderError, got %v", err)
			}
		})
	}
}

func TestScorer_Embed_AnyLengthWithoutExpectation(t *testing.T) {
	s := New(&mockEmbedder{vec: []float32{1, 2, 3, 4, 5}})
	if _, err := s.Embed(context.Background(), "x", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScorer_Embed_ProviderErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"generic failure becomes provider error", errors.New("connection reset"), domain.ErrEmbeddingProviderError},
		{"quota stays quota", domain.ErrEmbeddingQuotaExceeded, domain.ErrEmbeddingQuotaExceeded},
		{"rate limit stays rate limit", domain.ErrRateLimited, domain.ErrRateLimited},
		{"cancellation stays cancellation", context.Canceled, context.Canceled},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New(&mockEmbedder{err: tc.err})
			_, err := s.Embed(context.Background(), "x", 0)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}

	s := New(&mockEmbedder{err: domain.ErrRateLimited})
	_, err := s.Embed(context.Background(), "x", 0)
	if errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Error("rate limit must not be reported as provider error")
	}
}

func TestScorer_Score(t *testing.T) {
	s := New(&mockEmbedder{})
	if got := s.Score([]float32{1, 0}, []float32{1, 0}); got != 1 {
		t.Errorf("expected 1, got %v", got)
	}
}

func TestScorer_EmbedJob_UsesQueryEmbedder(t *testing.T) {
	doc := &mockEmbedder{vec: []float32{1, 0}}
	query := &mockEmbedder{vec: []float32{0, 1, 0}}
	s := New(doc).WithQueryEmbedder(query)

	vec, err := s.EmbedJob(context.Background(), "job")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("expected the query embedder vector, got %v", vec)
	}

	if vec, _ := New(doc).EmbedJob(context.Background(), "job"); len(vec) != 2 {
		t.Errorf("without a query embedder the document embedder is used, got %v", vec)
	}
}
