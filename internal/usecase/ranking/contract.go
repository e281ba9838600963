package ranking

import (
	"context"

	"github.com/kailas-cloud/resumerank/internal/domain/keyword"
	domrank "github.com/kailas-cloud/resumerank/internal/domain/ranking"
)

// Scorer embeds text and compares vectors.
type Scorer interface {
	EmbedJob(ctx context.Context, text string) ([]float32, error)
	Embed(ctx context.Context, text string, wantDim int) ([]float32, error)
	Score(job, doc []float32) float64
}

// KeywordAnalyzer extracts job keywords and splits them per resume.
type KeywordAnalyzer interface {
	Extract(text string, maxKeywords int) keyword.Set
	Match(keywords keyword.Set, text string) (matched, missing keyword.Set)
}

// RunStore persists finished runs for later retrieval and export.
type RunStore interface {
	Save(ctx context.Context, list domrank.RankedList) error
	Get(ctx context.Context, runID string) (domrank.RankedList, error)
}
