package resumerank

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/resumerank/internal/domain"
	domrank "github.com/kailas-cloud/resumerank/internal/domain/ranking"
	rankinguc "github.com/kailas-cloud/resumerank/internal/usecase/ranking"
)

// Rank scores every document against the job description and returns them
// best first. The run is stored and can be exported by its RunID.
func (c *Client) Rank(ctx context.Context, req RankRequest) (_ *Ranking, err error) {
	defer func(start time.Time) { c.obs.observe("rank", start, err) }(time.Now())

	inputs := make([]domrank.Input, len(req.Documents))
	for i, d := range req.Documents {
		inputs[i] = domrank.Input{ID: d.ID, Text: d.Text}
	}

	ctx, usage := domain.NewContextWithUsage(ctx)
	list, err := c.ranking.Run(ctx, rankinguc.Request{
		JobDescription:  req.JobDescription,
		Documents:       inputs,
		Weight:          req.Weight,
		MaxKeywords:     req.MaxKeywords,
		PartialOnCancel: req.PartialOnCancel,
	})
	if err != nil {
		return nil, fmt.Errorf("resumerank: rank: %w", err)
	}
	c.obs.ranked(list.Len())
	out := toRanking(list)
	out.EmbeddingTokens = usage.TotalTokens()
	return out, nil
}

// Get returns a stored run.
func (c *Client) Get(ctx context.Context, runID string) (_ *Ranking, err error) {
	defer func(start time.Time) { c.obs.observe("get", start, err) }(time.Now())

	list, err := c.ranking.Get(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("resumerank: get %s: %w", runID, err)
	}
	return toRanking(list), nil
}

// Delete drops a stored run. Deleting a missing run is not an error.
func (c *Client) Delete(ctx context.Context, runID string) (err error) {
	defer func(start time.Time) { c.obs.observe("delete", start, err) }(time.Now())

	if err = c.runs.Delete(ctx, runID); err != nil {
		return fmt.Errorf("resumerank: delete %s: %w", runID, err)
	}
	return nil
}

func toRanking(list domrank.RankedList) *Ranking {
	results := list.Results()
	out := &Ranking{
		RunID:     list.RunID(),
		Weight:    list.Weight(),
		Keywords:  list.Keywords().Items(),
		Partial:   list.Partial(),
		CreatedAt: time.UnixMilli(list.CreatedAt()).UTC(),
		Results:   make([]Result, len(results)),
	}
	for i, r := range results {
		out.Results[i] = Result{
			DocumentID:      r.DocumentID(),
			Rank:            r.Rank(),
			CompositeScore:  r.Composite(),
			SimilarityScore: r.Similarity(),
			KeywordCoverage: r.Coverage(),
			MatchedKeywords: r.Matched().Items(),
			MissingKeywords: r.Missing().Items(),
			Degraded:        r.Degraded(),
			DegradedReason:  r.DegradedReason(),
			Preview:         r.Preview(),
		}
	}
	return out
}
