package run

import (
	domkw "github.com/kailas-cloud/resumerank/internal/domain/keyword"
	domrank "github.com/kailas-cloud/resumerank/internal/domain/ranking"
)

type runDTO struct {
	RunID     string      `json:"run_id"`
	Weight    float64     `json:"weight"`
	Keywords  []string    `json:"keywords"`
	Partial   bool        `json:"partial,omitempty"`
	CreatedAt int64       `json:"created_at"`
	Results   []resultDTO `json:"results"`
}

type resultDTO struct {
	DocumentID     string   `json:"document_id"`
	Rank           int      `json:"rank"`
	Similarity     float64  `json:"similarity"`
	Coverage       float64  `json:"coverage"`
	Composite      float64  `json:"composite"`
	Matched        []string `json:"matched"`
	Missing        []string `json:"missing"`
	Degraded       bool     `json:"degraded,omitempty"`
	DegradedReason string   `json:"degraded_reason,omitempty"`
	Preview        string   `json:"preview,omitempty"`
}

func toDTO(l domrank.RankedList) runDTO {
	results := l.Results()
	out := runDTO{
		RunID:     l.RunID(),
		Weight:    l.Weight(),
		Keywords:  l.Keywords().Items(),
		Partial:   l.Partial(),
		CreatedAt: l.CreatedAt(),
		Results:   make([]resultDTO, 0, len(results)),
	}
	for _, r := range results {
		out.Results = append(out.Results, resultDTO{
			DocumentID:     r.DocumentID(),
			Rank:           r.Rank(),
			Similarity:     r.Similarity(),
			Coverage:       r.Coverage(),
			Composite:      r.Composite(),
			Matched:        r.Matched().Items(),
			Missing:        r.Missing().Items(),
			Degraded:       r.Degraded(),
			DegradedReason: r.DegradedReason(),
			Preview:        r.Preview(),
		})
	}
	return out
}

// fromDTO rehydrates stored scores as-is; the composite is not recomputed
// so a later change of the default weight cannot reorder old runs.
func fromDTO(d runDTO) domrank.RankedList {
	results := make([]domrank.Result, 0, len(d.Results))
	for _, r := range d.Results {
		results = append(results, domrank.ReconstructResult(domrank.ResultParams{
			DocumentID:     r.DocumentID,
			Similarity:     r.Similarity,
			Matched:        domkw.NewSet(r.Matched...),
			Missing:        domkw.NewSet(r.Missing...),
			Degraded:       r.Degraded,
			DegradedReason: r.DegradedReason,
			Preview:        r.Preview,
		}, r.Coverage, r.Composite, r.Rank))
	}
	return domrank.ReconstructList(domrank.ListParams{
		RunID:     d.RunID,
		Weight:    d.Weight,
		Keywords:  domkw.NewSet(d.Keywords...),
		Partial:   d.Partial,
		CreatedAt: d.CreatedAt,
	}, results)
}
