package ranking

import "github.com/kailas-cloud/resumerank/internal/domain/keyword"

// ResultParams carries the per-candidate measurements the engine collected.
type ResultParams struct {
	DocumentID     string
	Similarity     float64
	Matched        keyword.Set
	Missing        keyword.Set
	Degraded       bool
	DegradedReason string
	Preview        string
}

// Result is the scored outcome for one candidate. Immutable except for rank,
// which only NewRankedList assigns.
type Result struct {
	documentID     string
	similarity     float64
	coverage       float64
	composite      float64
	matched        keyword.Set
	missing        keyword.Set
	degraded       bool
	degradedReason string
	preview        string
	rank           int
}

// NewResult derives keyword coverage and the composite score:
// composite = weight*similarity + (1-weight)*coverage, coverage = |matched| / |keywords|.
func NewResult(p ResultParams, weight float64) Result {
	total := p.Matched.Len() + p.Missing.Len()
	coverage := 0.0
	if total > 0 {
		coverage = float64(p.Matched.Len()) / float64(total)
	}
	return Result{
		documentID:     p.DocumentID,
		similarity:     p.Similarity,
		coverage:       coverage,
		composite:      weight*p.Similarity + (1-weight)*coverage,
		matched:        p.Matched,
		missing:        p.Missing,
		degraded:       p.Degraded,
		degradedReason: p.DegradedReason,
		preview:        p.Preview,
	}
}

// ReconstructResult creates a Result without recomputation (storage hydration).
func ReconstructResult(p ResultParams, coverage, composite float64, rank int) Result {
	return Result{
		documentID:     p.DocumentID,
		similarity:     p.Similarity,
		coverage:       coverage,
		composite:      composite,
		matched:        p.Matched,
		missing:        p.Missing,
		degraded:       p.Degraded,
		degradedReason: p.DegradedReason,
		preview:        p.Preview,
		rank:           rank,
	}
}

// DocumentID returns the candidate document identifier.
func (r Result) DocumentID() string { return r.documentID }

// Similarity returns the cosine similarity to the job description, in [-1, 1].
func (r Result) Similarity() float64 { return r.similarity }

// Coverage returns the fraction of job keywords present in the resume.
func (r Result) Coverage() float64 { return r.coverage }

// Composite returns the weighted score used for ordering.
func (r Result) Composite() float64 { return r.composite }

// Matched returns the job keywords found in the resume.
func (r Result) Matched() keyword.Set { return r.matched }

// Missing returns the job keywords absent from the resume.
func (r Result) Missing() keyword.Set { return r.missing }

// Degraded reports whether the similarity could not be computed.
func (r Result) Degraded() bool { return r.degraded }

// DegradedReason explains a degraded result; empty otherwise.
func (r Result) DegradedReason() string { return r.degradedReason }

// Preview returns the leading part of the normalized resume text.
func (r Result) Preview() string { return r.preview }

// Rank returns the 1-based position, 0 until the result is part of a RankedList.
func (r Result) Rank() int { return r.rank }
