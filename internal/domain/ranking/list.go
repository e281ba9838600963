package ranking

import (
	"cmp"
	"math"
	"slices"

	"github.com/kailas-cloud/resumerank/internal/domain/keyword"
)

// scoreGrid is the resolution scores are compared at. Scores are rounded to the
// grid first, so float noise from the weighted sum never decides an ordering and
// equality stays transitive.
const scoreGrid = 1e-9

// RankedList is the ordered outcome of one run. Ranks are exactly 1..N.
type RankedList struct {
	runID     string
	weight    float64
	keywords  keyword.Set
	results   []Result
	partial   bool
	createdAt int64
}

// ListParams describes the run a RankedList belongs to.
type ListParams struct {
	RunID     string
	Weight    float64
	Keywords  keyword.Set
	Partial   bool
	CreatedAt int64 // unix millis
}

// NewRankedList orders results and assigns ranks 1..N.
// Order: composite desc, similarity desc, matched count desc, document id asc.
func NewRankedList(p ListParams, results []Result) RankedList {
	ordered := slices.Clone(results)
	slices.SortStableFunc(ordered, Compare)
	for i := range ordered {
		ordered[i].rank = i + 1
	}
	return RankedList{
		runID:     p.RunID,
		weight:    p.Weight,
		keywords:  p.Keywords,
		results:   ordered,
		partial:   p.Partial,
		createdAt: p.CreatedAt,
	}
}

// ReconstructList rebuilds a stored list; results must already carry their ranks.
func ReconstructList(p ListParams, results []Result) RankedList {
	ordered := slices.Clone(results)
	slices.SortFunc(ordered, func(a, b Result) int { return cmp.Compare(a.rank, b.rank) })
	return RankedList{
		runID:     p.RunID,
		weight:    p.Weight,
		keywords:  p.Keywords,
		results:   ordered,
		partial:   p.Partial,
		createdAt: p.CreatedAt,
	}
}

// Compare orders a before b when a ranks higher. It is a total order.
func Compare(a, b Result) int {
	if c := compareScore(b.composite, a.composite); c != 0 {
		return c
	}
	if c := compareScore(b.similarity, a.similarity); c != 0 {
		return c
	}
	if c := cmp.Compare(b.matched.Len(), a.matched.Len()); c != 0 {
		return c
	}
	return cmp.Compare(a.documentID, b.documentID)
}

func compareScore(x, y float64) int {
	return cmp.Compare(quantize(x), quantize(y))
}

func quantize(x float64) float64 {
	return math.Round(x / scoreGrid)
}

// RunID returns the run identifier.
func (l RankedList) RunID() string { return l.runID }

// Weight returns the similarity weight the run used.
func (l RankedList) Weight() float64 { return l.weight }

// Keywords returns the job keyword set.
func (l RankedList) Keywords() keyword.Set { return l.keywords }

// Partial reports whether the run was cancelled and holds only scored documents.
func (l RankedList) Partial() bool { return l.partial }

// CreatedAt returns the run timestamp in unix millis.
func (l RankedList) CreatedAt() int64 { return l.createdAt }

// Len returns the number of candidates.
func (l RankedList) Len() int { return len(l.results) }

// Results returns the candidates in rank order.
func (l RankedList) Results() []Result { return slices.Clone(l.results) }

// Result looks up a candidate by document id.
func (l RankedList) Result(documentID string) (Result, bool) {
	for _, r := range l.results {
		if r.documentID == documentID {
			return r, true
		}
	}
	return Result{}, false
}

// DegradedCount returns how many candidates have no usable similarity.
func (l RankedList) DegradedCount() int {
	n := 0
	for _, r := range l.results {
		if r.degraded {
			n++
		}
	}
	return n
}
