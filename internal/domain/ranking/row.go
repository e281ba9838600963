package ranking

// Row is the flat shape handed to spreadsheet sinks.
type Row struct {
	DocumentID      string
	Rank            int
	CompositeScore  float64
	SimilarityScore float64
	Coverage        float64
	MatchedKeywords []string
	MissingKeywords []string
	Degraded        bool
}

// Rows returns one export row per candidate, in rank order.
func (l RankedList) Rows() []Row {
	rows := make([]Row, len(l.results))
	for i, r := range l.results {
		rows[i] = Row{
			DocumentID:      r.documentID,
			Rank:            r.rank,
			CompositeScore:  r.composite,
			SimilarityScore: r.similarity,
			Coverage:        r.coverage,
			MatchedKeywords: r.matched.Items(),
			MissingKeywords: r.missing.Items(),
			Degraded:        r.degraded,
		}
	}
	return rows
}
