package resumerank

import "time"

// Document is one resume: a caller-chosen unique id and its raw text.
type Document struct {
	ID   string
	Text string
}

// RankRequest describes one ranking run. Zero values use the client defaults.
type RankRequest struct {
	JobDescription string
	Documents      []Document
	// Weight of semantic similarity in [0, 1]; keyword coverage gets 1 - Weight.
	Weight *float64
	// MaxKeywords caps the job keywords checked in each resume.
	MaxKeywords int
	// PartialOnCancel returns the resumes scored so far when ctx is cancelled.
	PartialOnCancel *bool
}

// Result is one ranked resume.
type Result struct {
	DocumentID      string
	Rank            int
	CompositeScore  float64
	SimilarityScore float64
	KeywordCoverage float64
	MatchedKeywords []string
	MissingKeywords []string
	// Degraded is set when the resume could not be embedded; its similarity counts as 0.
	Degraded       bool
	DegradedReason string
	Preview        string
}

// Ranking is the outcome of a run, best candidate first.
type Ranking struct {
	RunID     string
	Weight    float64
	Keywords  []string
	Partial   bool
	CreatedAt time.Time
	Results   []Result
	// EmbeddingTokens is what the run consumed; 0 for stored runs.
	EmbeddingTokens int64
}

// Feedback is the plain-text feedback for one candidate.
type Feedback struct {
	DocumentID string
	Title      string
	Lines      []string
}
