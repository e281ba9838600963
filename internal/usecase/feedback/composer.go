// Package feedback turns a scored candidate into human-readable advice.
package feedback

import (
	"fmt"
	"strings"

	domfb "github.com/kailas-cloud/resumerank/internal/domain/feedback"
	domrank "github.com/kailas-cloud/resumerank/internal/domain/ranking"
)

// DefaultMaxListed caps how many keywords one feedback line enumerates.
const DefaultMaxListed = 20

var suggestions = []string{
	"- Add relevant keywords from the job description.",
	"- Clearly highlight matching skills, tools, and achievements.",
	"- Use consistent formatting and standard section headers (e.g., Experience, Projects).",
	"- Keep it concise, clean, and professional.",
}

// Composer renders feedback. It performs no I/O and is safe for concurrent use.
type Composer struct {
	maxListed int
}

// New creates a Composer listing at most DefaultMaxListed keywords per line.
func New() *Composer {
	return &Composer{maxListed: DefaultMaxListed}
}

// WithMaxListed sets the per-line keyword cap.
func (c *Composer) WithMaxListed(n int) *Composer {
	if n > 0 {
		c.maxListed = n
	}
	return c
}

// Compose returns the feedback for one candidate. Same result, same text.
func (c *Composer) Compose(r domrank.Result) domfb.Text {
	lines := make([]string, 0, 12)
	if r.Rank() > 0 {
		lines = append(lines, fmt.Sprintf("Rank: %d", r.Rank()))
	}
	lines = append(lines,
		fmt.Sprintf("Composite score: %.4f (similarity %.4f, keyword coverage %.1f%%)",
			r.Composite(), r.Similarity(), r.Coverage()*100),
	)
	if r.Degraded() {
		lines = append(lines, fmt.Sprintf(
			"Warning: semantic similarity could not be computed (%s); it counts as 0.", r.DegradedReason()))
	}

	total := r.Matched().Len() + r.Missing().Len()
	lines = append(lines, fmt.Sprintf(
		"Resume matches about %.1f%% of the job description keywords.", r.Coverage()*100))

	switch {
	case total == 0:
		lines = append(lines, "The job description has no distinctive keywords to compare.")
	case r.Missing().IsEmpty():
		lines = append(lines, "All job description keywords are present in the resume!")
	default:
		if !r.Matched().IsEmpty() {
			lines = append(lines, "Matched keywords: "+c.list(r.Matched().Items())+".")
		}
		lines = append(lines, "Missing keywords (skills or terms): "+c.list(r.Missing().Items())+".")
	}

	lines = append(lines, "", "Suggestions:")
	lines = append(lines, suggestions...)

	return domfb.Text{
		DocumentID: r.DocumentID(),
		Title:      "Feedback for " + r.DocumentID(),
		Lines:      lines,
	}
}

// ComposeAll renders feedback for every candidate in rank order.
func (c *Composer) ComposeAll(list domrank.RankedList) []domfb.Text {
	out := make([]domfb.Text, 0, list.Len())
	for _, r := range list.Results() {
		out = append(out, c.Compose(r))
	}
	return out
}

func (c *Composer) list(items []string) string {
	if len(items) > c.maxListed {
		items = items[:c.maxListed]
	}
	return strings.Join(items, ", ")
}
