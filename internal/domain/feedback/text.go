// Package feedback holds the plain-text feedback produced for a candidate.
package feedback

import "strings"

// Text is structured plain-text feedback: a heading plus body lines.
// Renderers decide how to lay it out; String joins it for TXT downloads.
type Text struct {
	DocumentID string
	Title      string
	Lines      []string
}

// String returns the feedback body, one line per entry.
func (t Text) String() string {
	return strings.Join(t.Lines, "\n")
}
