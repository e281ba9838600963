// Package text normalizes extracted resume and job description text.
package text

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kailas-cloud/resumerank/internal/domain"
)

// Prepare returns the canonical form of raw: invalid UTF-8 replaced, control
// characters turned into spaces, whitespace runs collapsed, trimmed and lowercased.
// Same input always yields the same output.
func Prepare(raw string) (string, error) {
	if !utf8.ValidString(raw) {
		raw = strings.ToValidUTF8(raw, "�")
	}

	var b strings.Builder
	b.Grow(len(raw))
	pendingSpace := false
	for _, r := range raw {
		if unicode.IsSpace(r) || unicode.IsControl(r) || r == ' ' {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(unicode.ToLower(r))
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("normalize text: %w", domain.ErrEmptyDocument)
	}
	return b.String(), nil
}

// Preview returns at most limit runes of text, for display next to a ranking.
func Preview(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}
