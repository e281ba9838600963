// Package keyword extracts salient job description terms and checks resumes for them.
package keyword

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	domkw "github.com/kailas-cloud/resumerank/internal/domain/keyword"
)

// DefaultMaxKeywords is how many job keywords a run keeps when not configured.
const DefaultMaxKeywords = 20

// Analyzer extracts job keywords and matches them against resumes.
// Matching is exact token containment (plus the plain plural forms of a keyword);
// phrases and synonyms are not recognized.
type Analyzer struct {
	maxKeywords int
}

// New creates an Analyzer keeping DefaultMaxKeywords keywords.
func New() *Analyzer {
	return &Analyzer{maxKeywords: DefaultMaxKeywords}
}

// WithMaxKeywords configures the default keyword budget.
func (a *Analyzer) WithMaxKeywords(n int) *Analyzer {
	if n > 0 {
		a.maxKeywords = n
	}
	return a
}

// MaxKeywords returns the configured default keyword budget.
func (a *Analyzer) MaxKeywords() int { return a.maxKeywords }

type termStat struct {
	term  string
	count int
	first int
}

// Extract returns the top maxKeywords terms of text by frequency, ties broken by
// first occurrence. maxKeywords <= 0 uses the analyzer default.
func (a *Analyzer) Extract(text string, maxKeywords int) domkw.Set {
	if maxKeywords <= 0 {
		maxKeywords = a.maxKeywords
	}

	stats := make(map[string]*termStat)
	order := make([]string, 0)
	for pos, tok := range Tokenize(text) {
		if !isCandidateTerm(tok) {
			continue
		}
		if st, ok := stats[tok]; ok {
			st.count++
			continue
		}
		stats[tok] = &termStat{term: tok, count: 1, first: pos}
		order = append(order, tok)
	}

	terms := foldPlurals(order, stats)
	slices.SortStableFunc(terms, func(x, y termStat) int {
		if c := cmp.Compare(y.count, x.count); c != 0 {
			return c
		}
		return cmp.Compare(x.first, y.first)
	})

	if len(terms) > maxKeywords {
		terms = terms[:maxKeywords]
	}
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.term
	}
	return domkw.NewSet(out...)
}

// foldPlurals merges "apis" into "api" (and "classes" into "class") when both
// forms occur, keeping the earliest position. Chains such as "lenses" -> "lens" -> "len"
// resolve to the shortest form that occurs.
func foldPlurals(order []string, stats map[string]*termStat) []termStat {
	folded := make(map[string]*termStat, len(order))
	roots := make([]string, 0, len(order))
	for _, tok := range order {
		root := rootOf(tok, stats)
		st := stats[tok]
		f, ok := folded[root]
		if !ok {
			f = &termStat{term: root, first: st.first}
			folded[root] = f
			roots = append(roots, root)
		}
		f.count += st.count
		f.first = min(f.first, st.first)
	}
	terms := make([]termStat, 0, len(roots))
	for _, r := range roots {
		terms = append(terms, *folded[r])
	}
	return terms
}

func rootOf(tok string, stats map[string]*termStat) string {
	for {
		singular, ok := singularIn(tok, stats)
		if !ok {
			return tok
		}
		tok = singular
	}
}

func singularIn(tok string, stats map[string]*termStat) (string, bool) {
	for _, base := range singulars(tok) {
		if _, exists := stats[base]; exists {
			return base, true
		}
	}
	return "", false
}

// minStemRunes is the shortest singular a plural folds into, so "goes" never becomes "go".
const minStemRunes = 3

// singulars returns the candidate singular forms of a plural-looking token.
func singulars(tok string) []string {
	var out []string
	for _, suffix := range []string{"es", "s"} {
		base, ok := strings.CutSuffix(tok, suffix)
		if ok && utf8.RuneCountInString(base) >= minStemRunes {
			out = append(out, base)
		}
	}
	return out
}

// Match splits keywords into those present in text and those missing.
// Both results keep the keyword set order; together they equal keywords.
func (a *Analyzer) Match(keywords domkw.Set, text string) (matched, missing domkw.Set) {
	tokens := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		tokens[tok] = struct{}{}
	}

	var hit, miss []string
	for _, k := range keywords.Items() {
		if containsForm(tokens, k) {
			hit = append(hit, k)
		} else {
			miss = append(miss, k)
		}
	}
	return domkw.NewSet(hit...), domkw.NewSet(miss...)
}

// containsForm reports an exact token match, or a plural of k under the same rule
// Extract folds by.
func containsForm(tokens map[string]struct{}, k string) bool {
	if _, ok := tokens[k]; ok {
		return true
	}
	if utf8.RuneCountInString(k) < minStemRunes {
		return false
	}
	for _, form := range []string{k + "s", k + "es"} {
		if _, ok := tokens[form]; ok {
			return true
		}
	}
	return false
}

// Tokenize lowercases text and splits it on word boundaries. Letters, digits and
// the tech-name characters + # . stay inside a token ("c++", "c#", "node.js");
// trailing dots are dropped.
func Tokenize(text string) []string {
	var tokens []string
	var word strings.Builder
	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if w != "" && w != "+" && w != "#" {
			tokens = append(tokens, w)
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}

func isCandidateTerm(tok string) bool {
	if utf8.RuneCountInString(tok) < 2 {
		return false
	}
	if isStopWord(tok) {
		return false
	}
	hasLetter := false
	for _, r := range tok {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	return hasLetter
}
