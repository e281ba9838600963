// Package keyword holds the ordered keyword set derived from a job description.
package keyword

// Set is an insertion-ordered set of normalized keywords (value object).
// Order is significant: it is the extraction rank for job keywords and is
// preserved by every derived set, so feedback and exports are stable.
type Set struct {
	items []string
	index map[string]struct{}
}

// NewSet creates a Set, dropping empty strings and later duplicates.
func NewSet(items ...string) Set {
	s := Set{
		items: make([]string, 0, len(items)),
		index: make(map[string]struct{}, len(items)),
	}
	for _, it := range items {
		if it == "" {
			continue
		}
		if _, dup := s.index[it]; dup {
			continue
		}
		s.index[it] = struct{}{}
		s.items = append(s.items, it)
	}
	return s
}

// Items returns a copy of the keywords in set order.
func (s Set) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of keywords.
func (s Set) Len() int { return len(s.items) }

// IsEmpty reports whether the set has no keywords.
func (s Set) IsEmpty() bool { return len(s.items) == 0 }

// Contains reports whether k is in the set.
func (s Set) Contains(k string) bool {
	_, ok := s.index[k]
	return ok
}

// Union returns s followed by the members of other not already in s.
func (s Set) Union(other Set) Set {
	all := make([]string, 0, s.Len()+other.Len())
	all = append(all, s.items...)
	all = append(all, other.items...)
	return NewSet(all...)
}

// Intersects reports whether s and other share at least one keyword.
func (s Set) Intersects(other Set) bool {
	for _, it := range s.items {
		if other.Contains(it) {
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold the same keywords, ignoring order.
func (s Set) Equal(other Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, it := range s.items {
		if !other.Contains(it) {
			return false
		}
	}
	return true
}
