package mapping

import "sort"

// Wildcard is the override value that selects every test function. It is
// emitted into the selection regex verbatim.
const Wildcard = ".*"

// PrefixSet is a set of test-name prefixes such as "TestVpcApp".
type PrefixSet map[string]struct{}

// NewPrefixSet returns a set holding the given prefixes.
func NewPrefixSet(prefixes ...string) PrefixSet {
	s := make(PrefixSet, len(prefixes))
	for _, p := range prefixes {
		s.Add(p)
	}
	return s
}

// Add inserts a prefix. Empty strings are ignored.
func (s PrefixSet) Add(prefix string) {
	if prefix == "" {
		return
	}
	s[prefix] = struct{}{}
}

// Union adds every prefix of other into s and returns s.
func (s PrefixSet) Union(other PrefixSet) PrefixSet {
	for p := range other {
		s[p] = struct{}{}
	}
	return s
}

// Contains reports whether prefix is in the set.
func (s PrefixSet) Contains(prefix string) bool {
	_, ok := s[prefix]
	return ok
}

// HasWildcard reports whether the set selects the whole suite.
func (s PrefixSet) HasWildcard() bool {
	return s.Contains(Wildcard)
}

// Sorted returns the prefixes in lexical order.
func (s PrefixSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
