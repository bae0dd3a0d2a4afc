// Package resolver maps changed paths to the module root that encloses them.
package resolver

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// MatchMode selects how a module root is compared against a candidate path.
type MatchMode int

const (
	// PrefixMatch treats a root as enclosing any path it is a string prefix of,
	// so "foo" also claims "foobar/baz".
	PrefixMatch MatchMode = iota
	// SegmentMatch compares whole path segments: "foo" claims "foo" and
	// "foo/bar" but not "foobar/baz".
	SegmentMatch
)

// String returns the configuration spelling of the mode.
func (m MatchMode) String() string {
	switch m {
	case SegmentMatch:
		return "segment"
	default:
		return "prefix"
	}
}

// ParseMatchMode parses "prefix" or "segment". An empty string is PrefixMatch.
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "prefix":
		return PrefixMatch, nil
	case "segment":
		return SegmentMatch, nil
	default:
		return PrefixMatch, fmt.Errorf("unknown match mode %q", s)
	}
}

// Resolver finds the enclosing module root for a path.
type Resolver struct {
	roots []string
	mode  MatchMode
}

// New builds a Resolver over the given module roots. Roots are normalized and
// de-duplicated, then ordered longest first so that the nearest enclosing root
// wins regardless of the order the caller supplied them in.
func New(roots []string, mode MatchMode) *Resolver {
	seen := make(map[string]bool, len(roots))
	normalized := make([]string, 0, len(roots))
	for _, root := range roots {
		root = Normalize(root)
		if root == "" || root == "." || seen[root] {
			continue
		}
		seen[root] = true
		normalized = append(normalized, root)
	}

	sort.Slice(normalized, func(i, j int) bool {
		if len(normalized[i]) != len(normalized[j]) {
			return len(normalized[i]) > len(normalized[j])
		}
		return normalized[i] < normalized[j]
	})

	return &Resolver{roots: normalized, mode: mode}
}

// Roots returns the normalized module roots in resolution order.
func (r *Resolver) Roots() []string {
	out := make([]string, len(r.roots))
	copy(out, r.roots)
	return out
}

// Mode returns the match mode the resolver was built with.
func (r *Resolver) Mode() MatchMode {
	return r.mode
}

// Resolve returns the module root enclosing candidate. The boolean is false
// when no root matches.
func (r *Resolver) Resolve(candidate string) (string, bool) {
	candidate = Normalize(candidate)
	for _, root := range r.roots {
		if r.encloses(root, candidate) {
			return root, true
		}
	}
	return "", false
}

// ResolveAll resolves every candidate and returns the distinct, sorted set of
// module roots that were hit. Candidates without a module are dropped.
func (r *Resolver) ResolveAll(candidates []string) []string {
	hits := make(map[string]bool)
	for _, c := range candidates {
		if root, ok := r.Resolve(c); ok {
			hits[root] = true
		}
	}

	out := make([]string, 0, len(hits))
	for root := range hits {
		out = append(out, root)
	}
	sort.Strings(out)
	return out
}

func (r *Resolver) encloses(root, candidate string) bool {
	if r.mode == SegmentMatch {
		return candidate == root || strings.HasPrefix(candidate, root+"/")
	}
	return strings.HasPrefix(candidate, root)
}

// Normalize turns a relative path into the slash separated, cleaned form used
// for module paths: "./modules/alb/" becomes "modules/alb".
func Normalize(p string) string {
	if p == "" {
		return ""
	}
	p = path.Clean(filepath.ToSlash(p))
	return strings.TrimPrefix(p, "./")
}

// Within reports whether p is dir itself or lies below it, comparing whole
// path segments.
func Within(p, dir string) bool {
	p, dir = Normalize(p), Normalize(dir)
	if dir == "" || dir == "." {
		return true
	}
	return p == dir || strings.HasPrefix(p, dir+"/")
}
