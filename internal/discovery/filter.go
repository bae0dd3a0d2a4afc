package discovery

import (
	"path"
	"path/filepath"
	"strings"
)

// Filter filters test functions or module paths by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps the items whose last path element matches pattern.
// Supports patterns like "TestVpc*" or "*Baseline*"; a pattern without
// wildcards is a substring match.
func (f *Filter) FilterByName(items []string, pattern string) []string {
	if pattern == "" {
		return items
	}

	var filtered []string
	for _, item := range items {
		name := path.Base(filepath.ToSlash(item))
		if matchName(pattern, name) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func matchName(pattern, name string) bool {
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}

	// "*Payment*" style patterns: every literal part must appear, in order.
	hasLiteral := false
	rest := name
	for _, part := range strings.Split(pattern, "*") {
		if part == "" {
			continue
		}
		hasLiteral = true
		i := strings.Index(rest, part)
		if i < 0 {
			return false
		}
		rest = rest[i+len(part):]
	}
	return hasLiteral
}
