// Package selection turns a change set into the regex handed to `go test -run`.
package selection

import (
	"fmt"
	"regexp"
	"strings"

	"testmap/internal/mapping"
)

// MatchNothing is the regex returned for an empty prefix set. Anchoring end
// before start can only match the empty string, and test names are never empty.
const MatchNothing = "$^"

// BuildRegex joins prefixes into a start-anchored alternation such as
// ^(TestAlb|TestVpcApp). Prefixes are emitted in sorted order so the same set
// always yields the same regex. The wildcard sentinel is passed through as is.
func BuildRegex(prefixes mapping.PrefixSet) string {
	if len(prefixes) == 0 {
		return MatchNothing
	}
	return "^(" + strings.Join(prefixes.Sorted(), "|") + ")"
}

// MatchFunctions returns the names in funcs matched by expr, preserving the
// order of funcs.
func MatchFunctions(expr string, funcs []string) ([]string, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile selection regex %q: %w", expr, err)
	}

	var matched []string
	for _, name := range funcs {
		if re.MatchString(name) {
			matched = append(matched, name)
		}
	}
	return matched, nil
}
