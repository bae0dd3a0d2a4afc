package selection

import (
	"strings"

	"testmap/internal/domain"
	"testmap/internal/mapping"
)

// FailedPrefixes returns the top-level test names of unresolved failures as a
// prefix set. Subtest failures select their parent test. Package-level
// failures, which have no test name, are skipped.
func FailedPrefixes(failures []domain.TestFailure) mapping.PrefixSet {
	set := mapping.NewPrefixSet()
	for _, failure := range failures {
		if failure.Resolved || !strings.HasPrefix(failure.TestName, mapping.TestFuncPrefix) {
			continue
		}
		name, _, _ := strings.Cut(failure.TestName, "/")
		set.Add(name)
	}
	return set
}
