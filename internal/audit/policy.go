package audit

import (
	"strings"

	"testmap/internal/resolver"
)

// Policy decides which repository files are inspected. A file is skipped when
// its path starts with any ignored prefix or ends with any ignored suffix.
type Policy struct {
	ignorePrefixes []string
	ignoreSuffixes []string
}

// NewPolicy copies the ignore lists into a Policy.
func NewPolicy(ignorePrefixes, ignoreSuffixes []string) Policy {
	return Policy{
		ignorePrefixes: append([]string(nil), ignorePrefixes...),
		ignoreSuffixes: append([]string(nil), ignoreSuffixes...),
	}
}

// ShouldInspect reports whether f survives the ignore lists.
func (p Policy) ShouldInspect(f string) bool {
	for _, prefix := range p.ignorePrefixes {
		if strings.HasPrefix(f, prefix) {
			return false
		}
	}
	for _, suffix := range p.ignoreSuffixes {
		if strings.HasSuffix(f, suffix) {
			return false
		}
	}
	return true
}

// Filter returns the files that should be inspected, in input order.
func (p Policy) Filter(files []string) []string {
	var kept []string
	for _, f := range files {
		if p.ShouldInspect(f) {
			kept = append(kept, f)
		}
	}
	return kept
}

// Partition splits files into module files and test files. A file is a test
// file when its leading path segments equal testDir.
func Partition(files []string, testDir string) (moduleFiles, testFiles []string) {
	for _, f := range files {
		if resolver.Within(f, testDir) {
			testFiles = append(testFiles, f)
		} else {
			moduleFiles = append(moduleFiles, f)
		}
	}
	return moduleFiles, testFiles
}
