package discovery

import (
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ModuleFinder locates module roots: every directory holding a file that
// matches one of the module globs.
type ModuleFinder struct {
	globs []string
}

// NewModuleFinder creates a ModuleFinder for the given doublestar globs, for
// example "modules/**/*.tf".
func NewModuleFinder(globs []string) *ModuleFinder {
	return &ModuleFinder{globs: append([]string(nil), globs...)}
}

// FromFiles derives module roots from a repository file listing.
func (m *ModuleFinder) FromFiles(files []string) []string {
	roots := make(map[string]bool)
	for _, f := range files {
		if m.matches(f) {
			roots[path.Dir(f)] = true
		}
	}
	return sortedKeys(roots)
}

// Walk derives module roots by globbing the filesystem under root.
func (m *ModuleFinder) Walk(root string) ([]string, error) {
	fsys := os.DirFS(root)
	roots := make(map[string]bool)
	for _, glob := range m.globs {
		matches, err := doublestar.Glob(fsys, glob, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", glob, err)
		}
		for _, f := range matches {
			roots[path.Dir(f)] = true
		}
	}
	return sortedKeys(roots), nil
}

func (m *ModuleFinder) matches(f string) bool {
	for _, glob := range m.globs {
		if ok, _ := doublestar.Match(glob, f); ok {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
