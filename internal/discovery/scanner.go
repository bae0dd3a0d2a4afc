package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoTestDir is returned when the test directory is missing or is a file.
var ErrNoTestDir = errors.New("test directory not found")

// DefaultTestFilePattern selects Go test sources at any depth.
const DefaultTestFilePattern = "**/*_test.go"

// Scanner scans for test files in a directory
type Scanner struct {
	skipDirs map[string]bool
	pattern  string
}

// NewScanner creates a Scanner that prunes the given directory names and keeps
// files whose path relative to the scan root matches pattern.
func NewScanner(skipDirs []string, pattern string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	if pattern == "" {
		pattern = DefaultTestFilePattern
	}
	return &Scanner{skipDirs: skipMap, pattern: pattern}
}

// Scan finds all test files under root. Returned paths include root and are
// sorted.
func (s *Scanner) Scan(root string) ([]string, error) {
	var testfiles []string

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoTestDir, root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNoTestDir, root)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if path != root && s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if matched, _ := doublestar.Match(s.pattern, filepath.ToSlash(rel)); matched {
			testfiles = append(testfiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	sort.Strings(testfiles)
	return testfiles, nil
}
