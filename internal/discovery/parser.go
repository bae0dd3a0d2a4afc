package discovery

import (
	"fmt"
	"os"
	"regexp"
	"sort"
)

// testFuncPattern is a lexical match for a top level Go test function. It does
// not parse the file, so a declaration inside a comment or string is counted.
var testFuncPattern = regexp.MustCompile(`\bfunc\s+(Test\w+)\s*\(`)

// Parser extracts test function names from Go test sources.
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// FindTestFunctions reads filePath and returns the distinct test function
// names it declares, sorted.
func (p *Parser) FindTestFunctions(filePath string) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}
	return p.ExtractTestFunctions(string(content)), nil
}

// ExtractTestFunctions returns the distinct test function names in source,
// sorted.
func (p *Parser) ExtractTestFunctions(source string) []string {
	seen := make(map[string]bool)
	for _, match := range testFuncPattern.FindAllStringSubmatch(source, -1) {
		seen[match[1]] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Index builds an Index from the given test files. Keys in the index use the
// paths exactly as supplied.
func (p *Parser) Index(files []string) (*Index, error) {
	return p.IndexAs(files, nil)
}

// IndexAs builds an Index from the given test files, keying each file by
// key(path). A nil key keeps paths as supplied.
func (p *Parser) IndexAs(files []string, key func(string) string) (*Index, error) {
	idx := newIndex()
	for _, f := range files {
		names, err := p.FindTestFunctions(f)
		if err != nil {
			return nil, err
		}
		if key != nil {
			idx.add(key(f), names)
		} else {
			idx.add(f, names)
		}
	}
	return idx, nil
}
