// Package mapping translates module and test-file names into the test-name
// prefixes that cover them.
//
// A module directory "vpc-app" is covered by tests named TestVpcApp*, and a
// test file "vpc_app_test.go" by TestVpcApp*. Names that do not follow the
// convention are listed in an OverrideTable.
package mapping

import (
	"path"
	"path/filepath"
	"strings"

	"testmap/internal/naming"
)

// TestFuncPrefix is the prefix every Go test function carries.
const TestFuncPrefix = "Test"

// Mapper computes prefixes for modules and test files.
type Mapper struct {
	overrides      OverrideTable
	testFileSuffix string
}

// NewMapper creates a Mapper. testFileSuffix is the marker stripped from test
// file names before conversion, usually "_test.go".
func NewMapper(overrides OverrideTable, testFileSuffix string) *Mapper {
	return &Mapper{
		overrides:      overrides,
		testFileSuffix: testFileSuffix,
	}
}

// PrefixesForModule returns the prefixes for a module directory base name.
func (m *Mapper) PrefixesForModule(moduleBaseName string) PrefixSet {
	if prefixes, ok := m.overrides.Lookup(moduleBaseName); ok {
		return NewPrefixSet(prefixes...)
	}
	return NewPrefixSet(TestFuncPrefix + naming.KebabToCamel(moduleBaseName))
}

// PrefixesForTestFile returns the prefixes for a test file base name.
func (m *Mapper) PrefixesForTestFile(testFileBaseName string) PrefixSet {
	if prefixes, ok := m.overrides.Lookup(testFileBaseName); ok {
		return NewPrefixSet(prefixes...)
	}
	return NewPrefixSet(TestFuncPrefix + naming.SnakeToCamel(m.stripTestSuffix(testFileBaseName)))
}

// ForModules unions the prefixes of every module path, keyed by the path's
// last element.
func (m *Mapper) ForModules(modulePaths []string) PrefixSet {
	out := make(PrefixSet)
	for _, p := range modulePaths {
		out.Union(m.PrefixesForModule(baseName(p)))
	}
	return out
}

// ForTestFiles unions the prefixes of every test file path, keyed by the
// file's base name.
func (m *Mapper) ForTestFiles(testFilePaths []string) PrefixSet {
	out := make(PrefixSet)
	for _, p := range testFilePaths {
		out.Union(m.PrefixesForTestFile(baseName(p)))
	}
	return out
}

func (m *Mapper) stripTestSuffix(name string) string {
	if m.testFileSuffix != "" && strings.HasSuffix(name, m.testFileSuffix) {
		return strings.TrimSuffix(name, m.testFileSuffix)
	}
	return strings.TrimSuffix(name, path.Ext(name))
}

func baseName(p string) string {
	return path.Base(filepath.ToSlash(p))
}
