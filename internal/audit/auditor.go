// Package audit cross-checks repository files against discovered test
// functions: every inspected file must select at least one test function and
// every test function must be selected by at least one inspected file.
package audit

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"time"

	"go.uber.org/zap"

	"testmap/internal/domain"
	"testmap/internal/mapping"
	"testmap/internal/resolver"
	"testmap/internal/selection"
)

// ErrAuditFailed is returned by Report.Err when the report has findings.
var ErrAuditFailed = errors.New("test mapping audit failed")

// Universe is everything the audit looks at.
type Universe struct {
	// Files is the full repository inventory before the ignore policy runs.
	Files []string
	// Modules are the module roots files are resolved against.
	Modules []string
	// TestFunctions are the discovered test function names.
	TestFunctions []string
}

// Report lists the discrepancies found by an audit.
type Report struct {
	FilesWithoutTests         []string `json:"files_without_tests"`
	TestFunctionsWithoutFiles []string `json:"test_functions_without_files"`
	ModuleFiles               int      `json:"module_files"`
	TestFiles                 int      `json:"test_files"`
	TestFunctions             int      `json:"test_functions"`
}

// Passed reports whether both lists are empty.
func (r Report) Passed() bool {
	return len(r.FilesWithoutTests) == 0 && len(r.TestFunctionsWithoutFiles) == 0
}

// Err returns nil for a passing report and an error wrapping ErrAuditFailed
// otherwise.
func (r Report) Err() error {
	if r.Passed() {
		return nil
	}
	return fmt.Errorf("%w: %d file(s) without tests, %d test function(s) without files",
		ErrAuditFailed, len(r.FilesWithoutTests), len(r.TestFunctionsWithoutFiles))
}

// Output converts the report into its persisted form.
func (r Report) Output(at time.Time) domain.AuditOutput {
	return domain.AuditOutput{
		Timestamp:                 at.Format(time.RFC3339),
		Passed:                    r.Passed(),
		ModuleFiles:               r.ModuleFiles,
		TestFiles:                 r.TestFiles,
		TestFunctions:             r.TestFunctions,
		FilesWithoutTests:         nonNil(r.FilesWithoutTests),
		TestFunctionsWithoutFiles: nonNil(r.TestFunctionsWithoutFiles),
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// Progress receives per-file progress while the audit runs.
type Progress interface {
	Update(completed, covered, uncovered int)
	Finish()
}

// Auditor runs the coverage audit.
type Auditor struct {
	policy   Policy
	mapper   *mapping.Mapper
	testDir  string
	mode     resolver.MatchMode
	logger   *zap.Logger
	progress Progress
}

// NewAuditor creates an Auditor.
func NewAuditor(policy Policy, mapper *mapping.Mapper, testDir string, mode resolver.MatchMode, logger *zap.Logger) *Auditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditor{
		policy:  policy,
		mapper:  mapper,
		testDir: testDir,
		mode:    mode,
		logger:  logger,
	}
}

// SetProgress sets the progress reporter used by the next Audit.
func (a *Auditor) SetProgress(p Progress) {
	a.progress = p
}

// Inspected applies the ignore policy and partitions the result.
func (a *Auditor) Inspected(files []string) (moduleFiles, testFiles []string) {
	return Partition(a.policy.Filter(dedupe(files)), a.testDir)
}

// Audit maps every inspected file to the test functions it selects and
// reports both kinds of orphans. All findings are collected; the audit never
// stops at the first one. Only an unusable selection regex (a broken override
// value) is returned as an error.
func (a *Auditor) Audit(u Universe) (Report, error) {
	moduleFiles, testFiles := a.Inspected(u.Files)
	funcs := distinct(u.TestFunctions)
	res := resolver.New(u.Modules, a.mode)

	a.logger.Debug("Files identified for inspection",
		zap.Strings("module_files", moduleFiles),
		zap.Strings("test_files", testFiles))
	a.logger.Debug("Test functions identified for inspection", zap.Strings("test_functions", funcs))

	m := &matcher{funcs: funcs, cache: make(map[string][]string)}
	claimed := make(map[string]bool, len(funcs))
	var uncovered []string
	completed, covered := 0, 0

	record := func(file string, matched []string) {
		completed++
		if len(matched) == 0 {
			uncovered = append(uncovered, file)
		} else {
			covered++
			for _, fn := range matched {
				claimed[fn] = true
			}
		}
		if a.progress != nil {
			a.progress.Update(completed, covered, len(uncovered))
		}
	}

	for _, f := range moduleFiles {
		root, ok := res.Resolve(path.Dir(f))
		if !ok {
			a.logger.Debug("File has no enclosing module", zap.String("file", f))
			record(f, nil)
			continue
		}
		matched, err := m.match(a.mapper.PrefixesForModule(path.Base(root)))
		if err != nil {
			return Report{}, fmt.Errorf("module file %s: %w", f, err)
		}
		record(f, matched)
	}

	for _, f := range testFiles {
		matched, err := m.match(a.mapper.PrefixesForTestFile(path.Base(f)))
		if err != nil {
			return Report{}, fmt.Errorf("test file %s: %w", f, err)
		}
		record(f, matched)
	}

	if a.progress != nil {
		a.progress.Finish()
	}

	var orphans []string
	for _, fn := range funcs {
		if !claimed[fn] {
			orphans = append(orphans, fn)
		}
	}

	sort.Strings(uncovered)
	report := Report{
		FilesWithoutTests:         uncovered,
		TestFunctionsWithoutFiles: orphans,
		ModuleFiles:               len(moduleFiles),
		TestFiles:                 len(testFiles),
		TestFunctions:             len(funcs),
	}
	a.logger.Info("Audit complete",
		zap.Bool("passed", report.Passed()),
		zap.Int("files_without_tests", len(report.FilesWithoutTests)),
		zap.Int("test_functions_without_files", len(report.TestFunctionsWithoutFiles)))
	return report, nil
}

// matcher memoizes regex matches over the function universe, keyed by regex.
type matcher struct {
	funcs []string
	cache map[string][]string
}

func (m *matcher) match(prefixes mapping.PrefixSet) ([]string, error) {
	expr := selection.BuildRegex(prefixes)
	if hit, ok := m.cache[expr]; ok {
		return hit, nil
	}
	matched, err := selection.MatchFunctions(expr, m.funcs)
	if err != nil {
		return nil, err
	}
	m.cache[expr] = matched
	return matched, nil
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = resolver.Normalize(item)
		if item == "" || item == "." || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}

func distinct(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
