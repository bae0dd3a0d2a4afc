package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"testmap/internal/audit"
	"testmap/internal/discovery"
	"testmap/internal/domain"
	"testmap/internal/selection"
)

// Formatter formats and displays output
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{out: out}
}

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	white  = color.New(color.FgWhite)
)

// PrintPlan prints every step of a selection: what changed, which modules and
// test files it touched, and the prefixes behind the regex.
func (f *Formatter) PrintPlan(plan selection.Plan) {
	f.section("Changed files", plan.ChangedFiles)
	f.section("Updated modules", plan.UpdatedModules)
	f.section("Changed test files", plan.ChangedTestFiles)
	f.section("Test prefixes", plan.Prefixes)

	switch {
	case plan.RunsEverything():
		yellow.Fprintln(f.out, "A wildcard entry selects the whole suite")
	case plan.RunsNothing():
		yellow.Fprintln(f.out, "No tests selected")
	}
	cyan.Fprint(f.out, "Regex: ")
	fmt.Fprintln(f.out, plan.Regex)
}

func (f *Formatter) section(title string, items []string) {
	cyan.Fprintf(f.out, "%s (%d):\n", title, len(items))
	if len(items) == 0 {
		fmt.Fprintln(f.out, "  (none)")
		return
	}
	for _, item := range items {
		fmt.Fprintf(f.out, "  %s\n", item)
	}
}

// PrintAuditReport prints audit totals followed by a tree of files without
// tests and the list of test functions without files.
func (f *Formatter) PrintAuditReport(report audit.Report) {
	f.header("Test Mapping Audit")
	f.table([][2]string{
		{"Module Files", fmt.Sprint(report.ModuleFiles)},
		{"Test Files", fmt.Sprint(report.TestFiles)},
		{"Test Functions", fmt.Sprint(report.TestFunctions)},
		{"Files Without Tests", fmt.Sprint(len(report.FilesWithoutTests))},
		{"Test Functions Without Files", fmt.Sprint(len(report.TestFunctionsWithoutFiles))},
	})
	fmt.Fprintln(f.out)

	if report.Passed() {
		green.Fprintln(f.out, "✓ Every file maps to a test and every test maps to a file")
		return
	}

	if len(report.FilesWithoutTests) > 0 {
		red.Fprintf(f.out, "✗ %d file(s) without tests:\n", len(report.FilesWithoutTests))
		PrintTree(f.out, BuildTree(report.FilesWithoutTests, nil), yellow, red)
		fmt.Fprintln(f.out)
	}
	if len(report.TestFunctionsWithoutFiles) > 0 {
		red.Fprintf(f.out, "✗ %d test function(s) without files:\n", len(report.TestFunctionsWithoutFiles))
		for i, fn := range report.TestFunctionsWithoutFiles {
			connector := "├── "
			if i == len(report.TestFunctionsWithoutFiles)-1 {
				connector = "└── "
			}
			red.Fprintf(f.out, "%s%s\n", connector, fn)
		}
	}
}

// PrintRunStats prints run statistics and, when something failed, a tree of
// failed tests grouped by package.
func (f *Formatter) PrintRunStats(output *domain.RunOutput) {
	meta := output.Meta

	f.header("Test Execution Statistics")
	f.table([][2]string{
		{"Regex", meta.Regex},
		{"Total Packages", fmt.Sprint(meta.TotalPackages)},
		{"Passed Packages", fmt.Sprint(meta.PassedPackages)},
		{"Failed Packages", fmt.Sprint(meta.FailedPackages)},
		{"Passed Test Cases", fmt.Sprint(meta.PassedTestCases)},
		{"Failed Test Cases", fmt.Sprint(meta.FailedTestCases)},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds)},
		{"Workers", fmt.Sprint(meta.Workers)},
		{"Timestamp", meta.Timestamp},
	})
	fmt.Fprintln(f.out)

	if meta.FailedPackages == 0 {
		green.Fprintln(f.out, "✓ All tests passed!")
		return
	}
	red.Fprintf(f.out, "✗ %d package(s) failed with %d test case failure(s)\n", meta.FailedPackages, meta.FailedTestCases)
	if meta.StoppedOnFailure {
		yellow.Fprintln(f.out, "Stopped after the first failing package")
	}
	fmt.Fprintln(f.out)
	f.printFailedTestsTree(output.Details)
}

func (f *Formatter) printFailedTestsTree(failures []domain.TestFailure) {
	if len(failures) == 0 {
		return
	}
	leaves := make(map[string][]string)
	var paths []string
	for _, failure := range failures {
		key := failure.Package
		if failure.File != "" {
			key = strings.TrimSuffix(failure.Package, "/") + "/" + failure.File
		}
		if _, ok := leaves[key]; !ok {
			paths = append(paths, key)
		}
		name := failure.TestName
		if failure.Resolved {
			name += " (resolved)"
		}
		leaves[key] = append(leaves[key], name)
	}
	PrintTree(f.out, BuildTree(paths, leaves), yellow, red)
}

// PrintSkipEnvReport prints the stage skip variables set in the checked files,
// grouped by file.
func (f *Formatter) PrintSkipEnvReport(checked int, calls []discovery.SkipEnvCall) {
	if len(calls) == 0 {
		green.Fprintf(f.out, "✓ No skip variables set in %d file(s)\n", checked)
		return
	}

	leaves := make(map[string][]string)
	var paths []string
	for _, call := range calls {
		if _, ok := leaves[call.File]; !ok {
			paths = append(paths, call.File)
		}
		leaves[call.File] = append(leaves[call.File], fmt.Sprintf("line %d: %s", call.Line, call.Name))
	}
	red.Fprintf(f.out, "✗ %d file(s) set skip variables with os.Setenv:\n", len(paths))
	PrintTree(f.out, BuildTree(paths, leaves), yellow, red)
}

// ModuleEntry is a module root and the test prefixes it selects
type ModuleEntry struct {
	Path     string
	Prefixes []string
}

// PrintModuleList prints module roots with their prefixes
func (f *Formatter) PrintModuleList(modules []ModuleEntry) {
	green.Fprintf(f.out, "Found %d module(s):\n", len(modules))
	for i, m := range modules {
		connector := "├── "
		if i == len(modules)-1 {
			connector = "└── "
		}
		cyan.Fprintf(f.out, "%s%s", connector, m.Path)
		fmt.Fprintf(f.out, " → %s\n", yellow.Sprint(strings.Join(m.Prefixes, ", ")))
	}
}

// PrintTestList prints test files, optionally with their test functions.
// Functions in failed (from the last run) are marked with [F] in red; a file
// is marked when any of its functions failed.
func (f *Formatter) PrintTestList(files []string, functions map[string][]string, showFunctions bool, failed map[string]bool) {
	if showFunctions {
		green.Fprintf(f.out, "Found %d test file(s) with test functions:\n", len(files))
	} else {
		green.Fprintf(f.out, "Found %d test file(s):\n", len(files))
	}

	for i, file := range files {
		isLastFile := i == len(files)-1
		connector, childPrefix := "├── ", "│   "
		if isLastFile {
			connector, childPrefix = "└── ", "    "
		}

		marker := ""
		for _, fn := range functions[file] {
			if failed[fn] {
				marker = " " + red.Sprint("[F]")
				break
			}
		}
		cyan.Fprintf(f.out, "%s%s", connector, file)
		fmt.Fprintln(f.out, marker)

		if !showFunctions {
			continue
		}
		funcs := functions[file]
		if len(funcs) == 0 {
			fmt.Fprintf(f.out, "%s└── %s\n", childPrefix, red.Sprint("(no test functions found)"))
			continue
		}
		for j, fn := range funcs {
			fnConnector := "├── "
			if j == len(funcs)-1 {
				fnConnector = "└── "
			}
			fnMarker := ""
			if failed[fn] {
				fnMarker = " " + red.Sprint("[F]")
			}
			fmt.Fprintf(f.out, "%s%s%s%s\n", childPrefix, fnConnector, yellow.Sprint(fn), fnMarker)
		}
	}
}

func (f *Formatter) header(title string) {
	const width = 63
	pad := width - len([]rune(title))
	left := pad / 2
	fmt.Fprintln(f.out)
	cyan.Fprintln(f.out, "╔"+strings.Repeat("═", width)+"╗")
	cyan.Fprintln(f.out, "║"+strings.Repeat(" ", left)+title+strings.Repeat(" ", pad-left)+"║")
	cyan.Fprintln(f.out, "╚"+strings.Repeat("═", width)+"╝")
}

func (f *Formatter) table(rows [][2]string) {
	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	for i, row := range rows {
		fmt.Fprintf(f.out, "│ %-31s │ ", row[0])
		white.Fprintf(f.out, "%-27s", row[1])
		fmt.Fprintln(f.out, " │")
		if i < len(rows)-1 {
			fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
		}
	}
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")
}
