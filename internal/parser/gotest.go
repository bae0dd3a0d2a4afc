package parser

import (
	"regexp"
	"strconv"
	"strings"

	"testmap/internal/domain"
)

var (
	runLine    = regexp.MustCompile(`^=== RUN\s+(\S+)`)
	resultLine = regexp.MustCompile(`^(\s*)--- (PASS|FAIL|SKIP): (\S+)`)
	logLine    = regexp.MustCompile(`^\s+([\w./-]+\.go):(\d+): ?(.*)$`)
)

// PackageFailureName names the synthetic failure recorded when a package fails
// without any failing test function, e.g. a compile error.
const PackageFailureName = "(package)"

// GoTestParser parses go test -v output
type GoTestParser struct{}

// NewGoTestParser creates a new GoTestParser
func NewGoTestParser() *GoTestParser {
	return &GoTestParser{}
}

// ParseTestCounts counts top-level PASS and FAIL results; subtests are not
// counted. If nothing is recognised, returns (1,0) for success or (0,1) for
// failure (package-level fallback).
func (p *GoTestParser) ParseTestCounts(result domain.TestResult) (passed, failed int) {
	for _, line := range strings.Split(result.Output, "\n") {
		m := resultLine.FindStringSubmatch(line)
		if m == nil || m[1] != "" {
			continue
		}
		switch m[2] {
		case "PASS":
			passed++
		case "FAIL":
			failed++
		}
	}
	if passed > 0 || failed > 0 {
		return passed, failed
	}

	if result.Success {
		return 1, 0
	}
	return 0, 1
}

// ParseFailure extracts one TestFailure per failed test function, subtests
// included. Output between the test's "=== RUN" line and its "--- FAIL" line
// becomes the failure's output; the first file:line log entry supplies File,
// Line and Message.
func (p *GoTestParser) ParseFailure(result domain.TestResult) []domain.TestFailure {
	var failures []domain.TestFailure
	lines := strings.Split(result.Output, "\n")
	started := make(map[string]int)
	// Index of the last RUN or result line. A test whose RUN line was glued
	// onto unterminated output takes its body from here instead.
	boundary := -1

	for i, line := range lines {
		if m := runLine.FindStringSubmatch(line); m != nil {
			started[m[1]] = i
			boundary = i
			continue
		}
		m := resultLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		prev := boundary
		boundary = i
		if m[2] != "FAIL" {
			continue
		}
		name := m[3]
		start, ok := started[name]
		if !ok {
			start = prev
		}
		failures = append(failures, p.parseTestFailureCase(result.Package, name, lines[start+1:i]))
	}

	if len(failures) == 0 && !result.Success {
		failures = append(failures, p.packageFailure(result))
	}
	return failures
}

func (p *GoTestParser) parseTestFailureCase(pkg, name string, body []string) domain.TestFailure {
	failure := domain.TestFailure{
		TestName: name,
		Package:  pkg,
		Output:   []string{},
	}

	var messageLines []string
	inFirst := false
	for _, line := range body {
		if strings.HasPrefix(line, "=== ") || resultLine.MatchString(line) {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		failure.Output = append(failure.Output, line)

		if m := logLine.FindStringSubmatch(line); m != nil {
			inFirst = failure.File == ""
			if inFirst {
				failure.File = m[1]
				failure.Line, _ = strconv.Atoi(m[2])
				messageLines = append(messageLines, m[3])
			}
			continue
		}
		// Continuation lines of the first log entry.
		if inFirst {
			messageLines = append(messageLines, strings.TrimSpace(line))
		}
	}

	failure.Message = strings.TrimSpace(strings.Join(messageLines, "\n"))
	return failure
}

func (p *GoTestParser) packageFailure(result domain.TestResult) domain.TestFailure {
	failure := domain.TestFailure{
		TestName: PackageFailureName,
		Package:  result.Package,
		Output:   []string{},
	}
	for _, line := range strings.Split(result.Output, "\n") {
		if strings.TrimSpace(line) != "" {
			failure.Output = append(failure.Output, line)
		}
	}
	switch {
	case result.Error != nil && len(failure.Output) == 0:
		failure.Message = result.Error.Error()
	case len(failure.Output) > 0:
		failure.Message = strings.TrimSpace(failure.Output[0])
	}
	return failure
}
