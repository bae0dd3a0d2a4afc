package parser

import "testmap/internal/domain"

// Parser parses test results and extracts failures
type Parser interface {
	ParseTestCounts(result domain.TestResult) (passed, failed int)
	ParseFailure(result domain.TestResult) []domain.TestFailure
}
