package execution

import (
	"context"
	"time"

	"testmap/internal/domain"
)

// Executor executes test packages and returns results
type Executor interface {
	Execute(ctx context.Context, packages []string, failFast bool) ([]domain.TestResult, time.Duration, error)
}

// TestRunner runs the selected tests of a single package
type TestRunner interface {
	Run(ctx context.Context, pkg string, workerID int) domain.TestResult
}

// CountParser extracts passed and failed test case counts from a result
type CountParser interface {
	ParseTestCounts(result domain.TestResult) (passed, failed int)
}

// Progress receives per-package progress while tests run
type Progress interface {
	Update(completed, passed, failed int)
	Finish()
}
