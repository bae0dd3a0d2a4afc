package domain

import "time"

// TestResult represents the result of running go test for a single package
type TestResult struct {
	Package  string        // Package directory that was executed
	Success  bool          // Whether go test exited zero
	Output   string        // Raw output from go test -v
	Error    error         // Error if execution failed
	Duration time.Duration // Time taken to execute
}

// RunMeta contains metadata about a test run
type RunMeta struct {
	Regex            string  `json:"regex"`
	TotalPackages    int     `json:"total_packages"`
	FailedPackages   int     `json:"failed_packages"`
	PassedPackages   int     `json:"passed_packages"`
	PassedTestCases  int     `json:"passed_test_cases"`
	FailedTestCases  int     `json:"failed_test_cases"`
	Duration         string  `json:"duration"`
	DurationSeconds  float64 `json:"duration_seconds"`
	Workers          int     `json:"workers"`
	Timestamp        string  `json:"timestamp"`
	StoppedOnFailure bool    `json:"stopped_on_failure,omitempty"`
}

// RunOutput is the complete output structure for a test run
type RunOutput struct {
	Meta    RunMeta       `json:"meta"`
	Details []TestFailure `json:"details"`
}

// AuditOutput is the persisted form of a coverage audit
type AuditOutput struct {
	Timestamp                 string   `json:"timestamp"`
	Passed                    bool     `json:"passed"`
	ModuleFiles               int      `json:"module_files"`
	TestFiles                 int      `json:"test_files"`
	TestFunctions             int      `json:"test_functions"`
	FilesWithoutTests         []string `json:"files_without_tests"`
	TestFunctionsWithoutFiles []string `json:"test_functions_without_files"`
}
