package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"testmap/internal/domain"
)

// Run is everything needed to write a run results document.
type Run struct {
	Regex    string
	Results  []domain.TestResult
	Failures []domain.TestFailure
	Passed   int // passed test cases
	Failed   int // failed test cases
	Duration time.Duration
	Workers  int
	Stopped  bool
	At       time.Time
}

// Output builds the persisted document for r.
func (r Run) Output() *domain.RunOutput {
	passed, failed := 0, 0
	for _, res := range r.Results {
		if res.Success {
			passed++
		} else {
			failed++
		}
	}
	at := r.At
	if at.IsZero() {
		at = time.Now()
	}
	details := r.Failures
	if details == nil {
		details = []domain.TestFailure{}
	}

	return &domain.RunOutput{
		Meta: domain.RunMeta{
			Regex:            r.Regex,
			TotalPackages:    len(r.Results),
			FailedPackages:   failed,
			PassedPackages:   passed,
			PassedTestCases:  r.Passed,
			FailedTestCases:  r.Failed,
			Duration:         r.Duration.String(),
			DurationSeconds:  r.Duration.Seconds(),
			Workers:          r.Workers,
			Timestamp:        at.Format(time.RFC3339),
			StoppedOnFailure: r.Stopped,
		},
		Details: details,
	}
}

// SaveRun writes the run results document.
func (s *JSONStorage) SaveRun(run Run) error {
	return s.SaveRunOutput(run.Output())
}

// LoadRun reads the last run results document.
func (s *JSONStorage) LoadRun() (*domain.RunOutput, error) {
	var output domain.RunOutput
	if err := readJSON(s.runPath, &output); err != nil {
		return nil, err
	}
	return &output, nil
}

// SaveRunOutput writes a full run document as is.
func (s *JSONStorage) SaveRunOutput(output *domain.RunOutput) error {
	return writeJSON(s.runPath, output)
}

// SaveAudit writes the audit report document.
func (s *JSONStorage) SaveAudit(output domain.AuditOutput) error {
	return writeJSON(s.auditPath, output)
}

// LoadAudit reads the last audit report document.
func (s *JSONStorage) LoadAudit() (*domain.AuditOutput, error) {
	var output domain.AuditOutput
	if err := readJSON(s.auditPath, &output); err != nil {
		return nil, err
	}
	return &output, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
