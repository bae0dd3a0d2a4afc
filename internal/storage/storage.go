package storage

import (
	"context"

	"testmap/internal/config"
	"testmap/internal/domain"
)

// Storage persists and loads run results and audit reports (e.g. for the viewer).
type Storage interface {
	SaveRun(run Run) error
	LoadRun() (*domain.RunOutput, error)
	// SaveRunOutput writes the full output (e.g. after marking failures resolved).
	SaveRunOutput(output *domain.RunOutput) error
	SaveAudit(output domain.AuditOutput) error
	LoadAudit() (*domain.AuditOutput, error)
}

// History appends finished runs and audits to a long-lived store.
type History interface {
	RecordRun(ctx context.Context, meta domain.RunMeta) error
	RecordAudit(ctx context.Context, output domain.AuditOutput) error
	Close() error
}

// JSONStorage stores documents as JSON files under the configured output dir.
type JSONStorage struct {
	runPath   string
	auditPath string
}

// NewJSONStorage returns a Storage that reads/writes the config's output paths.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{
		runPath:   cfg.GetOutputPath(cfg.RunResultsFile),
		auditPath: cfg.GetOutputPath(cfg.AuditReportFile),
	}
}

// RunPath returns the run results file path.
func (s *JSONStorage) RunPath() string { return s.runPath }

// AuditPath returns the audit report file path.
func (s *JSONStorage) AuditPath() string { return s.auditPath }
