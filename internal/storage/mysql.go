package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"testmap/internal/domain"
)

// ErrInvalidDSN is returned when the history DSN cannot be used.
var ErrInvalidDSN = errors.New("invalid history dsn")

const (
	runsTable   = "testmap_runs"
	auditsTable = "testmap_audits"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS ` + runsTable + ` (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	recorded_at DATETIME NOT NULL,
	regex TEXT NOT NULL,
	total_packages INT NOT NULL,
	failed_packages INT NOT NULL,
	passed_test_cases INT NOT NULL,
	failed_test_cases INT NOT NULL,
	duration_seconds DOUBLE NOT NULL,
	workers INT NOT NULL,
	stopped_on_failure BOOLEAN NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS ` + auditsTable + ` (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	recorded_at DATETIME NOT NULL,
	passed BOOLEAN NOT NULL,
	module_files INT NOT NULL,
	test_files INT NOT NULL,
	test_functions INT NOT NULL,
	files_without_tests TEXT NOT NULL,
	test_functions_without_files TEXT NOT NULL
)`,
}

// MySQLHistory records runs and audits in MySQL.
type MySQLHistory struct {
	db  *sql.DB
	now func() time.Time
}

// ParseHistoryDSN parses and normalizes a go-sql-driver DSN. The DSN must name
// a database.
func ParseHistoryDSN(dsn string) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDSN, err)
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("%w: no database name", ErrInvalidDSN)
	}
	if !isValidDatabaseName(cfg.DBName) {
		return nil, fmt.Errorf("%w: invalid database name %q", ErrInvalidDSN, cfg.DBName)
	}
	cfg.ParseTime = true
	return cfg, nil
}

// OpenMySQLHistory connects to the server, creates the database and tables
// when they are missing, and returns a ready History.
func OpenMySQLHistory(ctx context.Context, dsn string) (*MySQLHistory, error) {
	cfg, err := ParseHistoryDSN(dsn)
	if err != nil {
		return nil, err
	}

	if err := ensureDatabase(ctx, cfg); err != nil {
		return nil, err
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure history database: %w", err)
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	h := NewMySQLHistory(db)
	if err := h.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

// NewMySQLHistory wraps an open connection. Tables are not created.
func NewMySQLHistory(db *sql.DB) *MySQLHistory {
	return &MySQLHistory{db: db, now: time.Now}
}

// ensureDatabase connects without a schema and creates cfg.DBName if needed.
func ensureDatabase(ctx context.Context, cfg *mysql.Config) error {
	server := cfg.Clone()
	server.DBName = ""
	connector, err := mysql.NewConnector(server)
	if err != nil {
		return fmt.Errorf("failed to configure database server: %w", err)
	}
	db := sql.OpenDB(connector)
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database server: %w", err)
	}

	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	if err := db.QueryRowContext(ctx, query, cfg.DBName).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check database %s: %w", cfg.DBName, err)
	}
	if exists {
		return nil
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", cfg.DBName)); err != nil {
		return fmt.Errorf("failed to create database %s: %w", cfg.DBName, err)
	}
	return nil
}

func (h *MySQLHistory) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := h.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create history tables: %w", err)
		}
	}
	return nil
}

// RecordRun appends one row for a finished run.
func (h *MySQLHistory) RecordRun(ctx context.Context, meta domain.RunMeta) error {
	_, err := h.db.ExecContext(ctx,
		"INSERT INTO "+runsTable+` (recorded_at, regex, total_packages, failed_packages,
	passed_test_cases, failed_test_cases, duration_seconds, workers, stopped_on_failure)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.now().UTC(), meta.Regex, meta.TotalPackages, meta.FailedPackages,
		meta.PassedTestCases, meta.FailedTestCases, meta.DurationSeconds, meta.Workers, meta.StoppedOnFailure)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// RecordAudit appends one row for a finished audit.
func (h *MySQLHistory) RecordAudit(ctx context.Context, output domain.AuditOutput) error {
	_, err := h.db.ExecContext(ctx,
		"INSERT INTO "+auditsTable+` (recorded_at, passed, module_files, test_files, test_functions,
	files_without_tests, test_functions_without_files)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.now().UTC(), output.Passed, output.ModuleFiles, output.TestFiles, output.TestFunctions,
		strings.Join(output.FilesWithoutTests, "\n"), strings.Join(output.TestFunctionsWithoutFiles, "\n"))
	if err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (h *MySQLHistory) Close() error {
	return h.db.Close()
}

// isValidDatabaseName rejects names that cannot be safely interpolated into
// CREATE DATABASE.
func isValidDatabaseName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	for _, r := range name {
		if !(r == '_' || r == '-' || r == '$' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return true
}
