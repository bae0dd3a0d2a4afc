package commands

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"testmap/internal/audit"
	"testmap/internal/resolver"
	"testmap/internal/ui"
)

// AuditCommand handles the audit command
type AuditCommand struct {
	app *App
}

// NewAuditCommand creates a new AuditCommand
func NewAuditCommand(app *App) *AuditCommand {
	return &AuditCommand{app: app}
}

// Execute audits the repository inventory at the head revision. The command
// fails when any file lacks tests or any test lacks a file.
func (ac *AuditCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := ac.app.Config
	logger := ac.app.Logger

	repo, err := ac.app.openRepo()
	if err != nil {
		return err
	}
	files, err := repo.Universe(cfg.HeadRef)
	if err != nil {
		return err
	}
	modules, err := ac.app.moduleRoots(repo, nil)
	if err != nil {
		return err
	}
	idx, err := ac.app.testIndex()
	if err != nil {
		return err
	}

	mapper := ac.app.mapper()
	policy := audit.NewPolicy(cfg.IgnorePrefixes, cfg.IgnoreSuffixes)
	auditor := audit.NewAuditor(policy, mapper, cfg.TestDir, cfg.MatchMode, logger)
	moduleFiles, inspectedTests := auditor.Inspected(files)
	auditor.SetProgress(ui.NewProgressBar(len(moduleFiles)+len(inspectedTests), ui.AuditLabels))

	report, err := auditor.Audit(audit.Universe{Files: files, Modules: modules, TestFunctions: idx.Names()})
	if err != nil {
		return err
	}

	output := report.Output(time.Now())
	if err := ac.app.storage().SaveAudit(output); err != nil {
		return fmt.Errorf("failed to save audit report: %w", err)
	}
	if h := ac.app.history(cmd.Context()); h != nil {
		if err := h.RecordAudit(cmd.Context(), output); err != nil {
			logger.Warn("Recording audit history", zap.Error(err))
		}
		closeHistory(h, logger)
	}

	ui.NewFormatter(ac.app.Stdout).PrintAuditReport(report)

	if cfg.Flags.Interactive && !report.Passed() {
		res := resolver.New(modules, cfg.MatchMode)
		explain := func(kind, name string) string {
			if kind == ui.FindingFunction {
				return "Declared in:\n  " + strings.Join(idx.FilesFor(name), "\n  ") + "\n"
			}
			if resolver.Within(name, cfg.TestDir) {
				return fmt.Sprintf("Test file prefixes: %s\n",
					strings.Join(mapper.PrefixesForTestFile(path.Base(name)).Sorted(), ", "))
			}
			root, ok := res.Resolve(path.Dir(name))
			if !ok {
				return "Not inside any module root\n"
			}
			return fmt.Sprintf("Module: %s\nPrefixes: %s\n", root,
				strings.Join(mapper.PrefixesForModule(path.Base(root)).Sorted(), ", "))
		}
		if err := ui.NewAuditViewer(report, explain).View(); err != nil {
			return err
		}
	}
	return report.Err()
}
