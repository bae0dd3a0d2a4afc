package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"testmap/internal/audit"
	"testmap/internal/ui"
)

// ViewCommand handles the view command
type ViewCommand struct {
	app *App
}

// NewViewCommand creates a new ViewCommand
func NewViewCommand(app *App) *ViewCommand {
	return &ViewCommand{app: app}
}

// Execute opens the failures of the last run, or with --audit the findings of
// the last audit, in the interactive viewer.
func (vc *ViewCommand) Execute(cmd *cobra.Command, args []string) error {
	st := vc.app.storage()

	if vc.app.Config.Flags.Audit {
		last, err := st.LoadAudit()
		if err != nil {
			return fmt.Errorf("no audit report found, run audit first: %w", err)
		}
		report := audit.Report{
			FilesWithoutTests:         last.FilesWithoutTests,
			TestFunctionsWithoutFiles: last.TestFunctionsWithoutFiles,
			ModuleFiles:               last.ModuleFiles,
			TestFiles:                 last.TestFiles,
			TestFunctions:             last.TestFunctions,
		}
		return ui.NewAuditViewer(report, nil).View()
	}

	last, err := st.LoadRun()
	if err != nil {
		return fmt.Errorf("no test results found, run tests first: %w", err)
	}
	return ui.NewFailureViewer(last, st).View()
}
