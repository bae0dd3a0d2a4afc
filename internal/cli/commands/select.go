package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"testmap/internal/ui"
)

// SelectCommand handles the select command
type SelectCommand struct {
	app *App
}

// NewSelectCommand creates a new SelectCommand
func NewSelectCommand(app *App) *SelectCommand {
	return &SelectCommand{app: app}
}

// Execute prints the regex for the change set on stdout. With --explain the
// intermediate steps go to stderr so stdout stays usable in `go test -run`.
func (sc *SelectCommand) Execute(cmd *cobra.Command, args []string) error {
	plan, err := sc.app.plan(args)
	if err != nil {
		return err
	}

	if sc.app.Config.Flags.Explain {
		ui.NewFormatter(sc.app.Stderr).PrintPlan(plan)
	}
	fmt.Fprintln(sc.app.Stdout, plan.Regex)
	return nil
}
