package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"testmap/internal/discovery"
	"testmap/internal/ui"
)

// ErrSkipEnvSet is returned when a checked file sets a stage skip variable.
var ErrSkipEnvSet = errors.New("skip environment check failed")

// SkipEnvCommand handles the check-skip-env command
type SkipEnvCommand struct {
	app     *App
	checker *discovery.SkipEnvChecker
}

// NewSkipEnvCommand creates a new SkipEnvCommand
func NewSkipEnvCommand(app *App) *SkipEnvCommand {
	return &SkipEnvCommand{app: app, checker: discovery.NewSkipEnvChecker()}
}

// Execute checks the given Go files, or every test file under the test dir
// when none are given, for uncommented os.Setenv("SKIP_...") calls.
func (sc *SkipEnvCommand) Execute(cmd *cobra.Command, args []string) error {
	logger := sc.app.Logger

	files := args
	if len(files) == 0 {
		cfg := sc.app.Config
		scanned, err := discovery.NewScanner(cfg.SkipDirs, cfg.TestFilePattern).Scan(cfg.GetTestPath())
		if err != nil {
			return err
		}
		files = scanned
	}

	var found []discovery.SkipEnvCall
	for _, f := range files {
		logger.Debug("Checking file", zap.String("file", f))
		calls, err := sc.checker.Check(f)
		if err != nil {
			return err
		}
		for _, call := range calls {
			call.File = sc.app.relative(call.File)
			found = append(found, call)
		}
	}

	ui.NewFormatter(sc.app.Stdout).PrintSkipEnvReport(len(files), found)
	if len(found) > 0 {
		logger.Error("Found os.Setenv calls setting stage skip variables", zap.Int("calls", len(found)))
		return fmt.Errorf("%w: %d call(s)", ErrSkipEnvSet, len(found))
	}
	return nil
}
