package commands

import (
	"path"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"testmap/internal/discovery"
	"testmap/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	app    *App
	filter *discovery.Filter
}

// NewListCommand creates a new ListCommand
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app, filter: discovery.NewFilter()}
}

// Execute lists test files (optionally with their functions) or, with
// --modules, module roots and the prefixes each one selects.
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	flags := lc.app.Config.Flags
	formatter := ui.NewFormatter(lc.app.Stdout)

	if flags.Modules {
		return lc.listModules(formatter)
	}

	idx, err := lc.app.testIndex()
	if err != nil {
		return err
	}
	files := lc.filter.FilterByName(idx.Files(), flags.NameFilter)

	// Mark failures from the last run, if there is one.
	var failed map[string]bool
	if last, err := lc.app.storage().LoadRun(); err == nil {
		failed = failuresByName(last.Details)
	} else {
		lc.app.Logger.Debug("No previous run", zap.Error(err))
	}

	formatter.PrintTestList(files, idx.ByFile(), flags.TestFunctions, failed)
	return nil
}

func (lc *ListCommand) listModules(formatter *ui.Formatter) error {
	repo, err := lc.app.openRepo()
	if err != nil {
		lc.app.Logger.Debug("No repository, discovering modules on disk", zap.Error(err))
		repo = nil
	}
	modules, err := lc.app.moduleRoots(repo, nil)
	if err != nil {
		return err
	}
	modules = lc.filter.FilterByName(modules, lc.app.Config.Flags.NameFilter)

	mapper := lc.app.mapper()
	entries := make([]ui.ModuleEntry, len(modules))
	for i, m := range modules {
		entries[i] = ui.ModuleEntry{Path: m, Prefixes: mapper.PrefixesForModule(path.Base(m)).Sorted()}
	}
	formatter.PrintModuleList(entries)
	return nil
}
