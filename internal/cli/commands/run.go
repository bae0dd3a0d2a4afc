package commands

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"testmap/internal/discovery"
	"testmap/internal/domain"
	"testmap/internal/execution"
	"testmap/internal/parser"
	"testmap/internal/selection"
	"testmap/internal/storage"
	"testmap/internal/ui"
)

// ErrTestsFailed is returned when at least one package failed.
var ErrTestsFailed = errors.New("tests failed")

// RunCommand handles the run command
type RunCommand struct {
	app    *App
	filter *discovery.Filter
	parser *parser.GoTestParser
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(app *App) *RunCommand {
	return &RunCommand{
		app:    app,
		filter: discovery.NewFilter(),
		parser: parser.NewGoTestParser(),
	}
}

// Execute selects tests, runs the matching packages and saves the results
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := rc.app.Config
	logger := rc.app.Logger
	st := rc.app.storage()

	regex, err := rc.regex(st, args)
	if err != nil {
		return err
	}
	if regex == selection.MatchNothing {
		color.New(color.FgYellow).Fprintln(rc.app.Stdout, "No tests to execute")
		return nil
	}

	packages, err := rc.packages(regex)
	if err != nil {
		return err
	}
	if len(packages) == 0 {
		color.New(color.FgYellow).Fprintf(rc.app.Stdout, "No test packages match %s\n", regex)
		return nil
	}
	logger.Info("Running packages", zap.String("regex", regex), zap.Strings("packages", packages))

	runner := execution.NewRunner(cfg, regex, logger)
	pool := execution.NewWorkerPool(cfg.Processors, runner, execution.NewRoundRobinScheduler(), rc.parser)
	pool.SetProgress(ui.NewProgressBar(len(packages), ui.RunLabels))

	results, duration, err := pool.Execute(cmd.Context(), packages, cfg.Flags.FailFast)
	if err != nil {
		return err
	}

	run := storage.Run{
		Regex:    regex,
		Results:  results,
		Duration: duration,
		Workers:  cfg.Processors,
		Stopped:  cfg.Flags.FailFast && len(results) < len(packages),
		At:       time.Now(),
	}
	for _, result := range results {
		p, f := rc.parser.ParseTestCounts(result)
		run.Passed += p
		run.Failed += f
		if !result.Success {
			run.Failures = append(run.Failures, rc.parser.ParseFailure(result)...)
		}
	}

	output := run.Output()
	if err := st.SaveRunOutput(output); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}
	if h := rc.app.history(cmd.Context()); h != nil {
		if err := h.RecordRun(cmd.Context(), output.Meta); err != nil {
			logger.Warn("Recording run history", zap.Error(err))
		}
		closeHistory(h, logger)
	}

	ui.NewFormatter(rc.app.Stdout).PrintRunStats(output)

	if output.Meta.FailedPackages == 0 {
		return nil
	}
	if cfg.Flags.Interactive {
		if err := ui.NewFailureViewer(output, st).View(); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: %d of %d package(s)", ErrTestsFailed, output.Meta.FailedPackages, output.Meta.TotalPackages)
}

// regex picks the selection: the failures of the last run with --failed,
// otherwise the plan for the change set.
func (rc *RunCommand) regex(st storage.Storage, args []string) (string, error) {
	if rc.app.Config.Flags.OnlyFailed {
		last, err := st.LoadRun()
		if err != nil {
			return "", fmt.Errorf("no previous run to take failures from: %w", err)
		}
		return selection.BuildRegex(selection.FailedPrefixes(last.Details)), nil
	}

	plan, err := rc.app.plan(args)
	if err != nil {
		return "", err
	}
	if rc.app.Config.Flags.Explain {
		ui.NewFormatter(rc.app.Stderr).PrintPlan(plan)
	}
	return plan.Regex, nil
}

// packages returns the test package directories that declare at least one
// function matched by regex, after the --filter name filter.
func (rc *RunCommand) packages(regex string) ([]string, error) {
	re, err := regexp.Compile(regex)
	if err != nil {
		return nil, fmt.Errorf("compile selection regex %q: %w", regex, err)
	}

	idx, err := rc.app.testIndex()
	if err != nil {
		return nil, err
	}
	files := rc.filter.FilterByName(idx.Files(), rc.app.Config.Flags.NameFilter)

	var selected []string
	for _, f := range files {
		if anyMatch(re, idx.Functions(f)) {
			selected = append(selected, f)
		}
	}
	return execution.PackageDirs(execution.GroupByPackage(selected)), nil
}

func anyMatch(re *regexp.Regexp, names []string) bool {
	for _, name := range names {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// failuresByName is the set of unresolved failed test names.
func failuresByName(failures []domain.TestFailure) map[string]bool {
	set := make(map[string]bool, len(failures))
	for _, failure := range failures {
		if !failure.Resolved {
			set[failure.TestName] = true
		}
	}
	return set
}
