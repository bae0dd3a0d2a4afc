package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"testmap/internal/cli"
	"testmap/internal/config"
	"testmap/internal/logging"
)

// Commands holds all CLI commands
type Commands struct {
	app    *App
	Select *SelectCommand
	Run    *RunCommand
	Audit  *AuditCommand
	List   *ListCommand
	View   *ViewCommand
	Skip   *SkipEnvCommand
}

// NewCommands creates all commands sharing app
func NewCommands(app *App) *Commands {
	return &Commands{
		app:    app,
		Select: NewSelectCommand(app),
		Run:    NewRunCommand(app),
		Audit:  NewAuditCommand(app),
		List:   NewListCommand(app),
		View:   NewViewCommand(app),
		Skip:   NewSkipEnvCommand(app),
	}
}

// Register registers all commands with cobra. Configuration and the logger are
// built once flags are parsed, before any command runs.
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags) {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flags.ToConfigFlags())
		if err != nil {
			return err
		}
		logger, err := logging.New(flags.Verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		c.app.Config = cfg
		c.app.Logger = logger
		return nil
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if c.app.Logger != nil {
			_ = c.app.Logger.Sync()
		}
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "Path to the config file (default <project>/"+config.DefaultConfigFile+")")
	pf.StringVar(&flags.ProjectPath, "project-path", "", "Repository root (default current directory)")
	pf.StringVarP(&flags.TestDir, "test-dir", "t", "", "Directory holding the Go tests, relative to the project path")
	pf.StringVar(&flags.MatchMode, "match-mode", "", "How paths are matched to module roots: prefix or segment")
	pf.StringVar(&flags.HistoryDSN, "history-dsn", "", "MySQL DSN to append run and audit history to")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")

	addSelectionFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&flags.SourceRef, "source-ref", "", "Revision the change set is computed against (default "+config.DefaultSourceRef+")")
		cmd.Flags().StringVar(&flags.HeadRef, "head-ref", "", "Revision holding the changes (default "+config.DefaultHeadRef+")")
		cmd.Flags().BoolVar(&flags.IncludeUncommitted, "include-uncommitted", false, "Also treat staged and unstaged changes as changed")
		cmd.Flags().BoolVar(&flags.Explain, "explain", false, "Print changed files, modules and prefixes to stderr")
	}

	// Select command
	selectCmd := &cobra.Command{
		Use:   "select [changed-file...]",
		Short: "Print the go test -run regex for the current changes",
		Long:  "Map changed files to modules and test prefixes and print a regex for go test -run. Changed files default to the git diff against the source ref.",
		RunE:  c.Select.Execute,
	}
	addSelectionFlags(selectCmd)
	rootCmd.AddCommand(selectCmd)

	// Run command
	runCmd := &cobra.Command{
		Use:   "run [changed-file...]",
		Short: "Run the selected Go tests in parallel",
		Long:  "Select tests for the current changes and execute the matching test packages using parallel workers",
		RunE:  c.Run.Execute,
	}
	addSelectionFlags(runCmd)
	runCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, fmt.Sprintf("Number of packages to run at once (default %d)", config.DefaultProcessors))
	runCmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, fmt.Sprintf("go test -timeout per package (default %s)", config.DefaultTimeout))
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter test files by name pattern (supports wildcards, e.g., '*vpc*_test.go')")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop on first failing package")
	runCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Run only tests that failed in the last run")
	runCmd.Flags().BoolVarP(&flags.Interactive, "interactive", "i", false, "Open the failure viewer when the run has failures")
	rootCmd.AddCommand(runCmd)

	// Audit command
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Check that every file maps to a test and every test to a file",
		Long:  "Audit the repository at the head revision: report files that select no test function and test functions no file selects",
		Args:  cobra.NoArgs,
		RunE:  c.Audit.Execute,
	}
	auditCmd.Flags().StringVar(&flags.HeadRef, "head-ref", "", "Revision to audit (default "+config.DefaultHeadRef+")")
	auditCmd.Flags().BoolVarP(&flags.Interactive, "interactive", "i", false, "Browse findings in the interactive viewer")
	rootCmd.AddCommand(auditCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered tests or modules",
		Long:  "Scan and list Go test files, their test functions, or module roots without executing anything",
		Args:  cobra.NoArgs,
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter by name pattern (supports wildcards, e.g., '*vpc*' or 'alb')")
	listCmd.Flags().BoolVarP(&flags.TestFunctions, "test-functions", "c", false, "Show test functions under each file")
	listCmd.Flags().BoolVarP(&flags.Modules, "modules", "m", false, "List module roots and their test prefixes")
	rootCmd.AddCommand(listCmd)

	// View command
	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "View the last run's failures interactively",
		Long:  "Display test failures from the last run, or findings from the last audit, in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  c.View.Execute,
	}
	viewCmd.Flags().BoolVar(&flags.Audit, "audit", false, "Show the last audit report instead")
	rootCmd.AddCommand(viewCmd)

	// Check skip env command
	skipEnvCmd := &cobra.Command{
		Use:   "check-skip-env [file...]",
		Short: "Fail when test files set stage skip variables",
		Long:  "Parse Go test files and fail on uncommented os.Setenv(\"SKIP_...\") calls, including those inside t.Run function literals and range loops. Files default to every test file under the test dir.",
		RunE:  c.Skip.Execute,
	}
	rootCmd.AddCommand(skipEnvCmd)
}
