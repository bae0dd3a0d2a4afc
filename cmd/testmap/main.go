package main

import (
	"fmt"
	"os"

	"testmap/internal/cli"
	"testmap/internal/cli/commands"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "testmap",
		Short:         "Convention-based Go test selection and coverage audit",
		Long:          `Maps changed files to the Go tests that exercise them by naming convention, runs only those tests, and audits that every file and every test is accounted for.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var flags cli.Flags
	app := &commands.App{Stdout: os.Stdout, Stderr: os.Stderr}
	cmds := commands.NewCommands(app)
	cmds.Register(rootCmd, &flags)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
