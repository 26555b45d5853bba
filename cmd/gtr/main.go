package main

import (
	"fmt"
	"os"

	"gtr/internal/cli"
	"gtr/internal/cli/commands"
	"gtr/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:     "gtr",
		Short:   "Interactive go test runner",
		Long:    `A front-end for go test. Discover the tests of a project, select them in an interactive tree and execute them in an isolated worker process with per-test progress.`,
		Version: version,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
