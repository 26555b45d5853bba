package commands

import (
	"gtr/internal/cli"
	"gtr/internal/config"
	"gtr/internal/discovery"
	"gtr/internal/prep"
	"gtr/internal/storage"
	"gtr/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Tui     *TuiCommand
	Run     *RunCommand
	List    *ListCommand
	Results *ResultsCommand
	Warm    *WarmCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	// Initialize dependencies
	scanner := discovery.NewScanner(cfg.PathsToIgnore)
	filter := discovery.NewFilter()
	parser := discovery.NewParser()
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg)
	warmer := prep.NewBuildWarmer(cfg, scanner, parser)
	resultsViewer := ui.NewResultsViewer(cfg, jsonStorage)

	return &Commands{
		Tui:     NewTuiCommand(cfg, jsonStorage),
		Run:     NewRunCommand(cfg, filter, jsonStorage, formatter),
		List:    NewListCommand(cfg, filter, formatter),
		Results: NewResultsCommand(cfg, jsonStorage, resultsViewer),
		Warm:    NewWarmCommand(cfg, warmer),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Shared setup: config file, env file, then flag overrides
	applyConfig := func(cmd *cobra.Command, args []string) error {
		if err := cfg.LoadFile(""); err != nil {
			return err
		}
		if err := cfg.LoadEnvFile(flags.EnvFile); err != nil {
			return err
		}
		return cfg.ApplyFlags(flags.ToConfigFlags())
	}

	// Tui command
	tuiCmd := &cobra.Command{
		Use:     "tui",
		Short:   "Select and run tests interactively",
		Long:    "Discover tests, pick them in a checkable tree and watch per-test results stream into a table",
		RunE:    c.Tui.Execute,
		PreRunE: applyConfig,
	}
	tuiCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test discovery should start")
	tuiCmd.Flags().StringVar(&flags.EnvFile, "env-file", "", "Dotenv file with environment overrides for the worker process")
	tuiCmd.Flags().StringArrayVarP(&flags.Env, "env", "e", nil, "Environment override for the worker process (KEY=VALUE, repeatable)")
	tuiCmd.Flags().StringArrayVar(&flags.ExtraArgs, "test-arg", nil, "Extra argument passed through to go test (repeatable)")
	rootCmd.AddCommand(tuiCmd)

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run discovered tests non-interactively",
		Long:    "Discover and execute tests with a progress bar, then print run statistics",
		RunE:    c.Run.Execute,
		PreRunE: applyConfig,
	}
	runCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test discovery should start")
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g. 'TestUser*' or '*Payment*')")
	runCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Run only tests that failed in the last run")
	runCmd.Flags().StringVar(&flags.EnvFile, "env-file", "", "Dotenv file with environment overrides for the worker process")
	runCmd.Flags().StringArrayVarP(&flags.Env, "env", "e", nil, "Environment override for the worker process (KEY=VALUE, repeatable)")
	runCmd.Flags().StringArrayVar(&flags.ExtraArgs, "test-arg", nil, "Extra argument passed through to go test (repeatable)")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List discovered tests",
		Long:    "Discover and list all tests without executing them",
		RunE:    c.List.Execute,
		PreRunE: applyConfig,
	}
	listCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test discovery should start")
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g. 'TestUser*' or '*Payment*')")
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "Print one test identifier per line instead of grouping by package")
	rootCmd.AddCommand(listCmd)

	// Results command
	resultsCmd := &cobra.Command{
		Use:     "results",
		Short:   "View failures of the last run interactively",
		Long:    "Display test failures from the last run in an interactive viewer",
		RunE:    c.Results.Execute,
		PreRunE: applyConfig,
	}
	rootCmd.AddCommand(resultsCmd)

	// Warm command
	warmCmd := &cobra.Command{
		Use:     "warm",
		Short:   "Pre-build test binaries in parallel",
		Long:    "Compile the test binaries of all packages so the first run does not pay the build cost",
		RunE:    c.Warm.Execute,
		PreRunE: applyConfig,
	}
	warmCmd.Flags().IntVarP(&flags.Workers, "workers", "w", 4, "Number of parallel build workers")
	warmCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test discovery should start")
	rootCmd.AddCommand(warmCmd)
}
