package ui

import (
	"fmt"

	"github.com/fatih/color"

	"gtr/internal/config"
	"gtr/internal/discovery"
	"gtr/internal/domain"
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
}

// NewFormatter creates a new Formatter
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{config: cfg}
}

// PrintTestList displays discovered tests grouped by package. With
// casesOnly, it prints one identifier per line instead.
func (f *Formatter) PrintTestList(tests []string, casesOnly bool) error {
	if casesOnly {
		for _, id := range tests {
			fmt.Println(id)
		}
		return nil
	}

	groups := discovery.GroupByPackage(tests)
	for _, group := range groups {
		color.Cyan("%s (%d)", group.Package, len(group.Tests))
		for _, test := range group.Tests {
			fmt.Printf("  %s\n", test.Name)
		}
	}

	fmt.Println()
	color.White("%d tests in %d packages", len(tests), len(groups))
	return nil
}

// PrintMetaStats displays the statistics of a test run
func (f *Formatter) PrintMetaStats(output *domain.RunOutput) error {
	meta := output.Meta

	// Print header
	fmt.Print("\n")
	color.Cyan("╔═══════════════════════════════════════════════════════════════╗")
	color.Cyan("║                    Test Execution Statistics                  ║")
	color.Cyan("╚═══════════════════════════════════════════════════════════════╝\n")

	// Print table
	fmt.Println("┌─────────────────────────────────┬─────────────────────────────┐")

	fmt.Printf("│ %-31s │ ", "Total Tests")
	color.White("%-27d │\n", meta.TotalTests)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Passed")
	color.Green("%-27d │\n", meta.PassedTests)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Failed")
	color.Red("%-27d │\n", meta.FailedTests)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Skipped")
	color.Yellow("%-27d │\n", meta.SkippedTests)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Duration")
	durationStr := fmt.Sprintf("%.2fs", meta.DurationSeconds)
	color.White("%-27s │\n", durationStr)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Timestamp")
	color.White("%-27s │\n", meta.Timestamp)

	fmt.Println("└─────────────────────────────────┴─────────────────────────────┘")

	// Print summary line
	fmt.Println()
	switch {
	case meta.Cancelled:
		color.Yellow("✗ Run was cancelled after %d of %d tests", meta.PassedTests+meta.FailedTests+meta.SkippedTests, meta.TotalTests)
	case meta.FailedTests == 0:
		color.Green("✓ All tests passed!")
	default:
		color.Red("✗ %d test(s) failed", meta.FailedTests)
		fmt.Println()
		f.printFailures(output.Details)
	}

	return nil
}

// printFailures prints failed tests grouped by package
func (f *Formatter) printFailures(failures []domain.TestFailure) {
	byPackage := make(map[string][]domain.TestFailure)
	var order []string
	for _, failure := range failures {
		if _, seen := byPackage[failure.Package]; !seen {
			order = append(order, failure.Package)
		}
		byPackage[failure.Package] = append(byPackage[failure.Package], failure)
	}

	for _, pkg := range order {
		color.Cyan("%s", pkg)
		for _, failure := range byPackage[pkg] {
			color.Red("  ✗ %s (%.2fs)", failure.TestName, failure.DurationSeconds)
		}
	}
	fmt.Println()
	color.White("Run 'gtr results' to inspect failures interactively")
}
