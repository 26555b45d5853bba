package prep

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"gtr/internal/config"
	"gtr/internal/discovery"
)

// BuildWarmer compiles the test binaries of every package with tests so
// the first selected test of an interactive session does not pay the
// build cost.
type BuildWarmer struct {
	config  *config.Config
	scanner *discovery.Scanner
	parser  *discovery.Parser
}

// NewBuildWarmer creates a new BuildWarmer
func NewBuildWarmer(cfg *config.Config, scanner *discovery.Scanner, parser *discovery.Parser) *BuildWarmer {
	return &BuildWarmer{
		config:  cfg,
		scanner: scanner,
		parser:  parser,
	}
}

// warmResult is the outcome of warming one package.
type warmResult struct {
	Package  string
	Tests    int
	Success  bool
	Output   string
	Duration time.Duration
}

// Run compiles test binaries in parallel for all packages under the test path.
func (bw *BuildWarmer) Run(workerCount int) error {
	color.Cyan("\n╔════════════════════════════════════════════════════════════╗")
	color.Cyan("║                Warming Test Build Cache                    ║")
	color.Cyan("╚════════════════════════════════════════════════════════════╝\n")

	root := bw.config.GetTestPath()
	packages, err := bw.scanner.ScanPackages(root)
	if err != nil {
		return fmt.Errorf("failed to scan packages: %w", err)
	}
	if len(packages) == 0 {
		color.Yellow("No packages with tests found")
		return nil
	}
	if workerCount <= 0 {
		workerCount = 1
	}

	color.White("Packages: %d | Workers: %d\n\n", len(packages), workerCount)

	bar := progressbar.NewOptions(len(packages),
		progressbar.OptionSetDescription(color.CyanString("Warming packages")),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	queue := make(chan string, len(packages))
	for _, pkg := range packages {
		queue <- pkg
	}
	close(queue)

	results := make(chan warmResult, len(packages))
	startTime := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pkgDir := range queue {
				result := bw.warmPackage(root, pkgDir)
				results <- result
				bar.Add(1)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var failed []warmResult
	warmedTests := 0
	for result := range results {
		if result.Success {
			warmedTests += result.Tests
		} else {
			failed = append(failed, result)
		}
	}
	bar.Finish()

	duration := time.Since(startTime)

	fmt.Print("\n")
	if len(failed) == 0 {
		color.Green("✓ Warmed %d packages (%d tests) in %s", len(packages), warmedTests, duration.Round(time.Millisecond))
		return nil
	}

	color.Red("✗ %d of %d packages failed to build:", len(failed), len(packages))
	for _, result := range failed {
		color.Red("  %s", result.Package)
		if result.Output != "" {
			fmt.Println(indent(result.Output, "    "))
		}
	}
	return fmt.Errorf("%d packages failed to build", len(failed))
}

// warmPackage builds and runs zero tests of one package, which leaves its
// compiled test binary in the build cache.
func (bw *BuildWarmer) warmPackage(root, pkgDir string) warmResult {
	result := warmResult{Package: pkgDir}

	rel, err := filepath.Rel(root, pkgDir)
	if err != nil {
		rel = pkgDir
	}
	pkgArg := "./" + filepath.ToSlash(rel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, bw.config.GoBinary, "test", "-run", "^$", "-count=1", pkgArg)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), bw.config.EnvPairs()...)
	output, err := cmd.CombinedOutput()

	result.Duration = time.Since(start)
	result.Success = err == nil
	result.Output = string(output)
	result.Tests = bw.countTests(pkgDir)

	return result
}

// countTests counts test functions in a package directory without
// spawning another toolchain process.
func (bw *BuildWarmer) countTests(pkgDir string) int {
	entries, err := os.ReadDir(pkgDir)
	if err != nil {
		return 0
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}
		testFuncs, err := bw.parser.FindTestFuncs(filepath.Join(pkgDir, entry.Name()))
		if err != nil {
			continue
		}
		count += len(testFuncs)
	}
	return count
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
