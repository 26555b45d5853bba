package commands

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"gtr/internal/config"
	"gtr/internal/discovery"
	"gtr/internal/domain"
	"gtr/internal/runner"
	"gtr/internal/storage"
	"gtr/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	filter    *discovery.Filter
	storage   storage.Storage
	formatter *ui.Formatter
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	filter *discovery.Filter,
	st storage.Storage,
	formatter *ui.Formatter,
) *RunCommand {
	return &RunCommand{
		config:    cfg,
		filter:    filter,
		storage:   st,
		formatter: formatter,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	var (
		mu        sync.Mutex
		bar       *ui.ProgressBar
		completed int
		passed    int
		failed    int
		cancelled bool
		results   []domain.TestResult
	)

	callback := func(message domain.Message) {
		mu.Lock()
		defer mu.Unlock()
		switch message.Reason {
		case domain.ReasonCompleted:
			test, ok := domain.ParseID(message.TestName)
			if !ok {
				return
			}
			results = append(results, domain.TestResult{
				Test:     test,
				Outcome:  message.Outcome,
				Duration: message.Duration,
				Output:   message.Stdout,
			})
			completed++
			switch message.Outcome {
			case domain.OutcomePassed:
				passed++
			case domain.OutcomeFailed:
				failed++
			}
			if bar != nil {
				bar.Update(completed, passed, failed)
			}
		case domain.ReasonCancelled:
			cancelled = true
		case domain.ReasonError:
			fmt.Fprintln(os.Stderr)
			color.Red("worker error:")
			fmt.Fprintln(os.Stderr, message.Stderr)
		}
	}

	r := runner.New(rc.config, callback)

	// Pick the tests to run
	tests, err := rc.selectTests(cmd, r)
	if err != nil {
		return err
	}
	if len(tests) == 0 {
		color.Yellow("No tests to execute")
		return nil
	}

	bar = ui.NewProgressBar(len(tests))

	// Ctrl+C forcibly terminates the worker
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		if r.Running() {
			r.Stop()
		}
	}()

	startTime := time.Now()
	if err := r.Start(tests, nil, nil); err != nil {
		return err
	}
	r.Wait()
	bar.Finish()

	mu.Lock()
	runResults := append([]domain.TestResult(nil), results...)
	// The interrupt goroutine may still be delivering the cancelled
	// message; the context tells us either way.
	wasCancelled := cancelled || ctx.Err() != nil
	mu.Unlock()

	if err := rc.storage.Save(runResults, time.Since(startTime), wasCancelled); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}

	output, err := rc.storage.Load()
	if err != nil {
		return err
	}
	return rc.formatter.PrintMetaStats(output)
}

// selectTests returns the identifiers to run: either the failures of the
// last stored run, or a fresh (filtered) discovery.
func (rc *RunCommand) selectTests(cmd *cobra.Command, r *runner.Runner) ([]string, error) {
	if rc.config.Flags.OnlyFailed {
		output, err := rc.storage.Load()
		if err != nil {
			return nil, fmt.Errorf("no stored run to take failures from: %w", err)
		}
		var tests []string
		for _, failure := range output.Details {
			tests = append(tests, failure.ID())
		}
		return tests, nil
	}

	tests := r.Discover(cmd.Context(), rc.config.GetTestPath())
	return rc.filter.ByName(tests, rc.config.Flags.NameFilter), nil
}
