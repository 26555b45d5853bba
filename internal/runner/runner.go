// Package runner executes go test in isolated worker processes and streams
// per-test progress messages to a callback through a background monitor.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"sync"
	"time"

	"gtr/internal/config"
	"gtr/internal/domain"
	"gtr/internal/gotest"
)

// ErrAlreadyRunning is returned by Start while an execution is in flight.
var ErrAlreadyRunning = errors.New("tests are already running")

const (
	discoverTimeout = 30 * time.Second
	pollInterval    = 500 * time.Millisecond
	messageBuffer   = 64
)

// Callback receives progress messages. It is invoked from the monitor
// goroutine, concurrently with the caller's own context.
type Callback func(domain.Message)

// Runner drives go test worker processes. At most one execution is in
// flight at a time; the worker process and its monitor goroutine are the
// only shared state, guarded by a liveness check before starting a new run.
type Runner struct {
	cfg      *config.Config
	dir      string
	callback Callback

	mu          sync.Mutex
	cmd         *exec.Cmd
	exited      chan struct{} // closed when the worker process has exited
	monitorDone chan struct{} // closed when the monitor goroutine returns
}

// New creates a Runner rooted at the config's test path.
func New(cfg *config.Config, callback Callback) *Runner {
	return &Runner{
		cfg:      cfg,
		dir:      cfg.GetTestPath(),
		callback: callback,
	}
}

// Discover returns the identifiers of individually runnable tests under
// dir, delegating collection to a go test -list worker process. A path
// that is not a valid directory yields an empty result, not an error.
func (r *Runner) Discover(ctx context.Context, dir string) []string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, discoverTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.cfg.GoBinary, "test", "./...", "-list", "^Test")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), r.cfg.EnvPairs()...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = io.Discard

	// A non-zero exit (e.g. one package failing to build) still leaves
	// usable list output for the packages that compiled.
	_ = cmd.Run()

	return gotest.ParseList(out.Bytes())
}

// Start runs the given test identifiers in a single worker process. Env
// overrides are injected into the worker environment and extraArgs are
// passed through to go test. Returns ErrAlreadyRunning if a previous run
// has not finished.
func (r *Runner) Start(tests []string, env map[string]string, extraArgs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd != nil && r.alive() {
		return ErrAlreadyRunning
	}

	selected := make(map[string]bool, len(tests))
	var names []string
	seenNames := make(map[string]bool)
	pkgSet := make(map[string]bool)
	for _, id := range tests {
		test, ok := domain.ParseID(id)
		if !ok {
			return fmt.Errorf("invalid test identifier %q", id)
		}
		selected[id] = true
		if !seenNames[test.Name] {
			seenNames[test.Name] = true
			names = append(names, regexp.QuoteMeta(test.Name))
		}
		pkgSet[test.Package] = true
	}
	if len(selected) == 0 {
		return errors.New("no tests to run")
	}

	pkgs := make([]string, 0, len(pkgSet))
	for pkg := range pkgSet {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	// -p 1 serializes packages so current_index increases in run order;
	// -count=1 forces execution instead of replaying cached results.
	args := []string{"test", "-json", "-count=1", "-p", "1", "-run", runPattern(names)}
	args = append(args, r.cfg.ExtraArgs...)
	args = append(args, extraArgs...)
	args = append(args, pkgs...)

	cmd := exec.Command(r.cfg.GoBinary, args...)
	cmd.Dir = r.dir
	cmd.Env = append(os.Environ(), r.cfg.EnvPairs()...)
	for key, value := range env {
		cmd.Env = append(cmd.Env, key+"="+value)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("worker stdout pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}

	// Each run gets its own channel pair and monitor handle. The previous
	// run's pump and monitor, if still winding down, only ever touch their
	// own channels, so reassigning the fields here is safe.
	msgs := make(chan domain.Message, messageBuffer)
	exited := make(chan struct{})
	monitorDone := make(chan struct{})

	r.cmd = cmd
	r.exited = exited
	r.monitorDone = monitorDone

	go r.pump(cmd, stdout, &stderr, selected, msgs, exited)
	go r.monitor(msgs, exited, monitorDone)

	return nil
}

// Stop forcibly terminates the worker process, waits for the monitor to
// drain, and emits a terminal cancelled message. The cancelled message is
// always emitted, even if nothing was running.
func (r *Runner) Stop() {
	r.mu.Lock()
	cmd := r.cmd
	alive := cmd != nil && r.alive()
	monitorDone := r.monitorDone
	r.mu.Unlock()

	if alive {
		_ = cmd.Process.Kill()
	}
	if monitorDone != nil {
		<-monitorDone
	}

	r.callback(domain.Message{Timestamp: time.Now().UTC(), Reason: domain.ReasonCancelled})
}

// Running reports whether an execution is in flight.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmd != nil && r.alive()
}

// Wait blocks until the current run's monitor has delivered all messages.
// Returns immediately if no run was started.
func (r *Runner) Wait() {
	r.mu.Lock()
	monitorDone := r.monitorDone
	r.mu.Unlock()
	if monitorDone != nil {
		<-monitorDone
	}
}

// alive reports whether the worker process has not yet exited. Callers
// hold r.mu.
func (r *Runner) alive() bool {
	select {
	case <-r.exited:
		return false
	default:
		return true
	}
}

// runPattern anchors the selected test names so go test runs exactly the
// named top-level functions.
func runPattern(quotedNames []string) string {
	pattern := "^("
	for i, name := range quotedNames {
		if i > 0 {
			pattern += "|"
		}
		pattern += name
	}
	return pattern + ")$"
}
