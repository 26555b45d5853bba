package runner

import (
	"bufio"
	"bytes"
	"io"
	"os/exec"
	"strings"
	"time"

	"gtr/internal/domain"
	"gtr/internal/gotest"
)

// pumpState tracks per-run bookkeeping while translating the worker's
// event stream into progress messages.
type pumpState struct {
	msgs     chan<- domain.Message
	selected map[string]bool
	total    int
	index    int
	outputs  map[string]*strings.Builder
	done     map[string]bool
	pkgLog   strings.Builder // all package-level output, for error reporting
}

// pump translates the worker's JSON event stream into progress messages.
// The channel pair belongs to this run alone; pump never reads the runner
// fields, so a later Start cannot race with it. After the worker exits it
// closes exited, then msgs, in that order, so the monitor can finish its
// drain.
func (r *Runner) pump(cmd *exec.Cmd, stdout io.ReadCloser, stderr *bytes.Buffer, selected map[string]bool, msgs chan domain.Message, exited chan struct{}) {
	state := &pumpState{
		msgs:     msgs,
		selected: selected,
		total:    len(selected),
		outputs:  make(map[string]*strings.Builder),
		done:     make(map[string]bool),
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		event, err := gotest.ParseEvent(scanner.Bytes())
		if err != nil {
			// Toolchain noise on stdout is not an event.
			continue
		}
		state.handleEvent(event)
	}

	err := cmd.Wait()
	if state.index == 0 && err != nil && !killed(cmd) {
		// The worker died before reaching any selected test, e.g. a
		// build failure. Surface its diagnostics as one error message.
		diagnostics := stderr.String()
		if diagnostics == "" {
			diagnostics = state.pkgLog.String()
		}
		msgs <- domain.Message{
			Timestamp: time.Now().UTC(),
			Reason:    domain.ReasonError,
			Stderr:    diagnostics,
		}
	}

	close(exited)
	close(msgs)
}

// handleEvent emits at most one running and one completed message per
// selected test. Tests matched by the run regex but not selected, and
// subtests, produce no messages of their own; subtest output folds into
// the parent's captured output.
func (state *pumpState) handleEvent(event gotest.Event) {
	id := domain.Test{Package: event.Package, Name: event.TopLevel()}.ID()

	switch {
	case event.Action == gotest.ActionRun && event.Test != "" && event.Test == event.TopLevel():
		if !state.selected[id] || state.outputs[id] != nil || state.done[id] {
			return
		}
		state.index++
		state.outputs[id] = &strings.Builder{}
		state.msgs <- domain.Message{
			Timestamp:    eventTime(event),
			Reason:       domain.ReasonRunning,
			TestName:     id,
			CurrentIndex: state.index,
			TotalTests:   state.total,
		}

	case event.Action == gotest.ActionOutput || event.Action == gotest.ActionBuildOutput:
		if event.Test == "" {
			state.pkgLog.WriteString(event.Output)
			if line := strings.TrimSpace(event.Output); isPackageLog(line) {
				state.msgs <- domain.Message{
					Timestamp: eventTime(event),
					Reason:    domain.ReasonLog,
					Stdout:    event.Output,
				}
			}
			return
		}
		if buf := state.outputs[id]; buf != nil {
			buf.WriteString(event.Output)
		}

	case event.Terminal() && event.Test != "" && event.Test == event.TopLevel():
		buf := state.outputs[id]
		if buf == nil || state.done[id] {
			return
		}
		delete(state.outputs, id)
		state.done[id] = true
		state.msgs <- domain.Message{
			Timestamp: eventTime(event),
			Reason:    domain.ReasonCompleted,
			TestName:  id,
			Outcome:   event.Outcome(),
			Duration:  time.Duration(event.Elapsed * float64(time.Second)),
			Stdout:    buf.String(),
		}
	}
}

// isPackageLog filters package-level output down to lines worth surfacing
// as log messages; per-package status lines are dropped.
func isPackageLog(line string) bool {
	if line == "" || line == "PASS" || line == "FAIL" {
		return false
	}
	for _, prefix := range []string{"ok ", "ok\t", "FAIL ", "FAIL\t", "--- ", "=== "} {
		if strings.HasPrefix(line, prefix) {
			return false
		}
	}
	return true
}

// killed reports whether the worker was terminated by a signal, i.e. a
// forcible Stop rather than a failure of its own.
func killed(cmd *exec.Cmd) bool {
	return cmd.ProcessState != nil && cmd.ProcessState.ExitCode() == -1
}

func eventTime(event gotest.Event) time.Time {
	if event.Time.IsZero() {
		return time.Now().UTC()
	}
	return event.Time
}
