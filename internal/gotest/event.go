package gotest

import (
	"encoding/json"
	"strings"
	"time"

	"gtr/internal/domain"
)

// Actions emitted by the go test JSON event stream.
const (
	ActionStart  = "start"
	ActionRun    = "run"
	ActionPause  = "pause"
	ActionCont   = "cont"
	ActionPass   = "pass"
	ActionFail   = "fail"
	ActionSkip   = "skip"
	ActionOutput = "output"

	// Newer toolchains report build diagnostics as events of their own.
	ActionBuildOutput = "build-output"
	ActionBuildFail   = "build-fail"
)

// Event represents a single record from the go test -json output stream.
type Event struct {
	Time    time.Time // Time the event occurred
	Action  string    // The action taken (run, pause, cont, pass, fail, skip, output)
	Package string    // The package being tested
	Test    string    // The test function name (empty for package events)
	Output  string    // Output text (only for output events)
	Elapsed float64   // Elapsed time in seconds for terminal actions
}

// ParseEvent decodes one line of go test -json output. Lines that are not
// valid JSON (e.g. build diagnostics) return an error and must be skipped
// or treated as raw output by the caller.
func ParseEvent(line []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(line, &event); err != nil {
		return event, err
	}
	return event, nil
}

// Terminal returns true if the action ends a test.
func (e Event) Terminal() bool {
	return e.Action == ActionPass || e.Action == ActionFail || e.Action == ActionSkip
}

// Outcome maps a terminal action onto an outcome value. Unknown actions
// map to failed.
func (e Event) Outcome() string {
	switch e.Action {
	case ActionPass:
		return domain.OutcomePassed
	case ActionSkip:
		return domain.OutcomeSkipped
	default:
		return domain.OutcomeFailed
	}
}

// TopLevel returns the top-level test function name for an event, folding
// subtests ("TestFoo/case_1") into their parent.
func (e Event) TopLevel() string {
	name, _, _ := strings.Cut(e.Test, "/")
	return name
}
