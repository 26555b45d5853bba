package domain

import "time"

// Reason tags a progress message with the lifecycle event it describes.
type Reason string

const (
	// ReasonRunning is emitted before a test starts executing.
	ReasonRunning Reason = "running"
	// ReasonCompleted is emitted after a test finished, carrying its outcome.
	ReasonCompleted Reason = "completed"
	// ReasonCancelled is the terminal message of a forcibly stopped run.
	ReasonCancelled Reason = "cancelled"
	// ReasonError reports a worker-level failure (e.g. a build error).
	ReasonError Reason = "error"
	// ReasonLog carries output not attributable to a single test.
	ReasonLog Reason = "log"
)

// Outcome values carried by completed messages.
const (
	OutcomePassed  = "passed"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// Message describes one lifecycle event of a test run. Only the fields
// relevant to the given Reason are populated.
type Message struct {
	Timestamp    time.Time
	Reason       Reason
	TestName     string // Test identifier (running, completed)
	CurrentIndex int    // 1-based position in the run (running)
	TotalTests   int    // Number of selected tests (running)
	Outcome      string // passed, failed or skipped (completed)
	Duration     time.Duration
	Stdout       string
	Stderr       string
}
