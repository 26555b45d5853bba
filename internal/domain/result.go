package domain

import "time"

// TestResult is the terminal result of one test case.
type TestResult struct {
	Test     Test          // The test that was executed
	Outcome  string        // passed, failed or skipped
	Duration time.Duration // Time taken to execute
	Output   string        // Captured output
}

// RunMeta contains metadata about a test run.
type RunMeta struct {
	TotalTests      int     `json:"total_tests"`
	PassedTests     int     `json:"passed_tests"`
	FailedTests     int     `json:"failed_tests"`
	SkippedTests    int     `json:"skipped_tests"`
	Cancelled       bool    `json:"cancelled,omitempty"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// RunOutput is the complete stored output of a test run.
type RunOutput struct {
	Meta    RunMeta       `json:"meta"`
	Details []TestFailure `json:"details"`
}
