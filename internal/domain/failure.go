package domain

// TestFailure represents a failed test case from a run.
type TestFailure struct {
	TestName        string  `json:"test_name"`
	Package         string  `json:"package"`
	Outcome         string  `json:"outcome"`
	DurationSeconds float64 `json:"duration_seconds"`
	Output          string  `json:"output"`
	Resolved        bool    `json:"resolved,omitempty"` // Track if failure is marked as resolved
}

// ID returns the identifier of the failed test.
func (f TestFailure) ID() string {
	return Test{Package: f.Package, Name: f.TestName}.ID()
}
