package domain

import "strings"

// Separator joins a package import path and a test function name into a
// test identifier, e.g. "gtr/internal/runner::TestStart".
const Separator = "::"

// Test represents a single runnable test case.
type Test struct {
	Package string // Import path of the package containing the test
	Name    string // Test function name
}

// ID returns the test identifier.
func (t Test) ID() string {
	return t.Package + Separator + t.Name
}

// ParseID splits an identifier of the form <package>::<TestName>.
// The second return value is false if the string does not name an
// individually runnable test.
func ParseID(id string) (Test, bool) {
	pkg, name, ok := strings.Cut(id, Separator)
	if !ok || pkg == "" || name == "" {
		return Test{}, false
	}
	return Test{Package: pkg, Name: name}, true
}
