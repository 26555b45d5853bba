package discovery

import (
	"fmt"
	"os"
	"regexp"
	"sort"
)

// Parser extracts test function names from Go test files without invoking
// the toolchain. Used where a subprocess round-trip is not worth it, e.g.
// reporting how many tests a warmed package carries.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// A test function is a top-level func named Test* taking *testing.T.
var testFuncPattern = regexp.MustCompile(`(?m)^func (Test\w+)\(\w+ \*testing\.T\)`)

// FindTestFuncs finds all test function names in a test file.
func (p *Parser) FindTestFuncs(filePath string) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}

	seen := make(map[string]bool)
	for _, match := range testFuncPattern.FindAllStringSubmatch(string(content), -1) {
		if len(match) > 1 {
			seen[match[1]] = true
		}
	}

	testFuncs := make([]string, 0, len(seen))
	for name := range seen {
		testFuncs = append(testFuncs, name)
	}
	sort.Strings(testFuncs)

	return testFuncs, nil
}
