package gotest

import (
	"bytes"
	"strings"

	"gtr/internal/domain"
)

// ParseList extracts test identifiers from go test -list output. The list
// output prints the test names of each package followed by a summary line
// naming the package ("ok  <pkg>  0.01s"); names accumulated since the last
// summary belong to that package. Packages without test files ("?" lines)
// and packages that failed to build ("FAIL" lines) contribute nothing.
func ParseList(out []byte) []string {
	var ids []string
	var pending []string

	for _, raw := range bytes.Split(out, []byte("\n")) {
		line := strings.TrimSpace(string(raw))
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "ok "):
			pkg := summaryPackage(line)
			for _, name := range pending {
				if pkg != "" {
					ids = append(ids, domain.Test{Package: pkg, Name: name}.ID())
				}
			}
			pending = pending[:0]
		case strings.HasPrefix(line, "FAIL"), strings.HasPrefix(line, "?"):
			pending = pending[:0]
		case isTestName(line):
			pending = append(pending, line)
		}
	}

	return ids
}

// summaryPackage extracts the package import path from an "ok <pkg> <time>"
// summary line.
func summaryPackage(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// isTestName reports whether a list output line is a test function name
// rather than toolchain noise.
func isTestName(line string) bool {
	if !strings.HasPrefix(line, "Test") {
		return false
	}
	// A test name is a single identifier; summary and diagnostic lines
	// contain spaces.
	return !strings.ContainsAny(line, " \t")
}
