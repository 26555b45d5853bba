package discovery

import (
	"path/filepath"
	"strings"

	"gtr/internal/domain"
)

// Filter filters test identifiers by name pattern.
type Filter struct{}

// NewFilter creates a new Filter.
func NewFilter() *Filter {
	return &Filter{}
}

// ByName filters test identifiers by test name pattern using wildcard
// matching. Supports patterns like "TestUser*" or "*Payment*"; a pattern
// without wildcards matches as a substring.
func (f *Filter) ByName(tests []string, pattern string) []string {
	if pattern == "" {
		return tests
	}

	var filtered []string

	for _, id := range tests {
		test, ok := domain.ParseID(id)
		if !ok {
			continue
		}
		name := test.Name

		// filepath.Match supports * and ? wildcards
		matched, err := filepath.Match(pattern, name)
		if err == nil && matched {
			filtered = append(filtered, id)
			continue
		}

		// For patterns like "*Payment*" fall back to matching every
		// non-empty segment between wildcards as a substring.
		if strings.Contains(pattern, "*") {
			if matchSegments(name, pattern) {
				filtered = append(filtered, id)
			}
			continue
		}

		// No wildcards: plain substring match.
		if !strings.Contains(pattern, "?") && strings.Contains(name, pattern) {
			filtered = append(filtered, id)
		}
	}

	return filtered
}

// matchSegments reports whether every non-empty segment of a wildcard
// pattern occurs in the name. At least one segment must be non-empty.
func matchSegments(name, pattern string) bool {
	segments := strings.Split(pattern, "*")
	hasSegment := false
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		hasSegment = true
		if !strings.Contains(name, segment) {
			return false
		}
	}
	return hasSegment
}
