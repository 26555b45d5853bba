package discovery

import (
	"sort"

	"gtr/internal/domain"
)

// Group maps a package import path to its tests, in discovery order.
type Group struct {
	Package string
	Tests   []domain.Test
}

// GroupByPackage groups test identifiers by package, sorted by package
// path. Identifiers that do not name an individually runnable test are
// dropped.
func GroupByPackage(ids []string) []Group {
	byPackage := make(map[string][]domain.Test)
	for _, id := range ids {
		test, ok := domain.ParseID(id)
		if !ok {
			continue
		}
		byPackage[test.Package] = append(byPackage[test.Package], test)
	}

	groups := make([]Group, 0, len(byPackage))
	for pkg, tests := range byPackage {
		groups = append(groups, Group{Package: pkg, Tests: tests})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Package < groups[j].Package
	})

	return groups
}
