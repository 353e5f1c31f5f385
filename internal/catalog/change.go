package catalog

import "slices"

// NeedsUpdate reports whether the live validity strings differ from the
// stored ones. Order is ignored; the comparison is plain string equality, so
// a retailer re-using identical text for a new catalog goes unnoticed.
func NeedsUpdate(live, stored []string) bool {
	if len(live) != len(stored) {
		return true
	}
	a := slices.Clone(live)
	b := slices.Clone(stored)
	slices.Sort(a)
	slices.Sort(b)
	return !slices.Equal(a, b)
}
