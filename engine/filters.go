package engine

import (
	"strings"

	"github.com/spektr-org/pivotgrid/schema"
)

// ============================================================================
// FILTERS — Dimension-based row filtering before an update pass
// ============================================================================
// Single-pass filter: checks ALL dimension constraints per row in one loop.
// Dimensions are AND-combined; values within a dimension are OR-combined and
// compared case-insensitively against the cell's display text.
// ============================================================================

// Filters maps a dimension name to its allowed values.
type Filters map[string][]string

// IsEmpty reports whether no dimension is restricted.
func (f Filters) IsEmpty() bool {
	for _, allowed := range f {
		if len(allowed) > 0 {
			return false
		}
	}
	return true
}

// ApplyFilters returns the rows matching all dimension filters. Empty filter
// = no restriction (returns the input).
func ApplyFilters(rows []schema.Row, filters Filters) []schema.Row {
	if filters.IsEmpty() {
		return rows
	}

	// Pre-build lowercase lookup sets for each dimension filter
	sets := make(map[string]map[string]bool)
	for dim, allowed := range filters {
		if len(allowed) > 0 {
			sets[dim] = toLowerSet(allowed)
		}
	}

	out := make([]schema.Row, 0, len(rows))
	for _, row := range rows {
		pass := true
		for dim, set := range sets {
			cell, ok := row.Cell(dim, "")
			if !ok || !set[strings.ToLower(cellText(cell))] {
				pass = false
				break
			}
		}
		if pass {
			out = append(out, row)
		}
	}
	return out
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
