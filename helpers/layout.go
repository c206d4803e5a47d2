package helpers

import (
	"slices"

	"github.com/spektr-org/pivotgrid/engine"
)

// ============================================================================
// LAYOUT — Result → ordered export lines
// ============================================================================
// Grouped results interleave subtotal lines with their rows: every group line
// is followed by its subgroups, and the deepest groups by their data rows.
// Row-number columns are not exported.
// ============================================================================

// Line is one exported row.
type Line struct {
	Cells    engine.FlatRow
	Subtotal bool
	Level    int
}

// ExportColumn is one exported leaf column with its group header, if any.
type ExportColumn struct {
	Column engine.Column
	Group  string
	Header string
}

// ExportColumns flattens the plan into exportable leaf columns.
func ExportColumns(plan *engine.Plan) []ExportColumn {
	var out []ExportColumn
	for _, c := range plan.Columns {
		switch col := c.(type) {
		case engine.RowNumberColumn:
		case engine.PivotColumn:
			for _, child := range col.Children {
				out = append(out, ExportColumn{Column: child, Group: col.Header, Header: child.Header})
			}
		default:
			out = append(out, ExportColumn{Column: col, Header: col.Def().HeaderName})
		}
	}
	return out
}

// Lines orders the result rows for export.
func Lines(res *engine.Result) []Line {
	groups := res.Plan.GroupFields()
	if res.Subtotals == nil || len(groups) == 0 {
		lines := make([]Line, 0, len(res.Rows))
		for _, r := range res.Rows {
			lines = append(lines, Line{Cells: r})
		}
		return lines
	}

	deepest := len(groups) - 1
	var lines []Line
	for _, g := range res.Subtotals.Groups {
		cells := make(engine.FlatRow, len(g.Values)+1)
		for k, v := range g.Values {
			cells[k] = v
		}
		label := g.Path[len(g.Path)-1]
		cells[g.Field] = &engine.DisplayValue{Text: label, Raw: label}
		lines = append(lines, Line{Cells: cells, Subtotal: true, Level: g.Level})

		if g.Level != deepest {
			continue
		}
		for _, r := range res.Rows {
			if slices.Equal(rowPath(r, groups), g.Path) {
				lines = append(lines, Line{Cells: r, Level: g.Level + 1})
			}
		}
	}
	return lines
}

func rowPath(r engine.FlatRow, groups []string) []string {
	path := make([]string, len(groups))
	for i, g := range groups {
		if v := r[g]; v != nil {
			path[i] = v.Text
		}
	}
	return path
}
