package helpers

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spektr-org/pivotgrid/engine"
)

// ============================================================================
// TEXT — Human-readable grid for terminals
// ============================================================================

// WriteText writes the grid as tab-aligned columns. Subtotal lines are
// prefixed with "▸" and indented by level.
func WriteText(w io.Writer, res *engine.Result) error {
	if res == nil || !res.Success || res.Plan == nil {
		return ErrNoResult
	}
	cols := ExportColumns(res.Plan)
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	if res.Plan.Pivoted {
		top := make([]string, len(cols))
		for i, c := range cols {
			top[i] = c.Group
		}
		fmt.Fprintln(tw, strings.Join(top, "\t"))
	}
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, line := range Lines(res) {
		cells := make([]string, len(cols))
		for i, c := range cols {
			v := line.Cells[c.Column.Key()]
			switch {
			case v != nil:
				cells[i] = plainText(v)
			case isValueColumn(c.Column):
				cells[i] = res.NullText
			}
		}
		if line.Subtotal && len(cells) > 0 {
			cells[0] = strings.Repeat("  ", line.Level) + "▸ " + cells[0]
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
