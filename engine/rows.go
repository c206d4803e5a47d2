package engine

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/spektr-org/pivotgrid/schema"
)

// ============================================================================
// ROW MATERIALIZER — Host rows → flat rows keyed like the plan
// ============================================================================

// Materialize flattens host rows against the plan. Every data key of the plan
// is present in every output row; missing or empty cells are nil.
func Materialize(rows []schema.Row, plan *Plan) []FlatRow {
	out := make([]FlatRow, 0, len(rows))
	for _, row := range rows {
		flat := make(FlatRow, len(plan.Columns))
		for _, c := range plan.Columns {
			switch col := c.(type) {
			case RowNumberColumn:
			case PivotColumn:
				for _, child := range col.Children {
					flat[child.Key()] = Display(row.Cell(child.Field.Name, child.PivotKey))
				}
			case DimensionColumn:
				flat[col.Key()] = Display(row.Cell(col.Field.Name, ""))
			case MeasureColumn:
				flat[col.Key()] = Display(row.Cell(col.Field.Name, ""))
			case TableCalcColumn:
				flat[col.Key()] = Display(row.Cell(col.Field.Name, ""))
			case PivotChildColumn:
				flat[col.Key()] = Display(row.Cell(col.Field.Name, col.PivotKey))
			}
		}
		out = append(out, flat)
	}
	return out
}

// Display applies the display precedence links > html > rendered/value.
func Display(cell schema.Cell, ok bool) *DisplayValue {
	if !ok || cell.IsEmpty() {
		return nil
	}
	switch {
	case len(cell.Links) > 0:
		return &DisplayValue{Text: cellText(cell), Raw: cell.Value, Kind: DisplayLink, Links: cell.Links}
	case cell.HTML != "":
		html := strings.Replace(cell.HTML, "<a ", `<a class="drillable-link" `, 1)
		return &DisplayValue{Text: html, Raw: cell.Value, Kind: DisplayHTML}
	default:
		return &DisplayValue{Text: cellText(cell), Raw: cell.Value, Kind: DisplayText}
	}
}

func cellText(cell schema.Cell) string {
	if cell.Rendered != nil {
		return *cell.Rendered
	}
	return cast.ToString(cell.Value)
}
