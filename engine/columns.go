package engine

import (
	"strings"

	"github.com/spektr-org/pivotgrid/schema"
)

// ============================================================================
// COLUMN PLANNER — Field metadata → flat or two-level column plan
// ============================================================================
// 1. One column per dimension. All but the last group rows (and are hidden);
//    a single dimension neither groups nor hides.
// 2. Pivots present: one group column per pivot, one child per measure-like
//    field, keyed "<pivotKey>_<field>".
// 3. No pivots: measures, then table calculations, keyed by field name.
// 4. Row numbers, when enabled, go first.
// ============================================================================

// RowNumberKey is the key of the row-index column.
const RowNumberKey = "$$row_number"

const (
	truncateAbove  = 15
	truncateTo     = 12
	rowNumberWidth = 50
)

// DimensionColumn drives grouping or shows a dimension value.
type DimensionColumn struct {
	Field    schema.Field
	Header   string
	RowGroup bool
	Hide     bool
}

func (c DimensionColumn) Key() string { return c.Field.Name }
func (DimensionColumn) Kind() Kind    { return KindDefault }
func (DimensionColumn) isColumn()     {}

func (c DimensionColumn) Def() ColumnDef {
	return ColumnDef{
		Field:      c.Field.Name,
		HeaderName: c.Header,
		ColType:    KindDefault.String(),
		CellClass:  c.Field.Category,
		RowGroup:   c.RowGroup,
		Hide:       c.Hide,
		Sortable:   true,
		Resizable:  true,
	}
}

// MeasureColumn shows an unpivoted measure.
type MeasureColumn struct {
	Field  schema.Field
	Header string
}

func (c MeasureColumn) Key() string { return c.Field.Name }
func (MeasureColumn) Kind() Kind    { return KindMeasure }
func (MeasureColumn) isColumn()     {}

func (c MeasureColumn) Def() ColumnDef {
	return ColumnDef{
		Field:      c.Field.Name,
		HeaderName: c.Header,
		ColType:    KindMeasure.String(),
		CellClass:  "measure",
		Measure:    c.Field.Name,
		Sortable:   true,
		Resizable:  true,
	}
}

// TableCalcColumn shows an unpivoted table calculation.
type TableCalcColumn struct {
	Field  schema.Field
	Header string
}

func (c TableCalcColumn) Key() string { return c.Field.Name }
func (TableCalcColumn) Kind() Kind    { return KindTableCalculation }
func (TableCalcColumn) isColumn()     {}

func (c TableCalcColumn) Def() ColumnDef {
	return ColumnDef{
		Field:      c.Field.Name,
		HeaderName: c.Header,
		ColType:    KindTableCalculation.String(),
		CellClass:  "tableCalc",
		Measure:    c.Field.Name,
		Sortable:   true,
		Resizable:  true,
	}
}

// PivotChildColumn is one measure-like field under a pivot.
type PivotChildColumn struct {
	Field    schema.Field
	PivotKey string
	Header   string
	Class    string
}

func (c PivotChildColumn) Key() string { return PivotFieldKey(c.PivotKey, c.Field.Name) }
func (PivotChildColumn) Kind() Kind    { return KindPivotChild }
func (PivotChildColumn) isColumn()     {}

func (c PivotChildColumn) Def() ColumnDef {
	return ColumnDef{
		Field:           c.Key(),
		HeaderName:      c.Header,
		ColType:         KindPivotChild.String(),
		CellClass:       c.Class,
		Measure:         c.Field.Name,
		PivotKey:        c.PivotKey,
		ColumnGroupShow: "open",
		Sortable:        true,
		Resizable:       true,
	}
}

// PivotColumn groups the children of one pivot key. It holds no data itself.
type PivotColumn struct {
	Pivot    schema.Pivot
	Header   string
	Children []PivotChildColumn
}

func (c PivotColumn) Key() string { return c.Pivot.Key }
func (PivotColumn) Kind() Kind    { return KindPivot }
func (PivotColumn) isColumn()     {}

func (c PivotColumn) Def() ColumnDef {
	def := ColumnDef{
		Field:      c.Pivot.Key,
		HeaderName: c.Header,
		ColType:    KindPivot.String(),
	}
	for _, child := range c.Children {
		def.Children = append(def.Children, child.Def())
	}
	return def
}

// RowNumberColumn shows the 1-based row index.
type RowNumberColumn struct{}

func (RowNumberColumn) Key() string { return RowNumberKey }
func (RowNumberColumn) Kind() Kind  { return KindRowNumber }
func (RowNumberColumn) isColumn()   {}

func (RowNumberColumn) Def() ColumnDef {
	return ColumnDef{
		HeaderName: "",
		ColType:    KindRowNumber.String(),
		CellClass:  "rowNumber",
		Width:      rowNumberWidth,
	}
}

// PivotFieldKey is the flat key of a field under a pivot.
func PivotFieldKey(pivotKey, field string) string {
	return pivotKey + "_" + field
}

// ============================================================================
// PLAN
// ============================================================================

// Plan is the ordered column plan.
type Plan struct {
	Columns []Column
	// LastGroup names the final dimension when rows are grouped; the renderer
	// uses it for the auto group column.
	LastGroup string
	Pivoted   bool
}

// Defs renders the plan for the renderer.
func (p *Plan) Defs() []ColumnDef {
	defs := make([]ColumnDef, 0, len(p.Columns))
	for _, c := range p.Columns {
		defs = append(defs, c.Def())
	}
	return defs
}

// Keys returns every data-carrying key in display order. Pivot group columns
// contribute their children; the row-number column contributes nothing.
func (p *Plan) Keys() []string {
	var keys []string
	for _, c := range p.Columns {
		switch col := c.(type) {
		case RowNumberColumn:
		case PivotColumn:
			for _, child := range col.Children {
				keys = append(keys, child.Key())
			}
		default:
			keys = append(keys, col.Key())
		}
	}
	return keys
}

// Leaves flattens pivot columns into their children.
func (p *Plan) Leaves() []Column {
	var out []Column
	for _, c := range p.Columns {
		if pc, ok := c.(PivotColumn); ok {
			for _, child := range pc.Children {
				out = append(out, child)
			}
			continue
		}
		out = append(out, c)
	}
	return out
}

// GroupFields returns the grouping dimensions in order.
func (p *Plan) GroupFields() []string {
	var out []string
	for _, c := range p.Columns {
		if d, ok := c.(DimensionColumn); ok && d.RowGroup {
			out = append(out, d.Field.Name)
		}
	}
	return out
}

// ValueColumns returns the measure-like leaf columns with their fields.
func (p *Plan) ValueColumns() []Column {
	var out []Column
	for _, c := range p.Leaves() {
		switch c.(type) {
		case MeasureColumn, TableCalcColumn, PivotChildColumn:
			out = append(out, c)
		}
	}
	return out
}

// PlanColumns builds the column plan. The response must already have passed
// shape validation.
func PlanColumns(resp *schema.QueryResponse, cfg schema.Config) *Plan {
	fields := resp.Fields
	dims := fields.Dimensions
	plan := &Plan{Pivoted: resp.HasPivots()}

	grouped := len(dims) > 1
	for i, d := range dims {
		plan.Columns = append(plan.Columns, DimensionColumn{
			Field:    d,
			Header:   HeaderName(d, cfg),
			RowGroup: grouped && i < len(dims)-1,
			Hide:     grouped,
		})
	}
	if grouped {
		plan.LastGroup = dims[len(dims)-1].Name
	}

	if plan.Pivoted {
		sep := cfg.PivotSeparator
		if sep == "" {
			sep = ", "
		}
		for _, p := range resp.Pivots {
			pc := PivotColumn{
				Pivot:  p,
				Header: strings.Join(p.Segments(), sep),
			}
			for _, m := range fields.MeasureLike() {
				class := m.Category
				if class == "" && m.IsTableCalculation {
					class = "tableCalc"
				}
				pc.Children = append(pc.Children, PivotChildColumn{
					Field:    m,
					PivotKey: p.Key,
					Header:   HeaderName(m, cfg),
					Class:    class,
				})
			}
			plan.Columns = append(plan.Columns, pc)
		}
	} else {
		for _, m := range fields.Measures {
			plan.Columns = append(plan.Columns, MeasureColumn{Field: m, Header: HeaderName(m, cfg)})
		}
		for _, tc := range fields.TableCalculations {
			tc.IsTableCalculation = true
			plan.Columns = append(plan.Columns, TableCalcColumn{Field: tc, Header: HeaderName(tc, cfg)})
		}
	}

	if cfg.ShowRowNumbers {
		plan.Columns = append([]Column{RowNumberColumn{}}, plan.Columns...)
	}
	return plan
}

// HeaderName resolves a field's column label: custom label, then the full
// label when requested, then the short label, then the full label.
func HeaderName(f schema.Field, cfg schema.Config) string {
	label := cfg.CustomLabels[f.Name]
	if label == "" {
		switch {
		case cfg.ShowFullFieldName:
			label = f.Label
		case f.LabelShort != "":
			label = f.LabelShort
		default:
			label = f.Label
		}
	}
	if label == "" {
		label = f.Name
	}
	if cfg.TruncateColumnNames {
		if r := []rune(label); len(r) > truncateAbove {
			label = string(r[:truncateTo]) + "..."
		}
	}
	return label
}
