package engine

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/spektr-org/pivotgrid/format"
	"github.com/spektr-org/pivotgrid/schema"
)

// ============================================================================
// SUBTOTALS — Aggregated group rows over the grouping dimensions
// ============================================================================
// Rows are grouped by each grouping dimension in turn (first-seen order),
// depth first. Every group aggregates the leaf rows beneath it, per value
// column, with the field's measure type and value format.
// ============================================================================

// GroupRow is one subtotal row.
type GroupRow struct {
	Level  int      `json:"level"`
	Field  string   `json:"field"`
	Path   []string `json:"path"`
	Count  int      `json:"count"`
	Values FlatRow  `json:"values"`
}

// Subtotals holds group rows in display order plus the grand total, which is
// not shown on a grouped grid and never feeds the range.
type Subtotals struct {
	Groups []GroupRow `json:"groups"`
	Total  FlatRow    `json:"total"`
}

// ComputeSubtotals aggregates the materialized rows along the plan's grouping
// dimensions. Fields with a measure type that cannot be aggregated are all
// reported together.
func ComputeSubtotals(rows []FlatRow, plan *Plan) (*Subtotals, error) {
	values := plan.ValueColumns()

	var errs *multierror.Error
	seen := make(map[string]bool)
	for _, c := range values {
		f := valueField(c)
		if !seen[f.Name] && !SupportedType(f.Type) {
			errs = multierror.Append(errs, fmt.Errorf("%s (%s): %w", f.Name, f.Type, ErrUnsupportedType))
		}
		seen[f.Name] = true
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	all := make([]int, len(rows))
	for i := range rows {
		all[i] = i
	}

	st := &Subtotals{}
	total, err := aggregateRows(rows, all, values)
	if err != nil {
		return nil, err
	}
	st.Total = total

	groups := plan.GroupFields()
	if len(groups) == 0 {
		return st, nil
	}
	if err := st.group(rows, all, groups, 0, nil, values); err != nil {
		return nil, err
	}
	return st, nil
}

func (st *Subtotals) group(rows []FlatRow, idx []int, dims []string, level int, path []string, values []Column) error {
	dim := dims[level]
	buckets := make(map[string][]int)
	var order []string
	for _, i := range idx {
		key := groupKey(rows[i][dim])
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], i)
	}

	for _, key := range order {
		members := buckets[key]
		agg, err := aggregateRows(rows, members, values)
		if err != nil {
			return err
		}
		p := append(append([]string(nil), path...), key)
		st.Groups = append(st.Groups, GroupRow{
			Level:  level,
			Field:  dim,
			Path:   p,
			Count:  len(members),
			Values: agg,
		})
		if level+1 < len(dims) {
			if err := st.group(rows, members, dims, level+1, p, values); err != nil {
				return err
			}
		}
	}
	return nil
}

func aggregateRows(rows []FlatRow, idx []int, values []Column) (FlatRow, error) {
	out := make(FlatRow, len(values))
	for _, c := range values {
		f := valueField(c)
		raw := make([]any, 0, len(idx))
		for _, i := range idx {
			if v := rows[i][c.Key()]; v != nil {
				raw = append(raw, aggregateInput(v))
			}
		}
		s, err := Aggregate(raw, f.Type, f.ValueFormat)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Key(), err)
		}
		if s == nil {
			out[c.Key()] = nil
			continue
		}
		out[c.Key()] = &DisplayValue{Text: *s, Raw: *s, Kind: DisplayText}
	}
	return out, nil
}

// aggregateInput prefers the raw value and falls back to the displayed text
// (rendered numbers, HTML) when the raw value is not numeric.
func aggregateInput(v *DisplayValue) any {
	if _, ok := format.Number(v.Raw); ok || !format.Scalar(v.Raw) {
		return v.Raw
	}
	return v.Text
}

func groupKey(v *DisplayValue) string {
	if v == nil {
		return ""
	}
	return v.Text
}

func valueField(c Column) schema.Field {
	switch col := c.(type) {
	case MeasureColumn:
		return col.Field
	case TableCalcColumn:
		return col.Field
	case PivotChildColumn:
		return col.Field
	default:
		return schema.Field{}
	}
}
