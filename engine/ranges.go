package engine

import (
	"math"
	"slices"

	"github.com/spektr-org/pivotgrid/format"
	"github.com/spektr-org/pivotgrid/schema"
)

// ============================================================================
// RANGES — Min/max per column for conditional formatting
// ============================================================================
// Keys lists the measure-like fields taking part. Global folds every value;
// Columns folds per column key (field name, or "<pivotKey>_<field>").
// ============================================================================

// Bounds is an inclusive numeric range.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Range holds conditional-formatting bounds.
type Range struct {
	Keys    []string           `json:"keys"`
	Global  *Bounds            `json:"global,omitempty"`
	Columns map[string]*Bounds `json:"columns,omitempty"`
}

func newRange(keys []string) *Range {
	return &Range{Keys: keys, Columns: make(map[string]*Bounds)}
}

// Update folds one value into the global and per-column bounds.
func (r *Range) Update(key string, v float64) {
	if r == nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if r.Global == nil {
		r.Global = &Bounds{Min: v, Max: v}
	} else {
		r.Global.Min = math.Min(r.Global.Min, v)
		r.Global.Max = math.Max(r.Global.Max, v)
	}
	b, ok := r.Columns[key]
	if !ok {
		r.Columns[key] = &Bounds{Min: v, Max: v}
		return
	}
	b.Min = math.Min(b.Min, v)
	b.Max = math.Max(b.Max, v)
}

// HasKey reports whether a field or column key takes part in formatting.
func (r *Range) HasKey(key string) bool {
	return r != nil && slices.Contains(r.Keys, key)
}

// For returns the bounds used for a column: its own when perColumn is set,
// otherwise the global ones. Nil when nothing was recorded.
func (r *Range) For(key string, perColumn bool) *Bounds {
	if r == nil {
		return nil
	}
	if perColumn {
		return r.Columns[key]
	}
	return r.Global
}

// Normalize maps v into [0, 1] within b. A constant column maps its value to
// 1; ok is false when the result is not a number.
func Normalize(v float64, b Bounds) (float64, bool) {
	if b.Max == b.Min && v == b.Max {
		return 1, true
	}
	n := (v - b.Min) / (b.Max - b.Min)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// RangeKeys returns the measure-like fields selected for formatting.
func RangeKeys(fields schema.Fields, cfg schema.Config, selected []string) []string {
	var keys []string
	for _, m := range fields.MeasureLike() {
		if cfg.ApplyTo == schema.ApplyToSelectFields && !slices.Contains(selected, m.Name) {
			continue
		}
		keys = append(keys, m.Name)
	}
	return keys
}

// ComputeRange scans the host rows for the selected fields. With
// subtotals_only formatting the rows are not scanned; subtotal values are
// folded in later.
func ComputeRange(rows []schema.Row, resp *schema.QueryResponse, cfg schema.Config, selected []string) *Range {
	r := newRange(RangeKeys(resp.Fields, cfg, selected))
	if cfg.ConditionalFormattingType == schema.FormattingSubtotalsOnly {
		return r
	}
	pivoted := resp.HasPivots()
	for _, row := range rows {
		for _, key := range r.Keys {
			if !pivoted {
				cell, _ := row.Cell(key, "")
				if v, ok := rangeValue(cell, cfg); ok {
					r.Update(key, v)
				}
				continue
			}
			for _, pk := range row.PivotKeys(key) {
				cell, _ := row.Cell(key, pk)
				if v, ok := rangeValue(cell, cfg); ok {
					r.Update(PivotFieldKey(pk, key), v)
				}
			}
		}
	}
	return r
}

// rangeValue reads a cell's number; missing values count as zero only when
// includeNullValuesAsZero is set.
func rangeValue(cell schema.Cell, cfg schema.Config) (float64, bool) {
	if v, ok := format.Number(cell.Value); ok {
		return v, true
	}
	if cfg.IncludeNullValuesAsZero {
		return 0, true
	}
	return 0, false
}
