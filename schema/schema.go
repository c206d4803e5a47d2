package schema

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
)

// ============================================================================
// SCHEMA — Shape of a query response handed over by the BI host
// ============================================================================
// Field metadata (dimensions, measures, table calculations, pivots) plus the
// cell rows. Rows are a closed tagged union: a field either maps to one Cell
// (Flat) or to a Cell per pivot key (Pivoted). Everything here is decoded
// fresh on every update; nothing persists between calls.
// ============================================================================

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PivotFieldSeparator joins the values of multiple pivot fields in a pivot key.
const PivotFieldSeparator = "|FIELD|"

// RowTotalKey is the pivot key the host uses for row totals.
const RowTotalKey = "$$$_row_total_$$$"

// Field describes a dimension, measure, or table calculation.
type Field struct {
	Name               string `json:"name"`
	Label              string `json:"label,omitempty"`
	LabelShort         string `json:"label_short,omitempty"`
	ViewLabel          string `json:"view_label,omitempty"`
	Category           string `json:"category,omitempty"` // "dimension", "measure", "table_calculation"
	IsTableCalculation bool   `json:"is_table_calculation,omitempty"`
	ValueFormat        string `json:"value_format,omitempty"` // "$#,##0.00", "0.0%"
	Type               string `json:"type,omitempty"`         // measures: "sum", "count", "average", ...
}

// Pivot is one pivot column group. Keys of multi-field pivots are joined with
// PivotFieldSeparator.
type Pivot struct {
	Key     string            `json:"key"`
	IsTotal bool              `json:"is_total,omitempty"`
	Labels  map[string]string `json:"labels,omitempty"`
	Data    map[string]any    `json:"data,omitempty"`
}

// Segments splits a pivot key into its per-field values.
func (p Pivot) Segments() []string {
	return strings.Split(p.Key, PivotFieldSeparator)
}

// Fields groups field metadata by role, in the host's order.
type Fields struct {
	Dimensions        []Field `json:"dimensions"`
	Measures          []Field `json:"measures"`
	Pivots            []Field `json:"pivots"`
	TableCalculations []Field `json:"table_calculations"`
	DimensionLike     []Field `json:"dimension_like,omitempty"`
	MeasureLikeFields []Field `json:"measure_like,omitempty"`
}

// MeasureLike returns measures and table calculations. When the host sent an
// explicit measure_like list it is used as-is.
func (f Fields) MeasureLike() []Field {
	if len(f.MeasureLikeFields) > 0 {
		return f.MeasureLikeFields
	}
	out := make([]Field, 0, len(f.Measures)+len(f.TableCalculations))
	out = append(out, f.Measures...)
	for _, tc := range f.TableCalculations {
		tc.IsTableCalculation = true
		out = append(out, tc)
	}
	return out
}

// Lookup finds a measure-like field by name.
func (f Fields) Lookup(name string) (Field, bool) {
	for _, m := range f.MeasureLike() {
		if m.Name == name {
			return m, true
		}
	}
	return Field{}, false
}

// QueryResponse is the host's description of the query that produced the rows.
type QueryResponse struct {
	Fields Fields  `json:"fields"`
	Pivots []Pivot `json:"pivots,omitempty"`
}

// HasPivots reports whether the response is pivoted.
func (q *QueryResponse) HasPivots() bool {
	return q != nil && len(q.Pivots) > 0
}

// ============================================================================
// CELLS AND ROWS
// ============================================================================

// Link is a drill target attached to a cell.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Type  string `json:"type,omitempty"`
}

// Cell is one data value.
type Cell struct {
	Value    any     `json:"value"`
	Rendered *string `json:"rendered,omitempty"`
	HTML     string  `json:"html,omitempty"`
	Links    []Link  `json:"links,omitempty"`
}

// IsEmpty reports whether the cell carries nothing to display.
func (c Cell) IsEmpty() bool {
	return c.Value == nil && c.Rendered == nil && c.HTML == "" && len(c.Links) == 0
}

// Entry is the value a Row holds for one field: Flat or Pivoted.
type Entry interface {
	isEntry()
}

// Flat holds a single cell.
type Flat struct {
	Cell Cell
}

// Pivoted holds one cell per pivot key.
type Pivoted map[string]Cell

func (Flat) isEntry()    {}
func (Pivoted) isEntry() {}

// MarshalJSON renders a flat entry as its cell.
func (f Flat) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Cell)
}

// Row maps field names to entries.
type Row map[string]Entry

// Cell resolves the cell for a field. pivotKey is ignored for flat entries
// only when empty; a flat entry asked for a pivot key is a miss.
func (r Row) Cell(field, pivotKey string) (Cell, bool) {
	switch e := r[field].(type) {
	case Flat:
		if pivotKey != "" {
			return Cell{}, false
		}
		return e.Cell, true
	case Pivoted:
		c, ok := e[pivotKey]
		return c, ok
	default:
		return Cell{}, false
	}
}

// PivotKeys returns the pivot keys present for a field, or nil for flat entries.
func (r Row) PivotKeys(field string) []string {
	p, ok := r[field].(Pivoted)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	return keys
}

// UnmarshalJSON classifies each member as a flat cell or a pivot map.
func (r *Row) UnmarshalJSON(b []byte) error {
	var raw map[string]jsoniter.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	row := make(Row, len(raw))
	for name, msg := range raw {
		if isFlatCell(msg) {
			var c Cell
			if err := json.Unmarshal(msg, &c); err != nil {
				return err
			}
			row[name] = Flat{Cell: c}
			continue
		}
		var p map[string]Cell
		if err := json.Unmarshal(msg, &p); err != nil {
			return err
		}
		row[name] = Pivoted(p)
	}
	*r = row
	return nil
}

// isFlatCell: a cell carries scalar value/rendered/html members or a links
// array; a pivot map only carries objects.
func isFlatCell(msg []byte) bool {
	for _, key := range []string{"value", "rendered", "html"} {
		if v := gjson.GetBytes(msg, key); v.Exists() && !v.IsObject() {
			return true
		}
	}
	return gjson.GetBytes(msg, "links").IsArray()
}

// ParseRows decodes a JSON array of rows.
func ParseRows(data []byte) ([]Row, error) {
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ParseQueryResponse decodes a query response document.
func ParseQueryResponse(data []byte) (*QueryResponse, error) {
	var q QueryResponse
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, err
	}
	return &q, nil
}
