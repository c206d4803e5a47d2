package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/spektr-org/pivotgrid/format"
	"github.com/spektr-org/pivotgrid/schema"
)

// ============================================================================
// CSV HELPER — Parses CSV data into a query response and host rows
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, S3, Sheets).
// Discovery classifies the columns; every data row becomes a flat row. With a
// pivot column, rows sharing the remaining dimension values are merged and
// each measure becomes a pivoted entry keyed by the pivot column's value.
// ============================================================================

// CSVOptions controls how CSV data is shaped.
type CSVOptions struct {
	Discover schema.DiscoverOptions
	// PivotOn names the dimension column (header or key) to pivot on.
	PivotOn string
}

// Dataset is a CSV file shaped like a host query.
type Dataset struct {
	Discovery *schema.Discovery
	Response  *schema.QueryResponse
	Rows      []schema.Row
}

// ParseCSV discovers the fields of a CSV file and converts its rows.
func ParseCSV(data []byte, opts CSVOptions) (*Dataset, error) {
	disc, err := schema.DiscoverFromCSV(data, opts.Discover)
	if err != nil {
		return nil, err
	}

	resp := &schema.QueryResponse{Fields: disc.Fields}
	index := make(map[string]int, len(disc.Columns))
	for _, c := range disc.Columns {
		index[c.Key] = c.Index
	}

	pivotKey := ""
	if opts.PivotOn != "" {
		pivotKey = schema.ToKey(opts.PivotOn)
		pf, rest, ok := splitField(resp.Fields.Dimensions, pivotKey)
		if !ok {
			return nil, fmt.Errorf("pivot column %q is not a dimension", opts.PivotOn)
		}
		resp.Fields.Dimensions = rest
		resp.Fields.Pivots = []schema.Field{pf}
	}

	records, err := readRecords(data)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Discovery: disc, Response: resp}
	if pivotKey == "" {
		for _, rec := range records {
			ds.Rows = append(ds.Rows, flatRow(rec, resp.Fields, index))
		}
		return ds, nil
	}

	ds.Rows, resp.Pivots = pivotRows(records, resp.Fields, index, pivotKey)
	return ds, nil
}

func splitField(fields []schema.Field, name string) (schema.Field, []schema.Field, bool) {
	for i, f := range fields {
		if f.Name == name {
			rest := append(append([]schema.Field(nil), fields[:i]...), fields[i+1:]...)
			return f, rest, true
		}
	}
	return schema.Field{}, fields, false
}

func readRecords(data []byte) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	var records [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		records = append(records, row)
	}
	return records, nil
}

func field(rec []string, index map[string]int, key string) string {
	i, ok := index[key]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func dimensionCell(v string) schema.Cell {
	if v == "" {
		return schema.Cell{}
	}
	return schema.Cell{Value: v}
}

func measureValue(v string) any {
	if f, ok := format.Number(v); ok {
		return f
	}
	return nil
}

func flatRow(rec []string, fields schema.Fields, index map[string]int) schema.Row {
	row := make(schema.Row, len(fields.Dimensions)+len(fields.Measures))
	for _, d := range fields.Dimensions {
		row[d.Name] = schema.Flat{Cell: dimensionCell(field(rec, index, d.Name))}
	}
	for _, m := range fields.Measures {
		row[m.Name] = schema.Flat{Cell: schema.Cell{Value: measureValue(field(rec, index, m.Name))}}
	}
	return row
}

// pivotRows merges records by their dimension values. Repeated (row, pivot)
// pairs are summed.
func pivotRows(records [][]string, fields schema.Fields, index map[string]int, pivotKey string) ([]schema.Row, []schema.Pivot) {
	var rows []schema.Row
	var pivots []schema.Pivot
	byGroup := make(map[string]schema.Row)
	seenPivot := make(map[string]bool)

	for _, rec := range records {
		parts := make([]string, len(fields.Dimensions))
		for i, d := range fields.Dimensions {
			parts[i] = field(rec, index, d.Name)
		}
		group := strings.Join(parts, "\x1f")

		row, ok := byGroup[group]
		if !ok {
			row = make(schema.Row, len(fields.Dimensions)+len(fields.Measures))
			for i, d := range fields.Dimensions {
				row[d.Name] = schema.Flat{Cell: dimensionCell(parts[i])}
			}
			for _, m := range fields.Measures {
				row[m.Name] = schema.Pivoted{}
			}
			byGroup[group] = row
			rows = append(rows, row)
		}

		pk := field(rec, index, pivotKey)
		if !seenPivot[pk] {
			seenPivot[pk] = true
			pivots = append(pivots, schema.Pivot{
				Key:    pk,
				Labels: map[string]string{pivotKey: pk},
				Data:   map[string]any{pivotKey: pk},
			})
		}

		for _, m := range fields.Measures {
			cells := row[m.Name].(schema.Pivoted)
			v := measureValue(field(rec, index, m.Name))
			if prev, ok := cells[pk]; ok {
				v = sumValues(prev.Value, v)
			}
			cells[pk] = schema.Cell{Value: v}
		}
	}
	return rows, pivots
}

func sumValues(a, b any) any {
	x, okA := a.(float64)
	y, okB := b.(float64)
	switch {
	case okA && okB:
		return x + y
	case okA:
		return x
	case okB:
		return y
	default:
		return nil
	}
}
