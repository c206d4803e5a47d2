package schema

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// AUTO-DISCOVERY — Field metadata from a CSV export
// ============================================================================
// Lets the CLI feed plain tabular files through the grid pipeline. Each
// column is sampled and classified:
//   1. Sample values → detect type (numeric, date, bool, string)
//   2. Type + cardinality → role (dimension, measure, skip)
//   3. Measures get a measure type (default "sum") and a value format
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize     int               // Max rows to inspect (0 = all). Default: 1000
	MeasureTypes   map[string]string // column key → measure type override
	ForceDimension []string          // column keys to keep as dimensions even if numeric
	Name           string
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{SampleSize: 1000}
}

// Column roles assigned by discovery.
const (
	RoleDimension = "dimension"
	RoleMeasure   = "measure"
	RoleSkipped   = "skipped"
)

// DiscoveredColumn maps a CSV header to its field.
type DiscoveredColumn struct {
	Header string `json:"header"`
	Key    string `json:"key"`
	Index  int    `json:"index"`
	Role   string `json:"role"`
}

// SkippedColumn records why a column was excluded.
type SkippedColumn struct {
	Column string `json:"column"`
	Reason string `json:"reason"`
}

// Discovery is the result of inspecting a CSV file.
type Discovery struct {
	Name           string             `json:"name"`
	Fields         Fields             `json:"fields"`
	Columns        []DiscoveredColumn `json:"columns"`
	SkippedColumns []SkippedColumn    `json:"skippedColumns,omitempty"`
	DiscoveredAt   string             `json:"discoveredAt"`
}

// DiscoverFromCSV builds field metadata by inspecting CSV data.
func DiscoverFromCSV(data []byte, opts ...DiscoverOptions) (*Discovery, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("CSV has no columns")
	}

	limit := opt.SampleSize
	if limit <= 0 {
		limit = 100000
	}
	var rows [][]string
	for i := 0; i < limit; i++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV has no data rows")
	}

	forced := make(map[string]bool, len(opt.ForceDimension))
	for _, k := range opt.ForceDimension {
		forced[ToKey(k)] = true
	}

	d := &Discovery{
		Name:         opt.Name,
		DiscoveredAt: time.Now().Format(time.RFC3339),
	}
	if d.Name == "" {
		d.Name = "Auto-discovered Dataset"
	}

	for i, header := range headers {
		col := analyzeColumn(header, i, rows)
		if forced[col.key] && col.role != RoleSkipped {
			col.role = RoleDimension
		}
		d.Columns = append(d.Columns, DiscoveredColumn{Header: header, Key: col.key, Index: i, Role: col.role})

		switch col.role {
		case RoleDimension:
			d.Fields.Dimensions = append(d.Fields.Dimensions, Field{
				Name:       col.key,
				Label:      strings.TrimSpace(header),
				LabelShort: strings.TrimSpace(header),
				Category:   "dimension",
			})
		case RoleMeasure:
			mType := opt.MeasureTypes[col.key]
			if mType == "" {
				mType = "sum"
			}
			f := Field{
				Name:       col.key,
				Label:      strings.TrimSpace(header),
				LabelShort: strings.TrimSpace(header),
				Category:   "measure",
				Type:       mType,
			}
			if col.hasDecimals {
				f.ValueFormat = "#,##0.00"
			}
			d.Fields.Measures = append(d.Fields.Measures, f)
		default:
			d.SkippedColumns = append(d.SkippedColumns, SkippedColumn{Column: header, Reason: col.skipReason})
		}
	}

	if len(d.Fields.Dimensions) == 0 && len(d.Fields.Measures) == 0 {
		return nil, fmt.Errorf("no usable columns in CSV")
	}
	return d, nil
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

type columnType int

const (
	typeString columnType = iota
	typeNumeric
	typeDate
	typeBool
)

type columnAnalysis struct {
	key         string
	colType     columnType
	role        string
	skipReason  string
	uniqueCount int
	hasDecimals bool
}

func analyzeColumn(header string, index int, rows [][]string) columnAnalysis {
	col := columnAnalysis{key: ToKey(header)}

	values := make([]string, 0, len(rows))
	unique := make(map[string]bool)
	for _, row := range rows {
		if index >= len(row) {
			continue
		}
		val := strings.TrimSpace(row[index])
		if isNullToken(val) {
			continue
		}
		values = append(values, val)
		unique[val] = true
	}
	col.uniqueCount = len(unique)

	if len(values) == 0 {
		col.role = RoleSkipped
		col.skipReason = "All values are empty/null"
		return col
	}

	col.colType = detectType(values)
	if col.colType == typeNumeric {
		for _, v := range values {
			if strings.Contains(v, ".") {
				col.hasDecimals = true
				break
			}
		}
	}
	col.classifyRole(len(rows))
	return col
}

// classifyRole determines dimension vs measure vs skip.
func (col *columnAnalysis) classifyRole(totalRows int) {
	switch col.colType {
	case typeNumeric:
		if col.hasDecimals {
			col.role = RoleMeasure
			return
		}
		// Few distinct integers across many rows → coded dimension (e.g. priority 1-5)
		ratio := float64(col.uniqueCount) / float64(totalRows)
		if col.uniqueCount < 20 && ratio < 0.3 {
			col.role = RoleDimension
			return
		}
		col.role = RoleMeasure
	case typeDate, typeBool:
		col.role = RoleDimension
	default:
		if col.uniqueCount == totalRows && totalRows > 10 {
			col.role = RoleSkipped
			col.skipReason = "Unique per row — likely an identifier"
			return
		}
		col.role = RoleDimension
	}
}

// detectType requires 80%+ of non-null values to match.
func detectType(values []string) columnType {
	numCount, dateCount, boolCount := 0, 0, 0
	for _, v := range values {
		if isNumeric(v) {
			numCount++
		}
		if isDate(v) {
			dateCount++
		}
		if isBool(v) {
			boolCount++
		}
	}

	threshold := int(float64(len(values)) * 0.8)
	switch {
	case boolCount >= threshold && boolCount > numCount/2:
		return typeBool
	case dateCount >= threshold:
		return typeDate
	case numCount >= threshold:
		return typeNumeric
	default:
		return typeString
	}
}

func isNullToken(s string) bool {
	switch s {
	case "", "null", "NULL", "N/A", "n/a":
		return true
	}
	return false
}

func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimPrefix(s, "£")
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"Jan-2006",
	"January 2006",
	"Jan 2, 2006",
}

func isDate(s string) bool {
	for _, layout := range dateFormats {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func isBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

// ToKey converts "Column Name" → "column_name".
func ToKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
