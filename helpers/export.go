package helpers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/pivotgrid/engine"
	"github.com/spektr-org/pivotgrid/format"
	"github.com/spektr-org/pivotgrid/schema"
)

// ============================================================================
// EXPORT — Rendered grid → CSV / XLSX (Sheets-ready)
// ============================================================================

// ErrNoResult is returned when exporting a result that did not render.
var ErrNoResult = errors.New("nothing to export")

// WriteCSV writes the grid as CSV. Pivoted grids get a pivot header row above
// the column headers.
func WriteCSV(w io.Writer, res *engine.Result) error {
	if res == nil || !res.Success || res.Plan == nil {
		return ErrNoResult
	}
	cols := ExportColumns(res.Plan)
	cw := csv.NewWriter(w)

	if res.Plan.Pivoted {
		top := make([]string, len(cols))
		for i, c := range cols {
			top[i] = c.Group
		}
		if err := cw.Write(top); err != nil {
			return err
		}
	}
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, line := range Lines(res) {
		record := make([]string, len(cols))
		for i, c := range cols {
			if v := line.Cells[c.Column.Key()]; v != nil {
				record[i] = plainText(v)
			} else if isValueColumn(c.Column) {
				record[i] = res.NullText
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// plainText strips HTML from a display value.
func plainText(v *engine.DisplayValue) string {
	if v.Kind == engine.DisplayHTML {
		return strings.TrimSpace(format.TextContent(v.Text))
	}
	return v.Text
}

// ============================================================================
// XLSX
// ============================================================================

const sheetName = "Grid"

// WriteXLSX writes the grid as a workbook with one sheet. Cell styles
// (alignment, font format, conditional background) follow cfg.
func WriteXLSX(w io.Writer, res *engine.Result, cfg schema.Config) error {
	if res == nil || !res.Success || res.Plan == nil {
		return ErrNoResult
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheetName); err != nil {
		return err
	}
	x := &xlsxWriter{f: f, styles: make(map[string]int)}
	cols := ExportColumns(res.Plan)

	row := 1
	if res.Plan.Pivoted {
		if err := x.pivotHeader(cols, row); err != nil {
			return err
		}
		row++
	}
	for i, c := range cols {
		if err := x.set(i+1, row, c.Header, map[string]string{"font-weight": "800"}); err != nil {
			return err
		}
	}
	row++

	for _, line := range Lines(res) {
		for i, c := range cols {
			v := line.Cells[c.Column.Key()]
			style := engine.CellStyle(c.Column, v, line.Subtotal, cfg, res.Range)
			if line.Subtotal {
				style["font-weight"] = "800"
			}
			value := cellValue(c.Column, v)
			if value == nil && isValueColumn(c.Column) && res.NullText != "" {
				value = res.NullText
			}
			if err := x.set(i+1, row, value, style); err != nil {
				return err
			}
		}
		row++
	}
	return f.Write(w)
}

type xlsxWriter struct {
	f      *excelize.File
	styles map[string]int
}

// pivotHeader writes the pivot labels, merged across each pivot's children.
func (x *xlsxWriter) pivotHeader(cols []ExportColumn, row int) error {
	bold := map[string]string{"font-weight": "800", "text-align": "center"}
	start := 0
	for i := 1; i <= len(cols); i++ {
		if i < len(cols) && cols[i].Group == cols[start].Group {
			continue
		}
		if err := x.set(start+1, row, cols[start].Group, bold); err != nil {
			return err
		}
		if cols[start].Group != "" && i-1 > start {
			from, _ := excelize.CoordinatesToCellName(start+1, row)
			to, _ := excelize.CoordinatesToCellName(i, row)
			if err := x.f.MergeCell(sheetName, from, to); err != nil {
				return err
			}
		}
		start = i
	}
	return nil
}

func (x *xlsxWriter) set(col, row int, value any, style map[string]string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if value != nil {
		if err := x.f.SetCellValue(sheetName, cell, value); err != nil {
			return err
		}
	}
	if len(style) == 0 {
		return nil
	}
	id, err := x.style(style)
	if err != nil {
		return err
	}
	return x.f.SetCellStyle(sheetName, cell, cell, id)
}

func (x *xlsxWriter) style(css map[string]string) (int, error) {
	key := styleKey(css)
	if id, ok := x.styles[key]; ok {
		return id, nil
	}
	s := &excelize.Style{Font: &excelize.Font{}}
	for prop, val := range css {
		switch prop {
		case "background-color":
			s.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{val}}
		case "text-align":
			s.Alignment = &excelize.Alignment{Horizontal: val}
		case "font-weight":
			s.Font.Bold = true
		case "font-style":
			s.Font.Italic = true
		case "text-decoration":
			if val == "line-through" {
				s.Font.Strike = true
			} else {
				s.Font.Underline = "single"
			}
		}
	}
	id, err := x.f.NewStyle(s)
	if err != nil {
		return 0, fmt.Errorf("xlsx style %s: %w", key, err)
	}
	x.styles[key] = id
	return id, nil
}

func styleKey(css map[string]string) string {
	parts := make([]string, 0, len(css))
	for k, v := range css {
		parts = append(parts, k+":"+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}

// cellValue keeps raw numbers in value columns; everything else is written
// as displayed.
func cellValue(col engine.Column, v *engine.DisplayValue) any {
	if v == nil {
		return nil
	}
	if isValueColumn(col) {
		if _, isText := v.Raw.(string); !isText {
			if n, ok := format.Number(v.Raw); ok {
				return n
			}
		}
	}
	return plainText(v)
}

func isValueColumn(col engine.Column) bool {
	switch col.(type) {
	case engine.MeasureColumn, engine.TableCalcColumn, engine.PivotChildColumn:
		return true
	}
	return false
}
