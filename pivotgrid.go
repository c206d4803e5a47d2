// Package pivotgrid reshapes query results into render-ready grids.
//
// Usage:
//
//	import "github.com/spektr-org/pivotgrid/engine"
//
//	vis := engine.New(engine.WithNullText("-"))
//	res, err := vis.Update(ctx, resp, rows, schema.ParseConfig(raw))
//
// The engine takes a query response (dimensions, measures, table calculations
// and pivots) with its data rows, plans the grid columns, materializes display
// rows, computes per-measure value ranges for conditional formatting and
// optional group subtotals. Shape problems are reported on the Result, never
// as Go errors.
//
// The helpers package reads CSV files into a query response and writes a
// rendered Result as CSV, XLSX or aligned text. cmd/pivotgrid wraps both in
// a CLI.
package pivotgrid
