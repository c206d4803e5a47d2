package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/spektr-org/pivotgrid/engine"
	"github.com/spektr-org/pivotgrid/helpers"
	"github.com/spektr-org/pivotgrid/schema"
)

// ── render ────────────────────────────────────────────────────────────────

var renderFlags struct {
	response string
	data     string
	path     string
	config   string
	filters  []string
	format   string
	out      string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a query response and its rows",
	Example: `  pivotgrid render --response query.json --data rows.json --format pretty
  pivotgrid render --response payload.json --path data --config grid.yaml --format xlsx --out grid.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := renderFlags
		resp, err := readResponse(f.response)
		if err != nil {
			return err
		}
		dataFile := f.data
		if dataFile == "" {
			dataFile = f.response
		}
		rows, err := readRows(dataFile, f.path)
		if err != nil {
			return err
		}
		cfg, err := readConfig(f.config)
		if err != nil {
			return err
		}
		filters, err := parseFilters(f.filters)
		if err != nil {
			return err
		}
		slog.Info("📋 Loaded query", "dimensions", len(resp.Fields.Dimensions),
			"measures", len(resp.Fields.MeasureLike()), "pivots", len(resp.Pivots), "rows", len(rows))
		return renderAndWrite(cmd.Context(), resp, engine.ApplyFilters(rows, filters), cfg, f.format, f.out)
	},
}

func init() {
	fl := renderCmd.Flags()
	fl.StringVar(&renderFlags.response, "response", "", "Query response JSON (fields, pivots) (required)")
	fl.StringVar(&renderFlags.data, "data", "", "Rows JSON (defaults to the response file)")
	fl.StringVar(&renderFlags.path, "path", "", "gjson path of the rows array inside the data file")
	fl.StringVar(&renderFlags.config, "config", "", "Option map as YAML or JSON")
	fl.StringArrayVar(&renderFlags.filters, "filter", nil, "Keep rows whose dimension matches (dim=value, repeatable)")
	fl.StringVar(&renderFlags.format, "format", "json", "Output format: json, pretty, text, csv, xlsx")
	fl.StringVar(&renderFlags.out, "out", "", "Write output to file instead of stdout")
	_ = renderCmd.MarkFlagRequired("response")
}

// ── csv ───────────────────────────────────────────────────────────────────

var csvFlags struct {
	file           string
	pivot          string
	measureTypes   map[string]string
	forceDimension []string
	filters        []string
	config         string
	format         string
	out            string
}

var csvCmd = &cobra.Command{
	Use:   "csv",
	Short: "Discover fields in a CSV file and render it as a grid",
	Example: `  pivotgrid csv --file sales.csv --format csv --out grid.csv
  pivotgrid csv --file sales.csv --pivot Year --force-dimension Year --measure-type amount=average`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := csvFlags
		ds, err := loadCSV(f.file, f.pivot, f.measureTypes, f.forceDimension)
		if err != nil {
			return err
		}
		cfg, err := readConfig(f.config)
		if err != nil {
			return err
		}
		filters, err := parseFilters(f.filters)
		if err != nil {
			return err
		}
		return renderAndWrite(cmd.Context(), ds.Response, engine.ApplyFilters(ds.Rows, filters), cfg, f.format, f.out)
	},
}

func init() {
	fl := csvCmd.Flags()
	fl.StringVar(&csvFlags.file, "file", "", "Path to CSV data file (required)")
	fl.StringVar(&csvFlags.pivot, "pivot", "", "Dimension column to pivot on")
	fl.StringToStringVar(&csvFlags.measureTypes, "measure-type", nil, "Measure type per column key (col=type)")
	fl.StringSliceVar(&csvFlags.forceDimension, "force-dimension", nil, "Columns to keep as dimensions even if numeric")
	fl.StringVar(&csvFlags.config, "config", "", "Option map as YAML or JSON")
	fl.StringArrayVar(&csvFlags.filters, "filter", nil, "Keep rows whose dimension matches (dim=value, repeatable)")
	fl.StringVar(&csvFlags.format, "format", "json", "Output format: json, pretty, text, csv, xlsx")
	fl.StringVar(&csvFlags.out, "out", "", "Write output to file instead of stdout")
	_ = csvCmd.MarkFlagRequired("file")
}

// ── discover ──────────────────────────────────────────────────────────────

var discoverFlags struct {
	file   string
	pivot  string
	format string
	out    string
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Print the fields auto-detected in a CSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := discoverFlags
		ds, err := loadCSV(f.file, f.pivot, nil, nil)
		if err != nil {
			return err
		}
		return writeTo(f.out, func(w *os.File) error {
			return writeJSON(w, ds.Discovery, f.format)
		})
	},
}

func init() {
	fl := discoverCmd.Flags()
	fl.StringVar(&discoverFlags.file, "file", "", "Path to CSV data file (required)")
	fl.StringVar(&discoverFlags.pivot, "pivot", "", "Dimension column to pivot on")
	fl.StringVar(&discoverFlags.format, "format", "pretty", "Output format: json, pretty")
	fl.StringVar(&discoverFlags.out, "out", "", "Write output to file instead of stdout")
	_ = discoverCmd.MarkFlagRequired("file")
}

// ── options ───────────────────────────────────────────────────────────────

var optionsFlags struct {
	response string
	config   string
	format   string
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Print the settings panel for a query response",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := optionsFlags
		resp, err := readResponse(f.response)
		if err != nil {
			return err
		}
		cfg, err := readConfig(f.config)
		if err != nil {
			return err
		}
		out := struct {
			Options       schema.Options `json:"options"`
			ConfigUpdates map[string]any `json:"configUpdates,omitempty"`
		}{
			Options:       schema.BuildOptions(resp.Fields.MeasureLike(), cfg),
			ConfigUpdates: schema.PaletteUpdates(cfg),
		}
		return writeJSON(os.Stdout, out, f.format)
	},
}

func init() {
	fl := optionsCmd.Flags()
	fl.StringVar(&optionsFlags.response, "response", "", "Query response JSON (required)")
	fl.StringVar(&optionsFlags.config, "config", "", "Option map as YAML or JSON")
	fl.StringVar(&optionsFlags.format, "format", "pretty", "Output format: json, pretty")
	_ = optionsCmd.MarkFlagRequired("response")
}

// ── config-schema ─────────────────────────────────────────────────────────

var configSchemaCmd = &cobra.Command{
	Use:   "config-schema",
	Short: "Print the JSON Schema of the grid config",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(os.Stdout, configSchema(), "pretty")
	},
}

func configSchema() *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	s := r.Reflect(&schema.Config{})
	s.Title = "pivotgrid config"
	return s
}

// ============================================================================
// PIPELINE
// ============================================================================

func loadCSV(path, pivot string, measureTypes map[string]string, force []string) (*helpers.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	ds, err := helpers.ParseCSV(data, helpers.CSVOptions{
		Discover: schema.DiscoverOptions{MeasureTypes: measureTypes, ForceDimension: force},
		PivotOn:  pivot,
	})
	if err != nil {
		return nil, fmt.Errorf("auto-detect failed: %w", err)
	}
	d := ds.Discovery
	slog.Info("🔍 Auto-Detect", "dimensions", len(d.Fields.Dimensions), "measures", len(d.Fields.Measures),
		"skipped", len(d.SkippedColumns), "rows", len(ds.Rows), "pivots", len(ds.Response.Pivots))
	return ds, nil
}

// parseFilters reads repeated dim=value flags. Values of the same dimension
// are OR-combined.
func parseFilters(flags []string) (engine.Filters, error) {
	filters := engine.Filters{}
	for _, f := range flags {
		dim, value, ok := strings.Cut(f, "=")
		if !ok || dim == "" {
			return nil, fmt.Errorf("invalid --filter %q (want dim=value)", f)
		}
		filters[dim] = append(filters[dim], value)
	}
	return filters, nil
}

var outputFormats = map[string]bool{"json": true, "pretty": true, "text": true, "csv": true, "xlsx": true}

func renderAndWrite(ctx context.Context, resp *schema.QueryResponse, rows []schema.Row, cfg schema.Config, format, out string) error {
	if !outputFormats[format] {
		return fmt.Errorf("unknown format %q (want json, pretty, text, csv or xlsx)", format)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	vis := engine.New(engine.WithLogger(slog.Default()))
	res, err := vis.Update(ctx, resp, rows, cfg)
	if err != nil {
		return err
	}
	if !res.Success {
		return showErrors(res.Errors)
	}

	err = writeTo(out, func(w *os.File) error {
		switch format {
		case "text":
			return helpers.WriteText(w, res)
		case "csv":
			return helpers.WriteCSV(w, res)
		case "xlsx":
			return helpers.WriteXLSX(w, res, cfg)
		default:
			return writeJSON(w, res, format)
		}
	})
	if err == nil && out != "" {
		slog.Info("📄 Output written", "file", out, "format", format)
	}
	return err
}
