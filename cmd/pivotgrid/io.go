package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/pivotgrid/engine"
	"github.com/spektr-org/pivotgrid/schema"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ============================================================================
// INPUT
// ============================================================================

// readResponse loads a query response. The document may be the response
// itself or wrap it under "queryResponse".
func readResponse(path string) (*schema.QueryResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if !gjson.GetBytes(data, "fields").Exists() {
		if wrapped := gjson.GetBytes(data, "queryResponse"); wrapped.IsObject() {
			data = []byte(wrapped.Raw)
		}
	}
	resp, err := schema.ParseQueryResponse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}
	return resp, nil
}

// readRows loads the row array, optionally from a gjson path. An object
// document without a path reads its "data" member.
func readRows(path, rowsPath string) ([]schema.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	if rowsPath == "" && bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		rowsPath = "data"
	}
	if rowsPath != "" {
		res := gjson.GetBytes(data, rowsPath)
		if !res.IsArray() {
			return nil, fmt.Errorf("no row array at path %q", rowsPath)
		}
		data = []byte(res.Raw)
	}
	rows, err := schema.ParseRows(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rows JSON: %w", err)
	}
	return rows, nil
}

// readConfig loads the host option map from YAML or JSON. No file means
// defaults.
func readConfig(path string) (schema.Config, error) {
	if path == "" {
		return schema.DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	raw := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return schema.Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return schema.ParseConfig(raw), nil
}

// ============================================================================
// OUTPUT
// ============================================================================

func writeTo(out string, fn func(w *os.File) error) error {
	if out == "" {
		return fn(os.Stdout)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(w *os.File, v any, format string) error {
	var out []byte
	var err error
	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// errorPanel is returned once visualization errors have been shown.
type errorPanel struct {
	errs []engine.VisError
}

func (e *errorPanel) Error() string {
	parts := make([]string, len(e.errs))
	for i, ve := range e.errs {
		parts[i] = ve.Error()
	}
	return strings.Join(parts, "; ")
}

func showErrors(errs []engine.VisError) error {
	title := color.New(color.FgRed, color.Bold)
	for _, e := range errs {
		title.Fprintf(os.Stderr, "✖ %s\n", e.Title)
		fmt.Fprintf(os.Stderr, "  %s\n", e.Message)
	}
	return &errorPanel{errs: errs}
}
