package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/pivotgrid/schema"
)

const payload = `{
  "queryResponse": {
    "fields": {
      "dimensions": [{"name": "region", "label_short": "Region"}],
      "measures": [{"name": "revenue", "label_short": "Revenue", "type": "sum"}]
    }
  },
  "result": {
    "rows": [
      {"region": {"value": "EU"}, "revenue": {"value": 10}},
      {"region": {"value": "US"}, "revenue": {"value": 30}}
    ]
  }
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadResponseAndRows(t *testing.T) {
	path := writeFile(t, "payload.json", payload)

	resp, err := readResponse(path)
	require.NoError(t, err)
	assert.Equal(t, "region", resp.Fields.Dimensions[0].Name)

	rows, err := readRows(path, "result.rows")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	cell, ok := rows[1].Cell("revenue", "")
	require.True(t, ok)
	assert.Equal(t, 30.0, cell.Value)

	_, err = readRows(path, "")
	assert.ErrorContains(t, err, `no row array at path "data"`)
}

func TestReadConfig(t *testing.T) {
	cfg, err := readConfig("")
	require.NoError(t, err)
	assert.Equal(t, schema.DefaultConfig(), cfg)

	path := writeFile(t, "grid.yaml", `
enableConditionalFormatting: true
formattingStyle: high_to_low
customLabel_revenue: Rev
showRowNumbers: "true"
`)
	cfg, err = readConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.EnableConditionalFormatting)
	assert.True(t, cfg.ShowRowNumbers)
	assert.Equal(t, schema.HighToLow, cfg.FormattingStyle)
	assert.Equal(t, "Rev", cfg.CustomLabels["revenue"])

	path = writeFile(t, "grid.json", `{"applyTo": "select_fields"}`)
	cfg, err = readConfig(path)
	require.NoError(t, err)
	assert.Equal(t, schema.ApplyToSelectFields, cfg.ApplyTo)

	_, err = readConfig(writeFile(t, "bad.json", `{`))
	assert.Error(t, err)
}

func TestRenderAndWrite(t *testing.T) {
	path := writeFile(t, "payload.json", payload)
	resp, err := readResponse(path)
	require.NoError(t, err)
	rows, err := readRows(path, "result.rows")
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "grid.csv")
	require.NoError(t, renderAndWrite(context.Background(), resp, rows, schema.DefaultConfig(), "csv", out))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Region,Revenue\nEU,10\nUS,30\n", string(b))

	bad := filepath.Join(t.TempDir(), "x")
	err = renderAndWrite(context.Background(), resp, rows, schema.DefaultConfig(), "yaml", bad)
	assert.ErrorContains(t, err, "unknown format")
	assert.NoFileExists(t, bad)
}

func TestParseFilters(t *testing.T) {
	filters, err := parseFilters([]string{"region=EU", "region=US", "product=A=1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"EU", "US"}, filters["region"])
	assert.Equal(t, []string{"A=1"}, filters["product"])

	_, err = parseFilters([]string{"region"})
	assert.ErrorContains(t, err, "invalid --filter")
	_, err = parseFilters([]string{"=EU"})
	assert.Error(t, err)
}

func TestRenderAndWriteText(t *testing.T) {
	path := writeFile(t, "payload.json", payload)
	resp, err := readResponse(path)
	require.NoError(t, err)
	rows, err := readRows(path, "result.rows")
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "grid.txt")
	require.NoError(t, renderAndWrite(context.Background(), resp, rows, schema.DefaultConfig(), "text", out))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Region")
	assert.Contains(t, string(b), "US")
}

func TestRenderShowsErrors(t *testing.T) {
	resp := &schema.QueryResponse{}
	err := renderAndWrite(context.Background(), resp, nil, schema.DefaultConfig(), "json", "")
	var panel *errorPanel
	require.ErrorAs(t, err, &panel)
	assert.Equal(t, "No Dimensions: This chart requires dimensions.", panel.Error())
}

func TestConfigSchema(t *testing.T) {
	s := configSchema()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), "conditionalFormattingType")
	assert.Contains(t, string(b), "subtotals_only")
}
