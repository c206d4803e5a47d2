package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/pivotgrid/schema"
)

func revenueColumn() MeasureColumn {
	return MeasureColumn{Field: schema.Field{Name: "revenue", Type: "sum"}, Header: "Revenue"}
}

func revenueRange() *Range {
	rng := newRange([]string{"revenue"})
	rng.Update("revenue", 0)
	rng.Update("revenue", 10)
	return rng
}

func TestCellStyleColorScale(t *testing.T) {
	cfg := formattingConfig()
	col := revenueColumn()
	rng := revenueRange()

	assert.Equal(t, "#f36254", CellStyle(col, &DisplayValue{Raw: 0.0}, false, cfg, rng)["background-color"])
	assert.Equal(t, "#fcf758", CellStyle(col, &DisplayValue{Raw: 5.0}, false, cfg, rng)["background-color"])
	assert.Equal(t, "#4fbc89", CellStyle(col, &DisplayValue{Raw: 10.0}, false, cfg, rng)["background-color"])

	cfg.FormattingStyle = schema.HighToLow
	assert.Equal(t, "#f36254", CellStyle(col, &DisplayValue{Raw: 10.0}, false, cfg, rng)["background-color"])
}

func TestCellStyleReadsRenderedText(t *testing.T) {
	style := CellStyle(revenueColumn(), &DisplayValue{Text: "$10.00"}, false, formattingConfig(), revenueRange())
	assert.Equal(t, "#4fbc89", style["background-color"])
}

func TestCellStyleNulls(t *testing.T) {
	cfg := formattingConfig()
	_, ok := CellStyle(revenueColumn(), nil, false, cfg, revenueRange())["background-color"]
	assert.False(t, ok)

	cfg.IncludeNullValuesAsZero = true
	assert.Equal(t, "#f36254", CellStyle(revenueColumn(), nil, false, cfg, revenueRange())["background-color"])
}

func TestCellStyleFormattingTargets(t *testing.T) {
	cfg := formattingConfig()
	cfg.ConditionalFormattingType = schema.FormattingSubtotalsOnly
	v := &DisplayValue{Raw: 10.0}

	_, ok := CellStyle(revenueColumn(), v, false, cfg, revenueRange())["background-color"]
	assert.False(t, ok)
	_, ok = CellStyle(revenueColumn(), v, true, cfg, revenueRange())["background-color"]
	assert.True(t, ok)

	cfg.EnableConditionalFormatting = false
	_, ok = CellStyle(revenueColumn(), v, true, cfg, revenueRange())["background-color"]
	assert.False(t, ok)
}

func TestCellStyleAlignmentAndFont(t *testing.T) {
	cfg := schema.DefaultConfig()
	cfg.Alignments["revenue"] = "center"
	cfg.FontFormats["revenue"] = "bold"

	style := CellStyle(revenueColumn(), &DisplayValue{Raw: 1.0}, false, cfg, nil)
	assert.Equal(t, map[string]string{"text-align": "center", "font-weight": "800"}, style)

	dim := DimensionColumn{Field: schema.Field{Name: "region"}}
	assert.Empty(t, CellStyle(dim, &DisplayValue{Text: "EU"}, false, cfg, nil))
}

func TestCellStyleCustomPalette(t *testing.T) {
	cfg := formattingConfig()
	cfg.FormattingPalette = schema.PaletteCustom
	cfg.LowColor = "#000000"
	cfg.MidColor = ""
	cfg.HighColor = "#ffffff"

	style := CellStyle(revenueColumn(), &DisplayValue{Raw: 10.0}, false, cfg, revenueRange())
	assert.Equal(t, "#ffffff", style["background-color"])
}

func TestColorScale(t *testing.T) {
	s, err := NewColorScale([]string{"#000000", "#ffffff"})
	require.NoError(t, err)
	assert.Equal(t, "#000000", s.At(-1))
	assert.Equal(t, "#808080", s.At(0.5))
	assert.Equal(t, "#ffffff", s.At(2))

	_, err = NewColorScale([]string{"nope"})
	assert.Error(t, err)
}
