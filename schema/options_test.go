package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var revenueAndShare = []Field{
	{Name: "orders.revenue", Label: "Revenue"},
	{Name: "share", Label: "Share", IsTableCalculation: true},
}

func TestBuildOptionsPerField(t *testing.T) {
	opts := BuildOptions(revenueAndShare, DefaultConfig())

	for _, name := range []string{"orders.revenue", "share"} {
		assert.Contains(t, opts, "customLabel_"+name)
		assert.Contains(t, opts, "align_"+name)
		assert.Contains(t, opts, "fontFormat_"+name)
		assert.NotContains(t, opts, "selectedField_"+name)
	}
	assert.Equal(t, "Label: Revenue", opts["customLabel_orders.revenue"].Placeholder)

	cfg := DefaultConfig()
	cfg.ApplyTo = ApplyToSelectFields
	opts = BuildOptions(revenueAndShare, cfg)
	assert.Contains(t, opts, "selectedField_share")
}

func TestBuildOptionsIsPure(t *testing.T) {
	cfg := DefaultConfig()
	a := BuildOptions(revenueAndShare, cfg)
	b := BuildOptions(revenueAndShare, cfg)
	assert.Equal(t, a, b)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestBuildOptionsPalette(t *testing.T) {
	cfg := DefaultConfig()
	opts := BuildOptions(nil, cfg)
	require.Contains(t, opts, "midColor")
	assert.True(t, opts["lowColor"].Hidden)
	assert.True(t, opts["perColumnRange"].Hidden)

	cfg.FormattingPalette = PaletteRedWhite
	assert.NotContains(t, BuildOptions(nil, cfg), "midColor")

	cfg.FormattingPalette = PaletteCustom
	cfg.EnableConditionalFormatting = true
	opts = BuildOptions(nil, cfg)
	assert.False(t, opts["lowColor"].Hidden)
	assert.False(t, opts["perColumnRange"].Hidden)

	cfg.FormattingStyle = HighToLow
	opts = BuildOptions(nil, cfg)
	assert.Equal(t, "High", opts["lowColor"].Label)
	assert.Equal(t, "Low", opts["highColor"].Label)
}

func TestPaletteUpdates(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, map[string]any{
		"lowColor":  ColorRed,
		"midColor":  ColorYellow,
		"highColor": ColorGreen,
	}, PaletteUpdates(cfg))

	cfg.FormattingPalette = PaletteWhiteGreen
	assert.Equal(t, map[string]any{"lowColor": ColorWhite, "highColor": ColorGreen}, PaletteUpdates(cfg))

	cfg.FormattingPalette = PaletteCustom
	assert.Nil(t, PaletteUpdates(cfg))
}

func TestApplyPalette(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FormattingPalette = PaletteRedWhite
	cfg.MidColor = "#123456"
	cfg = cfg.ApplyPalette()
	assert.Equal(t, ColorRed, cfg.LowColor)
	assert.Empty(t, cfg.MidColor)
	assert.Equal(t, ColorWhite, cfg.HighColor)

	custom := DefaultConfig()
	custom.FormattingPalette = PaletteCustom
	custom.LowColor = "#000000"
	assert.Equal(t, "#000000", custom.ApplyPalette().LowColor)
}
