package engine

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/spektr-org/pivotgrid/format"
	"github.com/spektr-org/pivotgrid/schema"
)

// ============================================================================
// CELL STYLE — Alignment, font format, conditional background color
// ============================================================================

// CellStyle computes the CSS-like style of one cell. Only measure-like
// columns are styled.
func CellStyle(col Column, value *DisplayValue, subtotal bool, cfg schema.Config, rng *Range) map[string]string {
	style := make(map[string]string)
	measure := measureName(col)
	if measure == "" {
		return style
	}

	if align, ok := cfg.Alignments[measure]; ok && align != "" {
		style["text-align"] = align
	}
	switch cfg.FontFormats[measure] {
	case "bold":
		style["font-weight"] = "800"
	case "italic":
		style["font-style"] = "italic"
	case "underline":
		style["text-decoration"] = "underline"
	case "strikethrough":
		style["text-decoration"] = "line-through"
	}

	if color, ok := backgroundColor(col.Key(), measure, value, subtotal, cfg, rng); ok {
		style["background-color"] = color
	}
	return style
}

func backgroundColor(key, measure string, value *DisplayValue, subtotal bool, cfg schema.Config, rng *Range) (string, bool) {
	if !cfg.ConditionalFormattingApplies(subtotal) {
		return "", false
	}
	if !rng.HasKey(measure) && !rng.HasKey(key) {
		return "", false
	}
	bounds := rng.For(key, cfg.PerColumnRange)
	if bounds == nil {
		return "", false
	}

	v, ok := displayNumber(value)
	if !ok {
		if !cfg.IncludeNullValuesAsZero {
			return "", false
		}
		v = 0
	}
	n, ok := Normalize(v, *bounds)
	if !ok {
		if !cfg.IncludeNullValuesAsZero {
			return "", false
		}
		n = 0
	}

	scale, err := NewColorScale(paletteStops(cfg))
	if err != nil {
		return "", false
	}
	return scale.At(n), true
}

func displayNumber(v *DisplayValue) (float64, bool) {
	if v == nil {
		return 0, false
	}
	if f, ok := format.Number(v.Raw); ok {
		return f, true
	}
	return format.Number(v.Text)
}

func measureName(col Column) string {
	switch c := col.(type) {
	case MeasureColumn:
		return c.Field.Name
	case TableCalcColumn:
		return c.Field.Name
	case PivotChildColumn:
		return c.Field.Name
	default:
		return ""
	}
}

func paletteStops(cfg schema.Config) []string {
	cfg = cfg.ApplyPalette()
	stops := make([]string, 0, 3)
	for _, c := range []string{cfg.LowColor, cfg.MidColor, cfg.HighColor} {
		if c != "" {
			stops = append(stops, c)
		}
	}
	if cfg.FormattingStyle == schema.HighToLow {
		for i, j := 0, len(stops)-1; i < j; i, j = i+1, j-1 {
			stops[i], stops[j] = stops[j], stops[i]
		}
	}
	return stops
}

// ============================================================================
// COLOR SCALE
// ============================================================================

// ColorScale interpolates linearly in RGB between evenly spaced stops.
type ColorScale struct {
	stops []colorful.Color
}

// NewColorScale parses hex color stops.
func NewColorScale(hexes []string) (*ColorScale, error) {
	s := &ColorScale{}
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, err
		}
		s.stops = append(s.stops, c)
	}
	if len(s.stops) == 0 {
		s.stops = []colorful.Color{{R: 1, G: 1, B: 1}}
	}
	return s, nil
}

// At returns the hex color at t in [0, 1]; t is clamped.
func (s *ColorScale) At(t float64) string {
	if len(s.stops) == 1 {
		return s.stops[0].Hex()
	}
	t = math.Max(0, math.Min(1, t))
	segments := float64(len(s.stops) - 1)
	pos := t * segments
	i := int(math.Floor(pos))
	if i >= len(s.stops)-1 {
		i = len(s.stops) - 2
	}
	return s.stops[i].BlendRgb(s.stops[i+1], pos-float64(i)).Clamped().Hex()
}
