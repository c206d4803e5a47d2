package schema

import "sort"

// ============================================================================
// OPTIONS SCHEMA — What the host's settings panel shows
// ============================================================================
// Computed fresh from the current fields and config on every update. The
// static part never changes; per-field entries follow the query shape.
// ============================================================================

// Palettes.
const (
	PaletteRedYellowGreen = "red_yellow_green"
	PaletteRedWhiteGreen  = "red_white_green"
	PaletteRedWhite       = "red_white"
	PaletteWhiteGreen     = "white_green"
	PaletteCustom         = "custom"
)

// Default palette colors.
const (
	ColorRed    = "#F36254"
	ColorGreen  = "#4FBC89"
	ColorYellow = "#FCF758"
	ColorWhite  = "#FFFFFF"
)

// Option is one entry of the settings panel.
type Option struct {
	Type        string              `json:"type"`
	Label       string              `json:"label"`
	Section     string              `json:"section,omitempty"`
	Display     string              `json:"display,omitempty"`
	DisplaySize string              `json:"display_size,omitempty"`
	Placeholder string              `json:"placeholder,omitempty"`
	Default     any                 `json:"default,omitempty"`
	Order       int                 `json:"order,omitempty"`
	Values      []map[string]string `json:"values,omitempty"`
	Hidden      bool                `json:"hidden,omitempty"`
}

// Options maps option keys to their definitions.
type Options map[string]Option

// Keys returns the option keys sorted.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func baseOptions() Options {
	return Options{
		// FORMATTING
		"enableConditionalFormatting": {Type: "boolean", Label: "Enable Conditional Formatting", Section: "Formatting", Order: 1, Default: false},
		"perColumnRange":              {Type: "boolean", Label: "Per column range", Section: "Formatting", Order: 2, Default: true, Hidden: true},
		"conditionalFormattingType": {Type: "string", Label: "Formatting Type", Section: "Formatting", Display: "select", Order: 3, Default: FormattingAll,
			Values: []map[string]string{{"All": FormattingAll}, {"Subtotals only": FormattingSubtotalsOnly}, {"Non-subtotals only": FormattingNonSubtotalOnly}}},
		"includeNullValuesAsZero": {Type: "boolean", Label: "Include Null Values as Zero", Section: "Formatting", Order: 4, Default: false},
		"formattingStyle": {Type: "string", Label: "Format", Section: "Formatting", Display: "select", Order: 5, Default: LowToHigh,
			Values: []map[string]string{{"From low to high": LowToHigh}, {"From high to low": HighToLow}}},
		"formattingPalette": {Type: "string", Label: "Palette", Section: "Formatting", Display: "select", Order: 6, Default: PaletteRedYellowGreen,
			Values: []map[string]string{
				{"Red to Yellow to Green": PaletteRedYellowGreen},
				{"Red to White to Green": PaletteRedWhiteGreen},
				{"Red to White": PaletteRedWhite},
				{"White to Green": PaletteWhiteGreen},
				{"Custom...": PaletteCustom},
			}},
		"lowColor":  {Type: "string", Label: "Low", Section: "Formatting", Display: "color", DisplaySize: "third", Order: 7},
		"midColor":  {Type: "string", Label: "Middle", Section: "Formatting", Display: "color", DisplaySize: "third", Order: 8},
		"highColor": {Type: "string", Label: "High", Section: "Formatting", Display: "color", DisplaySize: "third", Order: 9},
		"applyTo": {Type: "string", Label: "Apply to", Section: "Formatting", Display: "select", Order: 10, Default: ApplyToAllNumeric,
			Values: []map[string]string{{"All numeric fields": ApplyToAllNumeric}, {"Select fields...": ApplyToSelectFields}}},
		// SERIES
		"truncateColumnNames": {Type: "boolean", Label: "Truncate Column Names", Section: "Series", Order: 1, Default: false},
		"showFullFieldName":   {Type: "boolean", Label: "Show Full Field Name", Section: "Series", Order: 2, Default: false},
		// PLOT
		"showRowNumbers": {Type: "boolean", Label: "Show Row Numbers", Section: "Plot", Order: 2, Default: false},
	}
}

// BuildOptions returns the settings panel for the given measure-like fields.
func BuildOptions(measureLike []Field, cfg Config) Options {
	opts := baseOptions()

	for _, f := range measureLike {
		opts[customLabelPrefix+f.Name] = Option{
			Type: "string", Label: f.Label, Section: "Series", Display: "text",
			Placeholder: "Label: " + f.Label,
		}
		opts[alignPrefix+f.Name] = Option{
			Type: "string", Label: "Text-align: " + f.Label, Section: "Config", Display: "select", Default: "left",
			Values: []map[string]string{{"Left": "left"}, {"Center": "center"}, {"Right": "right"}},
		}
		opts[fontFormatPrefix+f.Name] = Option{
			Type: "string", Label: "Format: " + f.Label, Section: "Config", Display: "select", Default: "none",
			Values: []map[string]string{{"None": "none"}, {"Bold": "bold"}, {"Italic": "italic"}, {"Underline": "underline"}, {"Strikethrough": "strikethrough"}},
		}
		if cfg.ApplyTo == ApplyToSelectFields {
			opts[selectedFieldPrefix+f.Name] = Option{
				Type: "boolean", Label: f.Label, Section: "Formatting", Default: false,
			}
		}
	}

	// Two-color palettes have no middle stop.
	if cfg.FormattingPalette == PaletteRedWhite || cfg.FormattingPalette == PaletteWhiteGreen {
		delete(opts, "midColor")
	}

	showColors := cfg.FormattingPalette == PaletteCustom
	for _, key := range []string{"lowColor", "midColor", "highColor"} {
		if o, ok := opts[key]; ok {
			o.Hidden = !showColors
			opts[key] = o
		}
	}

	pcr := opts["perColumnRange"]
	pcr.Hidden = !cfg.EnableConditionalFormatting
	opts["perColumnRange"] = pcr

	if cfg.FormattingStyle == HighToLow {
		low, high := opts["lowColor"], opts["highColor"]
		low.Label, high.Label = "High", "Low"
		opts["lowColor"], opts["highColor"] = low, high
	}

	return opts
}

// PaletteColors returns the low/mid/high colors of a preset palette. Mid is
// empty for two-color palettes; ok is false for custom or unknown palettes.
func PaletteColors(palette string) (low, mid, high string, ok bool) {
	switch palette {
	case PaletteRedYellowGreen:
		return ColorRed, ColorYellow, ColorGreen, true
	case PaletteRedWhiteGreen:
		return ColorRed, ColorWhite, ColorGreen, true
	case PaletteRedWhite:
		return ColorRed, "", ColorWhite, true
	case PaletteWhiteGreen:
		return ColorWhite, "", ColorGreen, true
	default:
		return "", "", "", false
	}
}

// PaletteUpdates returns the config values the host should apply so the color
// pickers reflect a preset palette. Nil for custom palettes.
func PaletteUpdates(cfg Config) map[string]any {
	low, mid, high, ok := PaletteColors(cfg.FormattingPalette)
	if !ok {
		return nil
	}
	updates := map[string]any{"lowColor": low, "highColor": high}
	if mid != "" {
		updates["midColor"] = mid
	}
	return updates
}

// ApplyPalette fills the config colors from its preset palette.
func (c Config) ApplyPalette() Config {
	if low, mid, high, ok := PaletteColors(c.FormattingPalette); ok {
		c.LowColor, c.MidColor, c.HighColor = low, mid, high
	}
	return c
}
