package schema

import (
	"strings"

	"github.com/spf13/cast"
)

// ============================================================================
// CONFIG — User-set visualization options
// ============================================================================
// The host hands over a flat map of option keys. Per-field options use a
// "<prefix>_<fieldName>" key (customLabel_, selectedField_, align_,
// fontFormat_). Values arrive loosely typed ("true", 12, "12"), so every read
// goes through cast.
// ============================================================================

// Conditional formatting targets.
const (
	FormattingAll             = "all"
	FormattingSubtotalsOnly   = "subtotals_only"
	FormattingNonSubtotalOnly = "non_subtotals_only"
)

// Field selection for conditional formatting.
const (
	ApplyToAllNumeric   = "all_numeric_fields"
	ApplyToSelectFields = "select_fields"
)

// Formatting directions.
const (
	LowToHigh = "low_to_high"
	HighToLow = "high_to_low"
)

// Per-field option key prefixes.
const (
	customLabelPrefix   = "customLabel_"
	selectedFieldPrefix = "selectedField_"
	alignPrefix         = "align_"
	fontFormatPrefix    = "fontFormat_"
)

// Config is the decoded option map.
type Config struct {
	ShowRowNumbers      bool `json:"showRowNumbers" yaml:"showRowNumbers"`
	TruncateColumnNames bool `json:"truncateColumnNames" yaml:"truncateColumnNames"`
	ShowFullFieldName   bool `json:"showFullFieldName" yaml:"showFullFieldName"`

	EnableConditionalFormatting bool   `json:"enableConditionalFormatting" yaml:"enableConditionalFormatting"`
	ConditionalFormattingType   string `json:"conditionalFormattingType" yaml:"conditionalFormattingType" jsonschema:"enum=all,enum=subtotals_only,enum=non_subtotals_only"`
	IncludeNullValuesAsZero     bool   `json:"includeNullValuesAsZero" yaml:"includeNullValuesAsZero"`
	ApplyTo                     string `json:"applyTo" yaml:"applyTo" jsonschema:"enum=all_numeric_fields,enum=select_fields"`
	FormattingStyle             string `json:"formattingStyle" yaml:"formattingStyle" jsonschema:"enum=low_to_high,enum=high_to_low"`
	FormattingPalette           string `json:"formattingPalette" yaml:"formattingPalette"`
	PerColumnRange              bool   `json:"perColumnRange" yaml:"perColumnRange"`
	LowColor                    string `json:"lowColor,omitempty" yaml:"lowColor,omitempty"`
	MidColor                    string `json:"midColor,omitempty" yaml:"midColor,omitempty"`
	HighColor                   string `json:"highColor,omitempty" yaml:"highColor,omitempty"`

	// PivotSeparator joins pivot key segments in pivot headers.
	PivotSeparator string `json:"pivotSeparator,omitempty" yaml:"pivotSeparator,omitempty"`

	CustomLabels   map[string]string `json:"customLabels,omitempty" yaml:"customLabels,omitempty"`
	SelectedFields map[string]bool   `json:"selectedFields,omitempty" yaml:"selectedFields,omitempty"`
	Alignments     map[string]string `json:"alignments,omitempty" yaml:"alignments,omitempty"`
	FontFormats    map[string]string `json:"fontFormats,omitempty" yaml:"fontFormats,omitempty"`
}

// DefaultConfig mirrors the option defaults.
func DefaultConfig() Config {
	return Config{
		ConditionalFormattingType: FormattingAll,
		ApplyTo:                   ApplyToAllNumeric,
		FormattingStyle:           LowToHigh,
		FormattingPalette:         PaletteRedYellowGreen,
		PerColumnRange:            true,
		PivotSeparator:            ", ",
		CustomLabels:              map[string]string{},
		SelectedFields:            map[string]bool{},
		Alignments:                map[string]string{},
		FontFormats:               map[string]string{},
	}
}

// ParseConfig decodes the host's flat option map. Unknown keys are ignored.
func ParseConfig(raw map[string]any) Config {
	cfg := DefaultConfig()
	for key, val := range raw {
		switch key {
		case "showRowNumbers":
			cfg.ShowRowNumbers = cast.ToBool(val)
		case "truncateColumnNames":
			cfg.TruncateColumnNames = cast.ToBool(val)
		case "showFullFieldName":
			cfg.ShowFullFieldName = cast.ToBool(val)
		case "enableConditionalFormatting":
			cfg.EnableConditionalFormatting = cast.ToBool(val)
		case "conditionalFormattingType":
			cfg.ConditionalFormattingType = nonEmpty(cast.ToString(val), cfg.ConditionalFormattingType)
		case "includeNullValuesAsZero":
			cfg.IncludeNullValuesAsZero = cast.ToBool(val)
		case "applyTo":
			cfg.ApplyTo = nonEmpty(cast.ToString(val), cfg.ApplyTo)
		case "formattingStyle":
			cfg.FormattingStyle = nonEmpty(cast.ToString(val), cfg.FormattingStyle)
		case "formattingPalette":
			cfg.FormattingPalette = nonEmpty(cast.ToString(val), cfg.FormattingPalette)
		case "perColumnRange":
			cfg.PerColumnRange = cast.ToBool(val)
		case "lowColor":
			cfg.LowColor = cast.ToString(val)
		case "midColor":
			cfg.MidColor = cast.ToString(val)
		case "highColor":
			cfg.HighColor = cast.ToString(val)
		case "pivotSeparator":
			cfg.PivotSeparator = nonEmpty(cast.ToString(val), cfg.PivotSeparator)
		default:
			parseFieldOption(&cfg, key, val)
		}
	}
	return cfg
}

func parseFieldOption(cfg *Config, key string, val any) {
	switch {
	case strings.HasPrefix(key, customLabelPrefix):
		if label := cast.ToString(val); label != "" {
			cfg.CustomLabels[strings.TrimPrefix(key, customLabelPrefix)] = label
		}
	case strings.HasPrefix(key, selectedFieldPrefix):
		cfg.SelectedFields[strings.TrimPrefix(key, selectedFieldPrefix)] = cast.ToBool(val)
	case strings.HasPrefix(key, alignPrefix):
		cfg.Alignments[strings.TrimPrefix(key, alignPrefix)] = cast.ToString(val)
	case strings.HasPrefix(key, fontFormatPrefix):
		cfg.FontFormats[strings.TrimPrefix(key, fontFormatPrefix)] = cast.ToString(val)
	}
}

func nonEmpty(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// ConditionalFormattingApplies reports whether cells of the given kind get a
// color-scale background.
func (c Config) ConditionalFormattingApplies(subtotal bool) bool {
	if !c.EnableConditionalFormatting {
		return false
	}
	switch c.ConditionalFormattingType {
	case FormattingNonSubtotalOnly:
		return !subtotal
	case FormattingSubtotalsOnly:
		return subtotal
	default:
		return true
	}
}
