package engine

import (
	"github.com/spektr-org/pivotgrid/schema"
)

// ============================================================================
// TEST FIXTURES
// ============================================================================

func flat(v any) schema.Entry {
	return schema.Flat{Cell: schema.Cell{Value: v}}
}

func rendered(v any, text string) schema.Entry {
	return schema.Flat{Cell: schema.Cell{Value: v, Rendered: &text}}
}

// salesResponse: two dimensions, one summed measure.
func salesResponse() *schema.QueryResponse {
	return &schema.QueryResponse{
		Fields: schema.Fields{
			Dimensions: []schema.Field{
				{Name: "region", Label: "Orders Region", LabelShort: "Region", Category: "dimension"},
				{Name: "product", Label: "Orders Product", LabelShort: "Product", Category: "dimension"},
			},
			Measures: []schema.Field{
				{Name: "revenue", Label: "Orders Revenue", LabelShort: "Revenue", Category: "measure", Type: "sum"},
			},
		},
	}
}

func salesRows() []schema.Row {
	return []schema.Row{
		{"region": flat("EU"), "product": flat("A"), "revenue": flat(10.0)},
		{"region": flat("EU"), "product": flat("B"), "revenue": flat(20.0)},
		{"region": flat("US"), "product": flat("A"), "revenue": flat(30.0)},
	}
}

// pivotResponse: one dimension, revenue and a table calculation pivoted by
// year.
func pivotResponse() *schema.QueryResponse {
	return &schema.QueryResponse{
		Fields: schema.Fields{
			Dimensions: []schema.Field{{Name: "region", Label: "Region"}},
			Measures:   []schema.Field{{Name: "revenue", Label: "Revenue", Type: "sum", ValueFormat: "$#,##0"}},
			Pivots:     []schema.Field{{Name: "year", Label: "Year"}},
			TableCalculations: []schema.Field{
				{Name: "share", Label: "Share", ValueFormat: "0.0%"},
			},
		},
		Pivots: []schema.Pivot{
			{Key: "2023"},
			{Key: "2024"},
		},
	}
}

func pivotRows() []schema.Row {
	return []schema.Row{
		{
			"region":  flat("EU"),
			"revenue": schema.Pivoted{"2023": {Value: 10.0}, "2024": {Value: 20.0}},
			"share":   schema.Pivoted{"2023": {Value: 0.25}, "2024": {Value: 0.5}},
		},
		{
			"region":  flat("US"),
			"revenue": schema.Pivoted{"2023": {Value: 40.0}},
			"share":   schema.Pivoted{"2023": {Value: 0.75}},
		},
	}
}

func formattingConfig() schema.Config {
	cfg := schema.DefaultConfig()
	cfg.EnableConditionalFormatting = true
	return cfg
}
