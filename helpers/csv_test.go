package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/pivotgrid/schema"
)

var salesCSV = []byte(`Region,Product,Year,Revenue
EU,Widget,2023,10.50
EU,Gadget,2023,20.00
EU,Widget,2024,12.25
US,Widget,2023,30.00
US,Widget,2023,5.00
US,Gadget,2024,
`)

func TestParseCSVFlat(t *testing.T) {
	ds, err := ParseCSV(salesCSV, CSVOptions{Discover: schema.DiscoverOptions{ForceDimension: []string{"Year"}}})
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "product", "year"}, fieldNames(ds.Response.Fields.Dimensions))
	assert.Equal(t, []string{"revenue"}, fieldNames(ds.Response.Fields.Measures))
	assert.False(t, ds.Response.HasPivots())
	require.Len(t, ds.Rows, 6)

	cell, ok := ds.Rows[0].Cell("revenue", "")
	require.True(t, ok)
	assert.Equal(t, 10.5, cell.Value)

	cell, ok = ds.Rows[5].Cell("revenue", "")
	require.True(t, ok)
	assert.True(t, cell.IsEmpty())

	cell, _ = ds.Rows[3].Cell("region", "")
	assert.Equal(t, "US", cell.Value)
}

func TestParseCSVPivot(t *testing.T) {
	ds, err := ParseCSV(salesCSV, CSVOptions{
		Discover: schema.DiscoverOptions{ForceDimension: []string{"Year"}},
		PivotOn:  "Year",
	})
	require.NoError(t, err)

	resp := ds.Response
	assert.Equal(t, []string{"region", "product"}, fieldNames(resp.Fields.Dimensions))
	assert.Equal(t, []string{"year"}, fieldNames(resp.Fields.Pivots))
	require.Len(t, resp.Pivots, 2)
	assert.Equal(t, "2023", resp.Pivots[0].Key)
	assert.Equal(t, "2024", resp.Pivots[1].Key)

	// EU/Widget, EU/Gadget, US/Widget, US/Gadget
	require.Len(t, ds.Rows, 4)

	cell, ok := ds.Rows[0].Cell("revenue", "2024")
	require.True(t, ok)
	assert.Equal(t, 12.25, cell.Value)

	cell, ok = ds.Rows[2].Cell("revenue", "2023")
	require.True(t, ok)
	assert.Equal(t, 35.0, cell.Value, "repeated pairs are summed")

	_, ok = ds.Rows[1].Cell("revenue", "2024")
	assert.False(t, ok)
}

func TestParseCSVPivotUnknown(t *testing.T) {
	_, err := ParseCSV(salesCSV, CSVOptions{PivotOn: "Revenue"})
	assert.ErrorContains(t, err, "not a dimension")
}

func fieldNames(fields []schema.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}
