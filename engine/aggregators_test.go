package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateValues(t *testing.T) {
	cases := []struct {
		name        string
		measureType string
		values      []any
		want        float64
	}{
		{"average", "average", []any{1, 2, 3, 4}, 2.5},
		{"count sums counts", "count", []any{"1", "2", "3"}, 6},
		{"count truncates", "count_distinct", []any{1.9, 2.2}, 3},
		{"max", "max", []any{5, 2, 9}, 9},
		{"min", "min", []any{5, 2, 9}, 2},
		{"sum", "sum", []any{1.5, 2.5}, 4},
		{"unknown types sum", "number", []any{1, 2}, 3},
		{"percent of total averages", "percent_of_total", []any{0.2, 0.4}, 0.3},
		{"skips non-numeric", "sum", []any{1, nil, "n/a", 2}, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok, err := AggregateValues(c.values, c.measureType)
			require.NoError(t, err)
			require.True(t, ok)
			assert.InDelta(t, c.want, got, 1e-9)
		})
	}
}

func TestAggregateEmptyIsNull(t *testing.T) {
	s, err := Aggregate(nil, "sum", "")
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = Aggregate([]any{nil, "x"}, "sum", "")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestAggregateFormats(t *testing.T) {
	s, err := Aggregate([]any{1000.5, 234}, "sum", "$#,##0.00")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "$1,234.50", *s)

	s, err = Aggregate([]any{1, 2, 3, 4}, "average", "")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "3", *s)

	s, err = Aggregate([]any{"$1,000", "$500"}, "sum", "")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "1,500", *s)
}

func TestAggregateUnsupported(t *testing.T) {
	for _, typ := range []string{"string", "date", "date_month", "yesno", "zipcode"} {
		_, err := Aggregate([]any{1}, typ, "")
		assert.ErrorIs(t, err, ErrUnsupportedType, typ)
		assert.False(t, SupportedType(typ), typ)
	}

	_, err := Aggregate([]any{[]int{1}}, "sum", "")
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}
