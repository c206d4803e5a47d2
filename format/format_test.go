package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpec(t *testing.T) {
	s := ParseSpec("$#,##0.00")
	assert.Equal(t, Spec{Symbol: "$", Thousands: true, Decimals: 2}, s)

	s = ParseSpec("0.0%")
	assert.Equal(t, Spec{Decimals: 1, Percent: true}, s)

	s = ParseSpec("€0")
	assert.Equal(t, Spec{Symbol: "€"}, s)
}

func TestFormat(t *testing.T) {
	cases := []struct {
		spec string
		in   float64
		want string
	}{
		{"$#,##0.00", 1234.5, "$1,234.50"},
		{"0.0%", 0.256, "25.6%"},
		{"€#,##0.00", 10, "€10.00"},
		{"£#,##0", 1234567, "£1,234,567"},
		{"0.00", 1234.5, "1234.50"},
		{"#,##0", 999.6, "1,000"},
		{"$#,##0.00", -42.1, "-$42.10"},
		{"$#,##0", 2.5, "$3"},
		{"$#,##0", 3.5, "$4"},
		{"0.0", 0.25, "0.3"},
		{"$#,##0", -2.5, "-$3"},
	}
	for _, c := range cases {
		t.Run(c.spec+"/"+c.want, func(t *testing.T) {
			assert.Equal(t, c.want, Parse(c.spec)(c.in))
		})
	}
}

func TestFormatEuroNeverLeaksDollar(t *testing.T) {
	out := Parse("€#,##0.00")(1500)
	assert.NotContains(t, out, "$")
	assert.Equal(t, "€1,500.00", out)
}

func TestParseEmptyIsPlain(t *testing.T) {
	f := Parse("")
	assert.Equal(t, "12.5", f(12.5))
	assert.Equal(t, "3", f(3))
}

func TestFormattedAndDefaultRoundAlike(t *testing.T) {
	assert.Equal(t, Default(2.5, []float64{1}), Parse("#,##0")(2.5))
}

func TestDefault(t *testing.T) {
	assert.Equal(t, "1,234", Default(1234, []float64{1000, 234}))
	assert.Equal(t, "2.50", Default(2.5, []float64{1.25, 3.75}))
	assert.Equal(t, "3", Default(2.5, []float64{1, 2, 3, 4}))
}

func TestNumber(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{12.5, 12.5, true},
		{7, 7, true},
		{"1,234.50", 1234.5, true},
		{"$10", 10, true},
		{"€1.5", 1.5, true},
		{"25%", 0.25, true},
		{"(3)", -3, true},
		{`<a href="/x">42</a>`, 42, true},
		{"", 0, false},
		{"n/a", 0, false},
		{nil, 0, false},
		{true, 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"-Infinity", 0, false},
		{math.Inf(1), 0, false},
		{math.NaN(), 0, false},
	}
	for _, c := range cases {
		got, ok := Number(c.in)
		require.Equal(t, c.ok, ok, "input %v", c.in)
		if ok {
			assert.InDelta(t, c.want, got, 1e-9, "input %v", c.in)
		}
	}
}

func TestScalar(t *testing.T) {
	assert.True(t, Scalar(nil))
	assert.True(t, Scalar("x"))
	assert.True(t, Scalar(1.5))
	assert.False(t, Scalar(map[string]any{}))
	assert.False(t, Scalar(true))
}
