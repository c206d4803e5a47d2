// Package format turns value-format strings ("$#,##0.00", "0.0%") into
// number formatters and parses loosely formatted numbers back.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders a number.
type Formatter func(float64) string

// Spec is a parsed value-format string.
type Spec struct {
	Symbol    string // "$", "£", "€" or empty
	Thousands bool
	Decimals  int
	Percent   bool
}

var printer = message.NewPrinter(language.English)

// ParseSpec reads a value-format string. Decimal places are the length of the
// text after the first '.'.
func ParseSpec(valueFormat string) Spec {
	var s Spec
	switch {
	case strings.HasPrefix(valueFormat, "$"):
		s.Symbol = "$"
	case strings.HasPrefix(valueFormat, "£"):
		s.Symbol = "£"
	case strings.HasPrefix(valueFormat, "€"):
		s.Symbol = "€"
	}
	s.Thousands = strings.Contains(valueFormat, ",")
	if i := strings.Index(valueFormat, "."); i >= 0 {
		frac := strings.TrimSuffix(valueFormat[i+1:], "%")
		s.Decimals = len(frac)
	}
	s.Percent = strings.HasSuffix(valueFormat, "%")
	return s
}

// Parse returns the formatter for a value-format string. An empty format
// renders the shortest exact representation.
func Parse(valueFormat string) Formatter {
	if valueFormat == "" {
		return func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ParseSpec(valueFormat).Format
}

// Format renders v according to the spec.
func (s Spec) Format(v float64) string {
	if s.Percent {
		v *= 100
	}
	negative := v < 0
	if negative {
		v = -v
	}

	num := renderNumber(v, s.Decimals, s.Thousands)
	out := num
	if s.Symbol != "" {
		// Render with '$' and swap the literal symbol in afterwards; the
		// locale printer only knows the dollar sign.
		out = strings.Replace("$"+num, "$", s.Symbol, 1)
	}
	if s.Percent {
		out += "%"
	}
	if negative && strings.Trim(num, "0.,") != "" {
		out = "-" + out
	}
	return out
}

// renderNumber rounds halves away from zero before handing v to the locale
// printer, which would otherwise round them to even.
func renderNumber(v float64, decimals int, grouping bool) string {
	v, _ = decimal.NewFromFloat(v).Round(int32(decimals)).Float64()
	opts := []number.Option{
		number.MinFractionDigits(decimals),
		number.MaxFractionDigits(decimals),
	}
	if !grouping {
		opts = append(opts, number.NoSeparator())
	}
	return printer.Sprint(number.Decimal(v, opts...))
}

// Grouped renders a whole number with thousands separators.
func Grouped(v float64) string {
	return renderNumber(math.Round(v), 0, true)
}

// Default renders an aggregate when the field has no value format. Whole
// numbers are grouped integers; fractions keep as many decimals as the first
// raw value, or round to a grouped integer when that value has none.
func Default(agg float64, values []float64) string {
	if agg == math.Trunc(agg) {
		return Grouped(agg)
	}
	digits := 0
	if len(values) > 0 {
		first := strconv.FormatFloat(values[0], 'f', -1, 64)
		if i := strings.Index(first, "."); i >= 0 {
			digits = len(first) - i - 1
		}
	}
	d := decimal.NewFromFloat(agg)
	if digits > 0 {
		return d.StringFixed(int32(digits))
	}
	f, _ := d.Round(0).Float64()
	return Grouped(f)
}
