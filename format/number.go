package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cast"
)

var numberNoise = strings.NewReplacer("$", "", "£", "", "€", "", ",", "", " ", "", " ", "")

// Number extracts a numeric value from a raw cell value. Formatted strings
// ("$1,234.50", "25%") and HTML fragments are accepted; anything else that
// does not read as a number, including NaN and infinities, reports ok=false.
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case string:
		return parseText(t)
	case bool:
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || !finite(f) {
		return 0, false
	}
	return f, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Scalar reports whether v is a value kind a cell may legitimately carry.
func Scalar(v any) bool {
	switch v.(type) {
	case nil, string, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func parseText(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<") {
		s = strings.TrimSpace(TextContent(s))
	}
	if s == "" {
		return 0, false
	}

	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")
	negative := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	if negative {
		s = s[1 : len(s)-1]
	}
	s = numberNoise.Replace(s)

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(f) {
		return 0, false
	}
	if percent {
		f /= 100
	}
	if negative {
		f = -f
	}
	return f, true
}

// TextContent returns the text of an HTML fragment, or the input itself when
// it cannot be parsed.
func TextContent(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return doc.Text()
}
