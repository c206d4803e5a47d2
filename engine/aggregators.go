package engine

import (
	"errors"
	"math"
	"strings"

	"github.com/spektr-org/pivotgrid/format"
)

// ============================================================================
// AGGREGATORS — Group-level values by measure type
// ============================================================================
// count, count_distinct                      → integer sum of counts
// average, average_distinct, percent_of_total → mean
// max, min                                   → extremum
// anything else numeric (sum, ...)           → sum
// Non-numeric measure types cannot be aggregated and are reported.
// ============================================================================

var (
	// ErrUnsupportedType marks a measure type that has no numeric aggregate.
	ErrUnsupportedType = errors.New("unsupported measure type")
	// ErrUnsupportedValue marks a cell value that is not a scalar.
	ErrUnsupportedValue = errors.New("unsupported cell value")
)

var unsupportedTypes = map[string]bool{
	"string":   true,
	"date":     true,
	"time":     true,
	"yesno":    true,
	"list":     true,
	"location": true,
	"tier":     true,
	"zipcode":  true,
}

// SupportedType reports whether a measure type can be aggregated.
func SupportedType(measureType string) bool {
	return !unsupportedTypes[measureType] && !strings.HasPrefix(measureType, "date_")
}

// AggregateValues computes the raw aggregate of values. ok is false when no
// value parses as a number.
func AggregateValues(values []any, measureType string) (agg float64, ok bool, err error) {
	nums, err := numbers(values, measureType)
	if err != nil || len(nums) == 0 {
		return 0, false, err
	}
	return aggregateNumbers(nums, measureType), true, nil
}

// Aggregate computes and formats an aggregate. A nil result is the null
// marker (nothing to aggregate).
func Aggregate(values []any, measureType, valueFormat string) (*string, error) {
	nums, err := numbers(values, measureType)
	if err != nil || len(nums) == 0 {
		return nil, err
	}
	agg := aggregateNumbers(nums, measureType)

	var s string
	if valueFormat != "" {
		s = format.Parse(valueFormat)(agg)
	} else {
		s = format.Default(agg, nums)
	}
	return &s, nil
}

func numbers(values []any, measureType string) ([]float64, error) {
	if !SupportedType(measureType) {
		return nil, ErrUnsupportedType
	}
	nums := make([]float64, 0, len(values))
	for _, v := range values {
		if !format.Scalar(v) {
			return nil, ErrUnsupportedValue
		}
		if f, ok := format.Number(v); ok {
			nums = append(nums, f)
		}
	}
	return nums, nil
}

func aggregateNumbers(nums []float64, measureType string) float64 {
	switch measureType {
	case "count", "count_distinct":
		var total float64
		for _, n := range nums {
			total += math.Trunc(n)
		}
		return total
	case "average", "average_distinct", "percent_of_total":
		return sum(nums) / float64(len(nums))
	case "max":
		m := nums[0]
		for _, n := range nums[1:] {
			m = math.Max(m, n)
		}
		return m
	case "min":
		m := nums[0]
		for _, n := range nums[1:] {
			m = math.Min(m, n)
		}
		return m
	default:
		return sum(nums)
	}
}

func sum(nums []float64) float64 {
	var total float64
	for _, n := range nums {
		total += n
	}
	return total
}
