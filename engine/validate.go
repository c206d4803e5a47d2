package engine

import (
	"fmt"
	"strings"

	"github.com/spektr-org/pivotgrid/schema"
)

// ============================================================================
// VALIDATION — Shape checks run before anything is planned
// ============================================================================

// Error groups, so the host can clear one class of error at a time.
const (
	GroupShape     = "shape"
	GroupPivotReq  = "pivot-req"
	GroupDimReq    = "dim-req"
	GroupMesReq    = "mes-req"
	GroupAggregate = "aggregate"
)

// ValidateShape returns the shape errors of a response: no dimensions, or
// pivots with nothing to pivot.
func ValidateShape(resp *schema.QueryResponse) []VisError {
	if resp == nil || len(resp.Fields.Dimensions) == 0 {
		return []VisError{{
			Group:   GroupShape,
			Title:   "No Dimensions",
			Message: "This chart requires dimensions.",
		}}
	}
	if resp.HasPivots() && len(resp.Fields.Measures) == 0 && len(resp.Fields.TableCalculations) == 0 {
		return []VisError{{
			Group:   GroupShape,
			Title:   "Empty Pivot(s)",
			Message: "Add a measure or table calculation to pivot on.",
		}}
	}
	return nil
}

// Bound limits a field count. Max < 0 means unbounded.
type Bound struct {
	Min int
	Max int
}

// Unbounded accepts any count.
var Unbounded = Bound{Min: 0, Max: -1}

// Requirements limits how many pivots, dimensions and measures a
// visualization accepts.
type Requirements struct {
	Pivots     Bound
	Dimensions Bound
	Measures   Bound
}

// DefaultRequirements accepts any shape.
func DefaultRequirements() Requirements {
	return Requirements{Pivots: Unbounded, Dimensions: Unbounded, Measures: Unbounded}
}

// Check reports the first violated requirement, pivots first.
func (r Requirements) Check(resp *schema.QueryResponse) []VisError {
	if resp == nil {
		return nil
	}
	checks := []struct {
		group string
		noun  string
		count int
		b     Bound
	}{
		{GroupPivotReq, "Pivot", len(resp.Fields.Pivots), r.Pivots},
		{GroupDimReq, "Dimension", len(resp.Fields.Dimensions), r.Dimensions},
		{GroupMesReq, "Measure", len(resp.Fields.MeasureLike()), r.Measures},
	}
	for _, c := range checks {
		if e, ok := checkBound(c.group, c.noun, c.count, c.b); !ok {
			return []VisError{e}
		}
	}
	return nil
}

func checkBound(group, noun string, count int, b Bound) (VisError, bool) {
	plural := "s"
	if b.Min == 1 {
		plural = ""
	}
	qualifier := func(open string) string {
		if b.Min == b.Max {
			return "exactly"
		}
		return open
	}
	switch {
	case count < b.Min:
		return VisError{
			Group:   group,
			Title:   fmt.Sprintf("Not Enough %ss", noun),
			Message: fmt.Sprintf("This visualization requires %s %d %s%s.", qualifier("at least"), b.Min, strings.ToLower(noun), plural),
		}, false
	case b.Max >= 0 && count > b.Max:
		return VisError{
			Group:   group,
			Title:   fmt.Sprintf("Too Many %ss", noun),
			Message: fmt.Sprintf("This visualization requires %s %d %s%s.", qualifier("no more than"), b.Max, strings.ToLower(noun), plural),
		}, false
	}
	return VisError{}, true
}
