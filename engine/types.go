package engine

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/spektr-org/pivotgrid/schema"
)

// ============================================================================
// PIVOTGRID ENGINE TYPES
// ============================================================================
// Column plan variants, materialized rows, and the render-ready Result.
// Column kinds form a closed set; the materializer and the styler switch on
// the concrete type instead of comparing tag strings.
// ============================================================================

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Kind identifies a column variant.
type Kind int

const (
	KindDefault Kind = iota // dimension
	KindMeasure
	KindTableCalculation
	KindPivot
	KindPivotChild
	KindRowNumber
)

func (k Kind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindMeasure:
		return "measure"
	case KindTableCalculation:
		return "table_calculation"
	case KindPivot:
		return "pivot"
	case KindPivotChild:
		return "pivotChild"
	case KindRowNumber:
		return "row"
	default:
		return "unknown"
	}
}

// Column is one entry of the column plan.
type Column interface {
	Key() string
	Kind() Kind
	Def() ColumnDef
	isColumn()
}

// ColumnDef is the renderer-facing description of a column.
type ColumnDef struct {
	Field           string      `json:"field,omitempty"`
	HeaderName      string      `json:"headerName"`
	ColType         string      `json:"colType"`
	CellClass       string      `json:"cellClass,omitempty"`
	RowGroup        bool        `json:"rowGroup"`
	Hide            bool        `json:"hide,omitempty"`
	Sortable        bool        `json:"sortable"`
	Resizable       bool        `json:"resizable"`
	Width           int         `json:"width,omitempty"`
	Measure         string      `json:"measure,omitempty"`
	PivotKey        string      `json:"pivotKey,omitempty"`
	ColumnGroupShow string      `json:"columnGroupShow,omitempty"`
	Children        []ColumnDef `json:"children,omitempty"`
}

// ============================================================================
// MATERIALIZED ROWS
// ============================================================================

// DisplayKind tells how a display value should be rendered.
type DisplayKind int

const (
	DisplayText DisplayKind = iota
	DisplayHTML
	DisplayLink
)

// DisplayValue is one materialized cell. A nil *DisplayValue is the null
// marker.
type DisplayValue struct {
	Text  string
	Raw   any
	Kind  DisplayKind
	Links []schema.Link
}

// MarshalJSON renders the display text.
func (d DisplayValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Text)
}

// FlatRow maps column keys to display values.
type FlatRow map[string]*DisplayValue

// ============================================================================
// RESULT
// ============================================================================

// VisError is a problem reported to the host's error panel. It never aborts
// the process; the pass that produced it renders nothing.
type VisError struct {
	Group   string `json:"group,omitempty"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (e VisError) Error() string {
	return e.Title + ": " + e.Message
}

// Result is the render-ready output of one update pass.
type Result struct {
	Success         bool           `json:"success"`
	Columns         []ColumnDef    `json:"columns,omitempty"`
	AutoGroupColumn string         `json:"autoGroupColumn,omitempty"`
	Rows            []FlatRow      `json:"rows,omitempty"`
	Subtotals       *Subtotals     `json:"subtotals,omitempty"`
	Range           *Range         `json:"range,omitempty"`
	NullText        string         `json:"nullText,omitempty"`
	Options         schema.Options `json:"options,omitempty"`
	ConfigUpdates   map[string]any `json:"configUpdates,omitempty"`
	Errors          []VisError     `json:"errors,omitempty"`

	Plan *Plan `json:"-"`
}
