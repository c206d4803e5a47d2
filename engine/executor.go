package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/spektr-org/pivotgrid/schema"
)

// ============================================================================
// EXECUTOR — One visualization instance and its update pass
// ============================================================================
// Entry point: Visualization.Update(ctx, resp, rows, cfg)
//
// Pipeline:
//   1. Build the options schema for the current fields
//   2. Sync field selections into the instance state
//   3. Validate shape (abort with errors, keep the previous result)
//   4. Compute conditional-formatting ranges
//   5. Plan columns
//   6. Materialize rows
//   7. Subtotals (grouped plans), folded into the ranges when formatting
//      applies to subtotal cells
//   8. Return the Result and remember it
//
// Problems with the query shape are reported in Result.Errors, never as a
// Go error; the error return is reserved for a cancelled context.
// ============================================================================

// Visualization is one plugin instance. It is safe for concurrent use; calls
// are serialized.
type Visualization struct {
	mu    sync.Mutex
	cfg   *config
	log   *slog.Logger
	state State
}

// New creates a visualization instance.
func New(opts ...Option) *Visualization {
	cfg := applyOptions(opts)
	return &Visualization{
		cfg: cfg,
		log: cfg.Logger.With("instance", cfg.ID),
	}
}

// ID returns the instance id.
func (v *Visualization) ID() string {
	return v.cfg.ID
}

// State returns a copy of the instance state.
func (v *Visualization) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.state
	s.SelectedFields = append([]string(nil), v.state.SelectedFields...)
	return s
}

// Last returns the last successful result, or nil.
func (v *Visualization) Last() *Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Last
}

// UpdateAsync runs an update pass and reports through done instead of a
// return value.
func (v *Visualization) UpdateAsync(ctx context.Context, resp *schema.QueryResponse, rows []schema.Row, cfg schema.Config, done func(*Result, error)) {
	res, err := v.Update(ctx, resp, rows, cfg)
	if done != nil {
		done(res, err)
	}
}

// Update runs one synchronous pass over a query response.
func (v *Visualization) Update(ctx context.Context, resp *schema.QueryResponse, rows []schema.Row, cfg schema.Config) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if cfg.PivotSeparator == "" {
		cfg.PivotSeparator = v.cfg.Separator
	}

	var fields schema.Fields
	if resp != nil {
		fields = resp.Fields
	}
	measureLike := fields.MeasureLike()

	result := &Result{
		NullText:      v.cfg.NullText,
		Options:       schema.BuildOptions(measureLike, cfg),
		ConfigUpdates: schema.PaletteUpdates(cfg),
	}

	v.state.QueryResponse = resp
	v.state.Config = cfg
	v.state.syncSelections(measureLike, cfg)

	// ── Validate ──────────────────────────────────────────────────────────
	errs := ValidateShape(resp)
	if len(errs) == 0 {
		errs = v.cfg.Requirements.Check(resp)
	}
	if len(errs) > 0 {
		for _, e := range errs {
			v.log.Warn("⚠️ pivotgrid: rejected query shape", "title", e.Title, "message", e.Message)
		}
		result.Errors = errs
		return result, nil
	}

	v.log.Debug("🔧 pivotgrid: update",
		"rows", len(rows),
		"dimensions", len(fields.Dimensions),
		"measures", len(measureLike),
		"pivots", len(resp.Pivots))

	// ── Ranges, columns, rows ─────────────────────────────────────────────
	rng := ComputeRange(rows, resp, cfg, v.state.SelectedFields)
	plan := PlanColumns(resp, cfg)
	flat := Materialize(rows, plan)

	// ── Subtotals ─────────────────────────────────────────────────────────
	var subtotals *Subtotals
	if v.cfg.Subtotals && len(plan.GroupFields()) > 0 {
		st, err := ComputeSubtotals(flat, plan)
		if err != nil {
			result.Errors = aggregateErrors(err)
			for _, e := range result.Errors {
				v.log.Warn("⚠️ pivotgrid: aggregation failed", "message", e.Message)
			}
			return result, nil
		}
		subtotals = st
		if cfg.EnableConditionalFormatting && cfg.ConditionalFormattingType != schema.FormattingNonSubtotalOnly {
			foldSubtotals(rng, plan, st)
		}
	}

	result.Success = true
	result.Plan = plan
	result.Columns = plan.Defs()
	result.AutoGroupColumn = plan.LastGroup
	result.Rows = flat
	result.Subtotals = subtotals
	result.Range = rng

	v.state.Range = rng
	v.state.Last = result

	v.log.Info("📊 pivotgrid: rendered",
		"columns", len(plan.Keys()),
		"rows", len(flat),
		"groups", groupCount(subtotals))
	return result, nil
}

// foldSubtotals adds group-row values to the range. The grand total is left
// out.
func foldSubtotals(rng *Range, plan *Plan, st *Subtotals) {
	cols := plan.ValueColumns()
	for _, g := range st.Groups {
		for _, c := range cols {
			if !rng.HasKey(measureName(c)) {
				continue
			}
			if n, ok := displayNumber(g.Values[c.Key()]); ok {
				rng.Update(c.Key(), n)
			}
		}
	}
}

func aggregateErrors(err error) []VisError {
	var list []error
	var merr *multierror.Error
	if errors.As(err, &merr) {
		list = merr.WrappedErrors()
	} else {
		list = []error{err}
	}
	out := make([]VisError, 0, len(list))
	for _, e := range list {
		title := "Aggregation Failed"
		if errors.Is(e, ErrUnsupportedType) {
			title = "Unsupported Measure Type"
		}
		out = append(out, VisError{Group: GroupAggregate, Title: title, Message: e.Error()})
	}
	return out
}

func groupCount(st *Subtotals) int {
	if st == nil {
		return 0
	}
	return len(st.Groups)
}
