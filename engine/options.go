package engine

import (
	"log/slog"

	"github.com/google/uuid"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for New()
// ============================================================================

// Option configures a Visualization.
type Option func(*config)

type config struct {
	ID           string
	Logger       *slog.Logger
	Requirements Requirements
	Subtotals    bool
	NullText     string
	Separator    string
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.Logger = l
	}
}

// WithID names the instance in log lines. Defaults to a random UUID.
func WithID(id string) Option {
	return func(c *config) {
		c.ID = id
	}
}

// WithRequirements limits the accepted query shape.
func WithRequirements(r Requirements) Option {
	return func(c *config) {
		c.Requirements = r
	}
}

// WithSubtotals toggles subtotal computation for grouped plans (on by default).
func WithSubtotals(enabled bool) Option {
	return func(c *config) {
		c.Subtotals = enabled
	}
}

// WithNullText sets the text renderers show for null cells. Defaults to "∅".
func WithNullText(text string) Option {
	return func(c *config) {
		c.NullText = text
	}
}

// WithPivotSeparator sets the pivot header separator used when the host
// config leaves it empty.
func WithPivotSeparator(sep string) Option {
	return func(c *config) {
		c.Separator = sep
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{
		Requirements: DefaultRequirements(),
		Subtotals:    true,
		NullText:     "∅",
		Separator:    ", ",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	return cfg
}
