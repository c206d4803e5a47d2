package engine

import (
	"slices"

	"github.com/spektr-org/pivotgrid/schema"
)

// State is what one visualization instance remembers between updates: the
// fields selected for conditional formatting, the last query response and
// config, the last computed range, and the last successful result.
type State struct {
	SelectedFields []string
	QueryResponse  *schema.QueryResponse
	Config         schema.Config
	Range          *Range
	Last           *Result
}

// AddSelectedField selects a field, once.
func (s *State) AddSelectedField(name string) {
	if !slices.Contains(s.SelectedFields, name) {
		s.SelectedFields = append(s.SelectedFields, name)
	}
}

// RemoveSelectedField deselects a field.
func (s *State) RemoveSelectedField(name string) {
	s.SelectedFields = slices.DeleteFunc(s.SelectedFields, func(f string) bool {
		return f == name
	})
}

// syncSelections applies selectedField_ options when formatting applies to
// selected fields only; otherwise the selection is left untouched.
func (s *State) syncSelections(measureLike []schema.Field, cfg schema.Config) {
	if cfg.ApplyTo != schema.ApplyToSelectFields {
		return
	}
	for _, f := range measureLike {
		if cfg.SelectedFields[f.Name] {
			s.AddSelectedField(f.Name)
		} else {
			s.RemoveSelectedField(f.Name)
		}
	}
}
