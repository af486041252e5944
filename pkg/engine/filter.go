// Filter specifications and the filter evaluation engine.
package engine

import (
	"fmt"

	"go.uber.org/zap"
)

// Filter kinds. FilterSpec is a closed tagged union over these; the
// constructors below are the only way to build a well-formed spec.
const (
	FilterSelect      = "select"      // one value from an explicit option list
	FilterMultiSelect = "multiselect" // any of several values from an explicit option list
	FilterText        = "text"        // case-insensitive substring
	FilterRange       = "range"       // inclusive numeric interval
	FilterAutoSelect  = "autoselect"  // like select, options discovered from data
)

// Option is one selectable value in a select-style filter.
type Option struct {
	Label string `json:"label"`
	Value any    `json:"value"`
	Icon  string `json:"icon,omitempty"`
}

// FilterSpec describes how one column filters. Kind selects the variant;
// only the fields for that variant are meaningful. Build specs with the
// constructors so illegal combinations are caught at engine construction.
type FilterSpec struct {
	Kind        string
	Options     []Option // select, multiselect; optional predefined set for autoselect
	Min, Max    float64  // range bounds, inclusive
	Unit        string   // range display unit
	Placeholder string   // text input hint
}

// SelectFilter builds a single-choice filter over an explicit option list.
func SelectFilter(options ...Option) *FilterSpec {
	return &FilterSpec{Kind: FilterSelect, Options: options}
}

// MultiSelectFilter builds a multi-choice filter over an explicit option list.
func MultiSelectFilter(options ...Option) *FilterSpec {
	return &FilterSpec{Kind: FilterMultiSelect, Options: options}
}

// TextFilter builds a case-insensitive substring filter.
func TextFilter(placeholder string) *FilterSpec {
	return &FilterSpec{Kind: FilterText, Placeholder: placeholder}
}

// RangeFilter builds an inclusive numeric interval filter.
func RangeFilter(min, max float64, unit string) *FilterSpec {
	return &FilterSpec{Kind: FilterRange, Min: min, Max: max, Unit: unit}
}

// AutoSelectFilter builds a single-choice filter whose options are discovered
// from the row set at evaluation time. Predefined options, when given, take
// precedence and suppress auto-derivation.
func AutoSelectFilter(predefined ...Option) *FilterSpec {
	return &FilterSpec{Kind: FilterAutoSelect, Options: predefined}
}

// validate checks the variant invariants. Called during engine construction.
func (s *FilterSpec) validate() error {
	switch s.Kind {
	case FilterSelect, FilterMultiSelect:
		if len(s.Options) == 0 {
			return ErrSelectOptions
		}
	case FilterText, FilterAutoSelect:
		// No required fields.
	case FilterRange:
		if s.Min > s.Max {
			return fmt.Errorf("%w: [%v, %v]", ErrRangeBounds, s.Min, s.Max)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFilterKind, s.Kind)
	}
	return nil
}

// Range is the active value shape for a range filter: an inclusive interval.
type Range struct {
	Lo, Hi float64
}

// cell reads a column value for a row. ok is false when the accessor failed;
// the failure is logged at debug level and the value is treated as absent.
func (e *Engine[T]) cell(col *ColumnDescriptor[T], row T) (any, bool) {
	v, err := col.Accessor(row)
	if err != nil {
		e.log.Debug("accessor failed; value treated as absent",
			zap.String("column", col.ID), zap.Error(err))
		return nil, false
	}
	return v, true
}

// matchGlobal reports whether any column's stringified value contains the
// query, case-insensitively. An empty query matches everything.
func (e *Engine[T]) matchGlobal(row T, query string) bool {
	if query == "" {
		return true
	}
	for i := range e.reg.columns {
		v, ok := e.cell(&e.reg.columns[i], row)
		if !ok {
			continue
		}
		if containsFold(stringify(v), query) {
			return true
		}
	}
	return false
}

// matchColumn evaluates one active column filter against one row. An absent
// value never matches.
func (e *Engine[T]) matchColumn(col *ColumnDescriptor[T], row T, active any) (bool, error) {
	if col.Filter == nil {
		return false, fmt.Errorf("%w: %s", ErrNotFilterable, col.ID)
	}
	v, ok := e.cell(col, row)
	switch col.Filter.Kind {
	case FilterSelect, FilterAutoSelect:
		return ok && tolerantEqual(v, active), nil
	case FilterMultiSelect:
		values, err := multiSelectValues(active)
		if err != nil {
			return false, fmt.Errorf("column %s: %w", col.ID, err)
		}
		if !ok {
			return false, nil
		}
		for _, want := range values {
			if tolerantEqual(v, want) {
				return true, nil
			}
		}
		return false, nil
	case FilterText:
		want, isStr := active.(string)
		if !isStr {
			return false, fmt.Errorf("column %s: %w", col.ID, ErrFilterValue)
		}
		return ok && containsFold(stringify(v), want), nil
	case FilterRange:
		interval, err := rangeValue(active)
		if err != nil {
			return false, fmt.Errorf("column %s: %w", col.ID, err)
		}
		if !ok {
			return false, nil
		}
		f, numeric := toFloat(v)
		return numeric && f >= interval.Lo && f <= interval.Hi, nil
	default:
		return false, fmt.Errorf("column %s: %w", col.ID, ErrUnknownFilterKind)
	}
}

// multiSelectValues normalizes the active value of a multiselect filter.
func multiSelectValues(active any) ([]any, error) {
	switch x := active.(type) {
	case []any:
		return x, nil
	case []string:
		values := make([]any, len(x))
		for i, s := range x {
			values[i] = s
		}
		return values, nil
	default:
		return nil, ErrFilterValue
	}
}

// rangeValue normalizes the active value of a range filter.
func rangeValue(active any) (Range, error) {
	switch x := active.(type) {
	case Range:
		return x, nil
	case [2]float64:
		return Range{Lo: x[0], Hi: x[1]}, nil
	case []float64:
		if len(x) == 2 {
			return Range{Lo: x[0], Hi: x[1]}, nil
		}
	}
	return Range{}, ErrFilterValue
}

// filterRows applies the global query and every active per-column filter.
// A row survives iff it matches the query (OR across columns) and every
// active filter (AND across columns).
func (e *Engine[T]) filterRows(rows []T, s State) ([]T, error) {
	// Validate filter columns up front so an unknown id fails the whole
	// render instead of silently passing rows through.
	for id := range s.Filters {
		col, err := e.reg.column(id)
		if err != nil {
			return nil, err
		}
		if col.Filter == nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFilterable, id)
		}
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if !e.matchGlobal(row, s.Query) {
			continue
		}
		keep := true
		for id, active := range s.Filters {
			col, _ := e.reg.column(id)
			match, err := e.matchColumn(col, row, active)
			if err != nil {
				return nil, err
			}
			if !match {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out, nil
}
