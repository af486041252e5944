// Faceted counts and auto-derived filter options.
package engine

import (
	"fmt"
	"sort"
)

// OptionCount is a filter option annotated with how many rows carry it.
type OptionCount struct {
	Option
	Count int
}

// FilterOptions returns the option list for a select-style column, each
// annotated with its occurrence count across the given pre-filter row set.
//
// For select and multiselect columns, and for autoselect columns with
// predefined options, the caller-supplied options are returned in their
// declared order (predefined options suppress auto-derivation). For an
// autoselect column without predefined options, the distinct stringified
// values observed in rows become the options, sorted alphabetically by label.
func (e *Engine[T]) FilterOptions(rows []T, columnID string) ([]OptionCount, error) {
	col, err := e.reg.column(columnID)
	if err != nil {
		return nil, err
	}
	if col.Filter == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFilterable, columnID)
	}

	switch col.Filter.Kind {
	case FilterSelect, FilterMultiSelect, FilterAutoSelect:
	default:
		return nil, fmt.Errorf("column %s: %w: %q has no options", columnID, ErrUnknownFilterKind, col.Filter.Kind)
	}

	counts := e.valueCounts(col, rows)

	if len(col.Filter.Options) > 0 {
		out := make([]OptionCount, len(col.Filter.Options))
		for i, opt := range col.Filter.Options {
			out[i] = OptionCount{Option: opt, Count: counts[stringify(opt.Value)]}
		}
		return out, nil
	}

	out := make([]OptionCount, 0, len(counts))
	for value, n := range counts {
		out = append(out, OptionCount{
			Option: Option{Label: value, Value: value},
			Count:  n,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

// FacetedCounts returns occurrence counts for each distinct value of a
// column across the row set filtered by the global query and every *other*
// column's active filter. The column's own filter is ignored so callers can
// show counts for values outside the current selection.
func (e *Engine[T]) FacetedCounts(rows []T, s State, columnID string) (map[string]int, error) {
	col, err := e.reg.column(columnID)
	if err != nil {
		return nil, err
	}

	others := s.WithoutFilter(columnID)
	filtered, err := e.filterRows(rows, others)
	if err != nil {
		return nil, err
	}
	return e.valueCounts(col, filtered), nil
}

// valueCounts tallies distinct stringified values of a column. Rows whose
// accessor fails are skipped.
func (e *Engine[T]) valueCounts(col *ColumnDescriptor[T], rows []T) map[string]int {
	counts := make(map[string]int)
	for _, row := range rows {
		v, ok := e.cell(col, row)
		if !ok {
			continue
		}
		counts[stringify(v)]++
	}
	return counts
}
