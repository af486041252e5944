// Column descriptors and the descriptor registry.
package engine

import "fmt"

// Accessor reads one cell value out of a row. A returned error means the
// value is absent for that row; the engine recovers locally and never
// propagates accessor errors to the caller.
type Accessor[T any] func(row T) (any, error)

// ColumnDescriptor is the static metadata for one column: how to read it,
// whether it sorts, and how it filters. Descriptors are immutable for the
// lifetime of an engine instance.
type ColumnDescriptor[T any] struct {
	ID       string       // Unique within one engine instance.
	Title    string       // Display title; defaults to ID when empty.
	Accessor Accessor[T]  // Required cell reader.
	Sortable bool         // Whether SortKey may reference this column.
	Filter   *FilterSpec  // Optional filter configuration.
}

// registry holds descriptors in declaration order with unique-id lookup.
// Declaration order is the default render and export order.
type registry[T any] struct {
	columns []ColumnDescriptor[T]
	byID    map[string]int
}

// newRegistry validates the descriptor set and builds the registry.
func newRegistry[T any](columns []ColumnDescriptor[T]) (*registry[T], error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	r := &registry[T]{
		columns: make([]ColumnDescriptor[T], len(columns)),
		byID:    make(map[string]int, len(columns)),
	}
	copy(r.columns, columns)
	for i := range r.columns {
		col := &r.columns[i]
		if col.ID == "" {
			return nil, ErrEmptyColumnID
		}
		if _, dup := r.byID[col.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, col.ID)
		}
		if col.Accessor == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilAccessor, col.ID)
		}
		if col.Title == "" {
			col.Title = col.ID
		}
		if col.Filter != nil {
			if err := col.Filter.validate(); err != nil {
				return nil, fmt.Errorf("column %s: %w", col.ID, err)
			}
		}
		r.byID[col.ID] = i
	}
	return r, nil
}

// column returns the descriptor with the given id.
func (r *registry[T]) column(id string) (*ColumnDescriptor[T], error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, id)
	}
	return &r.columns[i], nil
}
