// Engine construction and the render contract.
package engine

import (
	"fmt"

	"go.uber.org/zap"
)

// Default pagination configuration.
var defaultPageSizes = []int{10, 15, 20, 30, 40, 50}

const defaultPageSize = 15

// DefaultIdentityPath is the dotted path used to resolve row identity when
// the caller supplies neither an identity function nor a path.
const DefaultIdentityPath = "id"

// Config enumerates the construction parameters for one engine instance.
type Config[T any] struct {
	// Columns is the ordered descriptor set. Required.
	Columns []ColumnDescriptor[T]

	// Identity resolves row identity for selection and bulk actions.
	// When nil, IdentityPath is used instead.
	Identity IdentityFunc[T]

	// IdentityPath is a dotted path walked through map keys and struct
	// fields. Defaults to DefaultIdentityPath.
	IdentityPath string

	// PageSizes are the sizes offered to the UI. Defaults to
	// 10/15/20/30/40/50. Every entry must be positive.
	PageSizes []int

	// DefaultPageSize seeds InitialState. Defaults to 15.
	DefaultPageSize int

	// EnableSelection allows row selection on this instance.
	EnableSelection bool

	// Logger receives accessor and identity failure diagnostics at debug
	// level. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Engine is one independent table instance: an immutable descriptor set plus
// the pure operations that turn (rows, State) into a View. Engines own no
// rows and no I/O; all methods may be called repeatedly with the same inputs
// and return the same outputs.
type Engine[T any] struct {
	reg        *registry[T]
	identity   IdentityFunc[T]
	pageSizes  []int
	initSize   int
	selectable bool
	log        *zap.Logger
}

// New validates cfg and builds an engine. Configuration problems (duplicate
// column ids, malformed filter specs, bad page sizes) fail construction.
func New[T any](cfg Config[T]) (*Engine[T], error) {
	reg, err := newRegistry(cfg.Columns)
	if err != nil {
		return nil, err
	}

	sizes := cfg.PageSizes
	if len(sizes) == 0 {
		sizes = defaultPageSizes
	}
	for _, size := range sizes {
		if size <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
		}
	}
	initSize := cfg.DefaultPageSize
	if initSize == 0 {
		initSize = defaultPageSize
	}
	if initSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, initSize)
	}

	identity := cfg.Identity
	if identity == nil {
		path := cfg.IdentityPath
		if path == "" {
			path = DefaultIdentityPath
		}
		identity = identityFromPath[T](path)
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	e := &Engine[T]{
		reg:        reg,
		identity:   identity,
		pageSizes:  make([]int, len(sizes)),
		initSize:   initSize,
		selectable: cfg.EnableSelection,
		log:        log,
	}
	copy(e.pageSizes, sizes)
	return e, nil
}

// Columns returns the descriptor set in declaration order.
func (e *Engine[T]) Columns() []ColumnDescriptor[T] {
	out := make([]ColumnDescriptor[T], len(e.reg.columns))
	copy(out, e.reg.columns)
	return out
}

// PageSizes returns the configured page size options.
func (e *Engine[T]) PageSizes() []int {
	out := make([]int, len(e.pageSizes))
	copy(out, e.pageSizes)
	return out
}

// InitialState returns the empty state: no query, no filters, no sort,
// first page at the default page size, empty selection.
func (e *Engine[T]) InitialState() State {
	return State{
		Filters:   make(map[string]any),
		Page:      Pagination{Index: 0, Size: e.initSize},
		Selection: make(Selection),
	}
}

// Identity resolves the identity of one row.
func (e *Engine[T]) Identity(row T) (string, error) {
	return e.identity(row)
}

// View is the render output: the rows for the current page plus the metadata
// a UI needs to draw pagination, filter summaries, and selection counts.
type View[T any] struct {
	Rows          []T // current page, in render order
	PageIndex     int // effective page index after clamping
	PageCount     int // at least 1, even for an empty row set
	PageSize      int
	TotalCount    int // rows before filtering
	FilteredCount int // rows after query + column filters
	ActiveFilters int // active per-column filters
	SelectedCount int // total selection size
	VisibleCount  int // selected rows within the filtered set
}

// Render is the pure function from (rows, state) to the visible page.
// Composition order is fixed: global query and column filters, then sort,
// then clamped pagination, then the page slice.
func (e *Engine[T]) Render(rows []T, s State) (View[T], error) {
	filtered, err := e.filterRows(rows, s)
	if err != nil {
		return View[T]{}, err
	}
	ordered, err := e.sortRows(filtered, s.Sort)
	if err != nil {
		return View[T]{}, err
	}
	page, pages, index, err := paginate(ordered, s.Page)
	if err != nil {
		return View[T]{}, err
	}

	visible := 0
	if len(s.Selection) > 0 {
		for _, row := range filtered {
			id, err := e.identity(row)
			if err != nil {
				e.log.Debug("identity unresolved; row excluded from selection counts", zap.Error(err))
				continue
			}
			if s.Selection.Has(id) {
				visible++
			}
		}
	}

	return View[T]{
		Rows:          page,
		PageIndex:     index,
		PageCount:     pages,
		PageSize:      s.Page.Size,
		TotalCount:    len(rows),
		FilteredCount: len(filtered),
		ActiveFilters: s.ActiveFilterCount(),
		SelectedCount: s.Selection.Len(),
		VisibleCount:  visible,
	}, nil
}

// ToggleRow returns the state with one row's selection membership flipped.
func (e *Engine[T]) ToggleRow(s State, row T) (State, error) {
	if !e.selectable {
		return s, ErrSelectionOff
	}
	id, err := e.identity(row)
	if err != nil {
		return s, err
	}
	if s.Selection.Has(id) {
		return s.WithSelection(s.Selection.Without(id)), nil
	}
	return s.WithSelection(s.Selection.With(id)), nil
}

// SelectRows returns the state with every given row added to the selection.
func (e *Engine[T]) SelectRows(s State, rows []T) (State, error) {
	if !e.selectable {
		return s, ErrSelectionOff
	}
	sel := s.Selection
	for _, row := range rows {
		id, err := e.identity(row)
		if err != nil {
			return s, err
		}
		sel = sel.With(id)
	}
	return s.WithSelection(sel), nil
}

// ClearSelection returns the state with an empty selection.
func (e *Engine[T]) ClearSelection(s State) State {
	return s.WithSelection(NewSelection())
}
