package engine

import "errors"

// Configuration errors. These are fatal at construction time: an engine is
// never built from an invalid descriptor set.
var (
	ErrNoColumns          = errors.New("at least one column is required")
	ErrEmptyColumnID      = errors.New("column id must not be empty")
	ErrDuplicateColumn    = errors.New("duplicate column id")
	ErrUnknownColumn      = errors.New("unknown column id")
	ErrUnknownFilterKind  = errors.New("unknown filter kind")
	ErrSelectOptions      = errors.New("select filter requires at least one option")
	ErrRangeBounds        = errors.New("range filter bounds are invalid")
	ErrNilAccessor        = errors.New("column accessor must not be nil")
	ErrInvalidPageSize    = errors.New("page size must be positive")
	ErrIdentityUnresolved = errors.New("row identity could not be resolved")
)

// State and flow errors returned while operating on a built engine.
var (
	ErrNotSortable     = errors.New("column is not sortable")
	ErrNotFilterable   = errors.New("column has no filter")
	ErrFilterValue     = errors.New("filter value has the wrong shape")
	ErrNothingSelected = errors.New("selection is empty")
	ErrSubmitInFlight  = errors.New("a bulk action is already submitting")
	ErrNotConfirming   = errors.New("no bulk action is awaiting confirmation")
	ErrSelectionOff    = errors.New("selection is not enabled")
)
