// Package engine implements an embeddable tabular data explorer: a
// client-side engine that takes an in-memory row set and column descriptors
// and produces a sortable, filterable, paginated, optionally row-selectable
// and bulk-actionable view.
//
// The engine owns no I/O. Row fetching, bulk mutations, and refresh are
// delegated to caller-supplied collaborators; every core operation is a pure
// function of the row set and an immutable State value.
package engine
