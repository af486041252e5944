// Package source provides row source collaborators for the table engine: a
// windowed SQLite source with bulk status updates, and a read-only JSONL
// file source. The engine never fetches data itself; these types realize the
// fetch-more and bulk-action callbacks it expects.
package source

import "errors"

// Row is one opaque record handed to the engine. Column accessors and the
// identity path read it by key.
type Row = map[string]any

// Row source errors.
var (
	ErrBadTableName = errors.New("invalid table name")
	ErrBadStatus    = errors.New("invalid status value")
	ErrNoIDs        = errors.New("no row ids given")
	ErrNoIDColumn   = errors.New("table has no id column")
)

// Moderation statuses written by bulk actions.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// validStatuses is the set of statuses SetStatus accepts.
var validStatuses = map[string]bool{
	StatusPending:  true,
	StatusApproved: true,
	StatusRejected: true,
}
