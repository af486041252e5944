// Bulk-action coordination: confirm-gated approve/reject over a selection.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActionKind identifies a bulk operation.
type ActionKind string

// Supported bulk actions.
const (
	ActionApprove ActionKind = "approve"
	ActionReject  ActionKind = "reject"
)

// SubmitFunc applies one bulk action to the given row identities. A nil
// return is success. The coordinator invokes it at most once per confirmed
// request and never retries; a failed attempt must be re-initiated by the
// user.
type SubmitFunc func(ctx context.Context, ids []string, kind ActionKind) error

// BulkRequest is one confirmed bulk operation. IDs are snapshotted when the
// confirmation opens, not when it is submitted: selection changes made while
// the dialog is open do not affect the pending request.
type BulkRequest struct {
	RequestID string
	Kind      ActionKind
	IDs       []string
}

// Coordinator phases.
const (
	phaseIdle = iota
	phaseConfirming
	phaseSubmitting
)

// Coordinator drives the bulk-action lifecycle for one table instance:
// Idle -> Confirming -> Submitting -> Idle. At most one request may be
// submitting at a time; opening a confirmation while one is submitting is
// rejected.
type Coordinator struct {
	mu      sync.Mutex
	phase   int
	pending BulkRequest
	submit  SubmitFunc
	log     *zap.Logger
}

// NewCoordinator builds a coordinator around the injected submit callback.
func NewCoordinator(submit SubmitFunc, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{submit: submit, log: log}
}

// Open snapshots the current selection into a pending request and moves to
// Confirming. Returns ErrNothingSelected for an empty selection and
// ErrSubmitInFlight while a previous request is still submitting. Opening
// again while Confirming replaces the pending request.
func (c *Coordinator) Open(kind ActionKind, sel Selection) (BulkRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == phaseSubmitting {
		return BulkRequest{}, ErrSubmitInFlight
	}
	if sel.Len() == 0 {
		return BulkRequest{}, ErrNothingSelected
	}

	c.pending = BulkRequest{
		RequestID: newRequestID(),
		Kind:      kind,
		IDs:       sel.IDs(),
	}
	c.phase = phaseConfirming
	return c.pending, nil
}

// Pending returns the request awaiting confirmation, if any.
func (c *Coordinator) Pending() (BulkRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending, c.phase == phaseConfirming
}

// Cancel discards a pending confirmation and returns to Idle. Cancel is a
// no-op in any other phase.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == phaseConfirming {
		c.phase = phaseIdle
		c.pending = BulkRequest{}
	}
}

// Submit invokes the submit callback once with the ids captured at Open
// time. On success the caller should clear its selection and refresh its
// row source. On failure the selection is left intact so the user can retry
// without re-selecting; the coordinator returns to Idle either way.
func (c *Coordinator) Submit(ctx context.Context) (BulkRequest, error) {
	c.mu.Lock()
	if c.phase != phaseConfirming {
		c.mu.Unlock()
		return BulkRequest{}, ErrNotConfirming
	}
	req := c.pending
	c.phase = phaseSubmitting
	c.mu.Unlock()

	err := c.submit(ctx, req.IDs, req.Kind)

	c.mu.Lock()
	c.phase = phaseIdle
	c.pending = BulkRequest{}
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("bulk action failed",
			zap.String("request_id", req.RequestID),
			zap.String("kind", string(req.Kind)),
			zap.Int("ids", len(req.IDs)),
			zap.Error(err))
		return req, fmt.Errorf("bulk %s: %w", req.Kind, err)
	}
	return req, nil
}

// newRequestID generates a UUID v7 request id, falling back to v4 if v7
// generation fails.
func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
