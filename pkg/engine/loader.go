// Incremental loading of server-side rows as the user nears the local end.
package engine

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// loadAheadMargin triggers a fetch when the page position is within three
// pages of exhausting the locally available rows: pageIndex >= pageCount - 3.
const loadAheadMargin = 3

// LoadFunc fetches the next window of server-side rows. The caller merges
// the returned rows into its own row set; the loader owns no data.
type LoadFunc func(ctx context.Context) error

// Loader invokes a caller-supplied fetch exactly once as the user approaches
// the last locally available page, suppressing re-invocation until the fetch
// settles. A failed fetch is surfaced and the loader re-arms for a future
// attempt; current rows and pagination remain valid.
type Loader struct {
	mu       sync.Mutex
	inFlight bool
	hasMore  bool
	load     LoadFunc
	log      *zap.Logger
}

// NewLoader builds a loader. hasMore indicates whether server-side rows
// exist beyond the initial in-memory window.
func NewLoader(load LoadFunc, hasMore bool, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{load: load, hasMore: hasMore, log: log}
}

// SetHasMore records whether more server-side rows remain. Callers update
// this after merging a fetched window.
func (l *Loader) SetHasMore(hasMore bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hasMore = hasMore
}

// HasMore reports whether more server-side rows remain.
func (l *Loader) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}

// nearEnd reports whether the page position is within the load-ahead margin
// of the local end.
func nearEnd(pageIndex, pages int) bool {
	return pageIndex >= pages-loadAheadMargin
}

// Observe inspects the local pagination position and triggers the fetch when
// the user is near the end, more rows exist, and no fetch is in flight.
// Returns whether a fetch ran. The engine preserves the page index across
// the merge; the caller only re-renders.
func (l *Loader) Observe(ctx context.Context, pageIndex, pages int) (bool, error) {
	l.mu.Lock()
	if l.inFlight || !l.hasMore || !nearEnd(pageIndex, pages) {
		l.mu.Unlock()
		return false, nil
	}
	l.inFlight = true
	l.mu.Unlock()

	err := l.load(ctx)

	l.mu.Lock()
	l.inFlight = false
	l.mu.Unlock()

	if err != nil {
		l.log.Warn("load more failed", zap.Error(err))
		return true, fmt.Errorf("load more: %w", err)
	}
	return true, nil
}
