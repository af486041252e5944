package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestLoaderTriggersNearEnd(t *testing.T) {
	var calls int
	l := NewLoader(func(ctx context.Context) error {
		calls++
		return nil
	}, true, nil)

	t.Run("far from end does nothing", func(t *testing.T) {
		ran, err := l.Observe(context.Background(), 0, 10)
		if err != nil || ran {
			t.Fatalf("expected no fetch, got ran=%v err=%v", ran, err)
		}
	})

	t.Run("within margin of end fetches", func(t *testing.T) {
		ran, err := l.Observe(context.Background(), 7, 10)
		if err != nil {
			t.Fatal(err)
		}
		if !ran || calls != 1 {
			t.Fatalf("expected one fetch, got ran=%v calls=%d", ran, calls)
		}
	})

	t.Run("exhausted source does nothing", func(t *testing.T) {
		l.SetHasMore(false)
		ran, _ := l.Observe(context.Background(), 9, 10)
		if ran || calls != 1 {
			t.Fatalf("expected no fetch after hasMore=false, got ran=%v calls=%d", ran, calls)
		}
	})
}

func TestLoaderSingleFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	l := NewLoader(func(ctx context.Context) error {
		calls.Add(1)
		close(started)
		<-release
		return nil
	}, true, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = l.Observe(context.Background(), 9, 10)
	}()

	<-started
	// A second observation while the fetch is in flight must not re-invoke.
	ran, err := l.Observe(context.Background(), 9, 10)
	if err != nil || ran {
		t.Fatalf("expected suppressed fetch, got ran=%v err=%v", ran, err)
	}

	close(release)
	wg.Wait()
	if calls.Load() != 1 {
		t.Fatalf("expected exactly one fetch, got %d", calls.Load())
	}
}

func TestLoaderRearmsAfterFailure(t *testing.T) {
	boom := errors.New("network down")
	var calls int
	l := NewLoader(func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return boom
		}
		return nil
	}, true, nil)

	ran, err := l.Observe(context.Background(), 9, 10)
	if !ran || !errors.Is(err, boom) {
		t.Fatalf("expected surfaced failure, got ran=%v err=%v", ran, err)
	}

	// No automatic retry, but a later observation is eligible again.
	ran, err = l.Observe(context.Background(), 9, 10)
	if !ran || err != nil {
		t.Fatalf("expected re-armed fetch to succeed, got ran=%v err=%v", ran, err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}
