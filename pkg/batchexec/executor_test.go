package batchexec

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunSucceedsAllItems(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	results, err := Run(context.Background(), items, func(_ context.Context, n int) (int, error) {
		return n * n, nil
	}, Options{Concurrency: 3})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, r := range results {
		if r.Err != nil {
			t.Fatalf("item %d failed: %v", i, r.Err)
		}
		if r.Value != items[i]*items[i] {
			t.Fatalf("item %d = %d, want %d", i, r.Value, items[i]*items[i])
		}
	}
}

func TestRunFailFastCancelsOutstanding(t *testing.T) {
	var started int32
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	_, err := Run(context.Background(), items, func(ctx context.Context, n int) (int, error) {
		atomic.AddInt32(&started, 1)
		if n == 2 {
			return 0, errors.New("boom")
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(50 * time.Millisecond):
			return n, nil
		}
	}, Options{Concurrency: 4, Mode: FailFast})
	if err == nil {
		t.Fatal("expected an error from FailFast run")
	}
	if got := atomic.LoadInt32(&started); got >= int32(len(items)) {
		t.Fatalf("all %d items started; FailFast did not stop outstanding work", got)
	}
}

func TestRunContinueOnErrorCollectsAll(t *testing.T) {
	items := []int{1, 2, 3, 4}
	results, err := Run(context.Background(), items, func(_ context.Context, n int) (int, error) {
		if n%2 == 0 {
			return 0, errors.New("even not allowed")
		}
		return n, nil
	}, Options{Concurrency: 2, Mode: ContinueOnError})
	if !errors.Is(err, ErrPartialFailure) {
		t.Fatalf("expected ErrPartialFailure, got %v", err)
	}
	if len(results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(results))
	}
	var failures int
	for _, r := range results {
		if r.Err != nil {
			failures++
		}
	}
	if failures != 2 {
		t.Fatalf("expected 2 failures, got %d", failures)
	}
}

func TestRunRetriesBeforeSucceeding(t *testing.T) {
	var attempts int32
	results, err := Run(context.Background(), []int{1}, func(_ context.Context, n int) (int, error) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return 0, errors.New("transient")
		}
		return n, nil
	}, Options{MaxRetries: 3, Backoff: func(int) time.Duration { return time.Millisecond }})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Value != 1 {
		t.Fatalf("expected eventual success, got %+v", results[0])
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRunEmptyItems(t *testing.T) {
	results, err := Run[int, int](context.Background(), nil, func(_ context.Context, n int) (int, error) {
		return n, nil
	}, Options{})
	if err != nil || results != nil {
		t.Fatalf("expected nil, nil for empty input, got %v, %v", results, err)
	}
}
