package concurrency

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestProcessParallelEmpty(t *testing.T) {
	results, errs := ProcessParallel(context.Background(), []string{}, DefaultOptions(), func(ctx context.Context, i int, s string) (int, error) {
		return len(s), nil
	})
	if len(results) != 0 || errs != nil {
		t.Errorf("Expected empty results and nil errors, got %v / %v", results, errs)
	}
}

func TestProcessParallelKeepsOrder(t *testing.T) {
	input := []int{5, 3, 1, 4, 2}

	results, errs := ProcessParallel(context.Background(), input, ParallelOptions{MaxWorkers: 3}, func(ctx context.Context, i int, n int) (int, error) {
		time.Sleep(time.Duration(n) * 5 * time.Millisecond)
		return n * 10, nil
	})

	if len(errs) != 0 {
		t.Fatalf("Expected no errors, got %v", errs)
	}
	for i, n := range input {
		if results[i] != n*10 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], n*10)
		}
	}
}

func TestProcessParallelIndexedErrors(t *testing.T) {
	boom := errors.New("unreadable")
	input := []string{"a.txt", "b.txt", "c.txt", "d.txt"}

	_, errs := ProcessParallel(context.Background(), input, ParallelOptions{}, func(ctx context.Context, i int, s string) (string, error) {
		if i%2 == 1 {
			return "", boom
		}
		return s, nil
	})

	if len(errs) != 2 {
		t.Fatalf("Expected 2 errors, got %d", len(errs))
	}
	var ie *IndexError
	if !errors.As(errs[0], &ie) || ie.Index != 1 {
		t.Errorf("Expected first error for index 1, got %v", errs[0])
	}
	if !errors.Is(errs[1], boom) {
		t.Errorf("Expected wrapped error, got %v", errs[1])
	}
}

func TestProcessParallelBoundsWorkers(t *testing.T) {
	var running, peak int32
	input := make([]int, 12)

	ProcessParallel(context.Background(), input, ParallelOptions{MaxWorkers: 2}, func(ctx context.Context, i int, _ int) (int, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return i, nil
	})

	if peak > 2 {
		t.Errorf("Expected at most 2 concurrent workers, saw %d", peak)
	}
}

func TestProcessParallelCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	results, errs := ProcessParallel(ctx, []int{1, 2, 3}, DefaultOptions(), func(ctx context.Context, i int, n int) (int, error) {
		atomic.AddInt32(&calls, 1)
		return n, nil
	})

	if len(results) != 3 {
		t.Errorf("Expected 3 result slots, got %d", len(results))
	}
	if calls != 0 || len(errs) != 3 {
		t.Errorf("Expected no calls and 3 errors, got %d calls / %d errors", calls, len(errs))
	}
	if !errors.Is(errs[0], context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", errs[0])
	}
}
