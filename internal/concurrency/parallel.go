package concurrency

import (
	"context"
	"fmt"
	"sync"
)

// ParallelOptions bounds a fan-out.
type ParallelOptions struct {
	MaxWorkers int
}

func DefaultOptions() ParallelOptions {
	return ParallelOptions{MaxWorkers: 4}
}

// IndexError ties a failure to the input position that produced it.
type IndexError struct {
	Index int
	Err   error
}

func (e *IndexError) Error() string { return fmt.Sprintf("item %d: %v", e.Index, e.Err) }
func (e *IndexError) Unwrap() error { return e.Err }

// ProcessParallel runs itemFunc over items with at most MaxWorkers goroutines.
// Results keep input order. Items not started before ctx ends fail with
// ctx.Err(). Errors come back as *IndexError, sorted by index.
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = DefaultOptions().MaxWorkers
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan int, len(items))
	for i := range items {
		jobs <- i
	}
	close(jobs)

	results := make([]R, len(items))
	errs := make([]error, len(items))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				results[i], errs[i] = itemFunc(ctx, i, items[i])
			}
		}()
	}
	wg.Wait()

	var out []error
	for i, err := range errs {
		if err != nil {
			out = append(out, &IndexError{Index: i, Err: err})
		}
	}
	return results, out
}
