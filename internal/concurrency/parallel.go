package concurrency

import (
	"context"
	"sync"
)

const defaultWorkers = 10

// ParallelOptions configures ProcessParallel and ForEach.
type ParallelOptions struct {
	// MaxWorkers caps the number of goroutines; <= 0 means the default of 10.
	MaxWorkers int
}

func DefaultOptions() ParallelOptions {
	return ParallelOptions{MaxWorkers: defaultWorkers}
}

func (o ParallelOptions) workers(n int) int {
	w := o.MaxWorkers
	if w <= 0 {
		w = defaultWorkers
	}
	if w > n {
		w = n
	}
	return w
}

// Result is the outcome for one input item.
type Result[R any] struct {
	Index int
	Value R
	Err   error
}

// ProcessParallel runs fn over items with bounded concurrency. Results come
// back in input order; a failing item does not stop its siblings. Items not
// started before ctx is done are reported with ctx.Err().
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	fn func(ctx context.Context, index int, item T) (R, error),
) []Result[R] {
	if len(items) == 0 {
		return []Result[R]{}
	}

	jobs := make(chan int, len(items))
	for i := range items {
		jobs <- i
	}
	close(jobs)

	results := make([]Result[R], len(items))

	var wg sync.WaitGroup
	for w := 0; w < opts.workers(len(items)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results[i] = Result[R]{Index: i, Err: err}
					continue
				}
				v, err := fn(ctx, i, items[i])
				results[i] = Result[R]{Index: i, Value: v, Err: err}
			}
		}()
	}
	wg.Wait()

	return results
}

// ForEach runs fn for side effects and returns the errors it produced, in no
// particular order.
func ForEach[T any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	fn func(ctx context.Context, index int, item T) error,
) []error {
	results := ProcessParallel(ctx, items, opts, func(ctx context.Context, i int, item T) (struct{}, error) {
		return struct{}{}, fn(ctx, i, item)
	})

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}
