package concurrency

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// BlockingPool bounds how many CPU-heavy or otherwise blocking calls (model
// inference) run at once, separately from the I/O fan-out.
type BlockingPool struct {
	sem  *semaphore.Weighted
	size int
}

// NewBlockingPool returns a pool with size slots; size <= 0 uses GOMAXPROCS.
func NewBlockingPool(size int) *BlockingPool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	return &BlockingPool{sem: semaphore.NewWeighted(int64(size)), size: size}
}

func (p *BlockingPool) Size() int {
	return p.size
}

// Offload runs fn on its own goroutine once a pool slot is free and waits for
// the result. If ctx ends first the caller gets ctx.Err(); fn keeps its slot
// until it returns.
func Offload[T any](ctx context.Context, p *BlockingPool, fn func() T) (T, error) {
	var zero T
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return zero, err
	}

	done := make(chan T, 1)
	go func() {
		defer p.sem.Release(1)
		done <- fn()
	}()

	select {
	case v := <-done:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
