// Package workers runs independent simulation repetitions on a bounded
// number of goroutines.
package workers

import (
	"context"
	"fmt"
	"sync"

	"github.com/aristath/mabsim/internal/simulation"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is used when a non-positive worker count is requested
const DefaultWorkers = 10

// ProgressCallback receives the number of completed repetitions.
// Calls are serialized; completion order is not the submission order.
type ProgressCallback func(current, total int, message string)

// Task simulates repetition index. Each call must own its random source,
// arms and policy so repetitions share no mutable state.
type Task func(ctx context.Context, index int) (*simulation.Result, error)

// WorkerPool manages a pool of worker goroutines for parallel repetitions
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers
	}
	return &WorkerPool{
		numWorkers: numWorkers,
	}
}

// NumWorkers returns the concurrency limit of the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// RunRepetitions executes task for indexes 0..n-1 and returns the results
// in index order.
//
// The context is checked before each repetition starts, never inside one.
// The first task error or a context expiry stops new repetitions from
// starting and is returned once running repetitions have finished.
func (wp *WorkerPool) RunRepetitions(
	ctx context.Context,
	n int,
	task Task,
	progress ProgressCallback,
) ([]*simulation.Result, error) {
	if n <= 0 {
		return []*simulation.Result{}, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.numWorkers)

	results := make([]*simulation.Result, n)

	var mu sync.Mutex
	completed := 0

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := task(gctx, i)
			if err != nil {
				return fmt.Errorf("repetition %d: %w", i, err)
			}
			results[i] = res

			if progress != nil {
				mu.Lock()
				completed++
				progress(completed, n, fmt.Sprintf("Simulated repetition %d of %d", completed, n))
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
