// Package workers runs independent units of work on a bounded pool and
// waits for all of them.
package workers

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// Resolve turns a requested worker count into an actual pool size.
// n <= 0 means one worker per available CPU. The result is never below 1,
// and never above the number of items when items > 0.
func Resolve(n, items int) int {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if items > 0 && n > items {
		n = items
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Map calls fn once per item on at most n goroutines and returns the
// results after every call has finished.
//
// Results come back in completion order, not input order. The first error
// cancels the context passed to the remaining calls and is returned; in
// that case the results are discarded. With n == 1 the items run strictly
// one after another.
func Map[In, Out any](ctx context.Context, n int, items []In, fn func(context.Context, In) (Out, error)) ([]Out, error) {
	if len(items) == 0 {
		return nil, nil
	}

	p := pool.NewWithResults[Out]().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(Resolve(n, len(items)))

	for _, item := range items {
		p.Go(func(ctx context.Context) (Out, error) {
			return fn(ctx, item)
		})
	}

	out, err := p.Wait()
	if err != nil {
		return nil, err
	}
	return out, nil
}
