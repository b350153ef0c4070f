package pool

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool bounds the number of goroutines used for independent per-block
// transforms.
//
// Functions needing a *Pool work with a nil receiver, doing the equivalent
// work on the calling goroutine instead.
type Pool struct {
	workers int
}

// New creates a new pool with a certain number of workers.
//
// If count <= 0, the number of available CPUs is used instead.
func New(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}
	return &Pool{workers: count}
}

// Parallelize calls f with indices 0..count-1, returning the first error
// encountered. With a non-nil pool the calls run concurrently, at most
// workers at a time; callers must ensure the calls are independent.
func (p *Pool) Parallelize(count int, f func(int) error) error {
	if p == nil {
		for i := 0; i < count; i++ {
			if err := f(i); err != nil {
				return err
			}
		}
		return nil
	}
	g := new(errgroup.Group)
	g.SetLimit(p.workers)
	for i := 0; i < count; i++ {
		i := i
		g.Go(func() error {
			return f(i)
		})
	}
	return g.Wait()
}
