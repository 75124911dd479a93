// Package future provides a minimal single-value future used by the
// deferred query façade.
package future

import (
	"context"
	"fmt"
)

// Future is the eventual result of a computation: a value or an error.
// It completes exactly once.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go starts fn on its own goroutine and returns a future for its result.
// A panic inside fn completes the future with an error.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				var zero T
				f.value, f.err = zero, fmt.Errorf("deferred computation panicked: %v", r)
			}
		}()

		f.value, f.err = fn()
	}()

	return f
}

// Await blocks until the future completes or ctx is done. A completed
// future always wins over a cancelled ctx.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
	}

	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
