package workpool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
)

// Submit enqueues fn with Post semantics and returns a Future for its
// result. fn's closure owns everything it captures; capture values, not
// pointers to stack frames you intend to reuse.
//
// It fails with ErrStopping when the pool is shutting down. If the task is
// later dropped by a drain=false shutdown, the future completes with
// ErrDropped. A panic inside fn completes the future with a *PanicError.
//
// Submit is a function rather than a method because Go methods cannot
// introduce type parameters.
func Submit[R any](p *Pool, fn func() (R, error)) (*Future[R], error) {
	if fn == nil {
		return nil, errors.New("workpool: submit: nil function")
	}
	f := newFuture[R]()
	if !p.post(futureItem(f, fn)) {
		return nil, ErrStopping
	}
	return f, nil
}

// TrySubmit is Submit with TryPost semantics: it never blocks, failing with
// ErrQueueFull when a bounded queue has no space.
func TrySubmit[R any](p *Pool, fn func() (R, error)) (*Future[R], error) {
	if fn == nil {
		return nil, errors.New("workpool: submit: nil function")
	}
	if p.stopping.Load() {
		return nil, ErrStopping
	}
	f := newFuture[R]()
	if !p.tryPost(futureItem(f, fn)) {
		if p.stopping.Load() {
			return nil, ErrStopping
		}
		return nil, ErrQueueFull
	}
	return f, nil
}

func futureItem[R any](f *Future[R], fn func() (R, error)) item {
	run := func() {
		defer func() {
			if r := recover(); r != nil {
				buf := make([]byte, 4096)
				n := runtime.Stack(buf, false)
				var zero R
				f.complete(zero, &PanicError{Value: r, Stack: buf[:n]})
			}
		}()
		value, err := fn()
		f.complete(value, err)
	}
	drop := func() {
		var zero R
		f.complete(zero, ErrDropped)
	}
	return item{run: run, drop: drop}
}

// Map runs fn over every element of items on the pool and collects the
// results in input order. The first task error is returned, but all tasks
// are still awaited so no future is left dangling. ctx bounds the waiting,
// not the tasks themselves.
func Map[T, R any](ctx context.Context, p *Pool, items []T, fn func(T) (R, error)) ([]R, error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	futures := make([]*Future[R], len(items))
	var submitErr error
	for i, it := range items {
		it := it
		fut, err := Submit(p, func() (R, error) {
			return fn(it)
		})
		if err != nil {
			submitErr = fmt.Errorf("workpool: map: task %d: %w", i, err)
			break
		}
		futures[i] = fut
	}

	results := make([]R, len(items))
	var firstErr error
	for i, fut := range futures {
		if fut == nil {
			continue
		}
		value, err := fut.GetWithContext(ctx)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("workpool: map: task %d: %w", i, err)
		}
		results[i] = value
	}

	if firstErr != nil {
		return results, firstErr
	}
	return results, submitErr
}
