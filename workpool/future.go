package workpool

import (
	"context"
	"sync"
	"time"
)

// Future is a one-shot cell that will eventually hold either a value of type
// R or an error. It is created by Submit and completed exactly once by the
// worker that runs the task (or by shutdown, for dropped tasks). Any number
// of goroutines may wait on it; every Get observes the same outcome.
type Future[R any] struct {
	done  chan struct{}
	once  sync.Once
	value R
	err   error
}

func newFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

// complete stores the outcome and wakes all waiters. Later calls are no-ops,
// which makes the panic-recovery path safe.
func (f *Future[R]) complete(value R, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Get blocks until the task completes and returns its result.
func (f *Future[R]) Get() (R, error) {
	<-f.done
	return f.value, f.err
}

// GetWithContext is Get bounded by ctx. When ctx ends first it returns the
// zero value and ctx's error; the task itself keeps running.
func (f *Future[R]) GetWithContext(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// GetWithTimeout is Get bounded by a duration.
func (f *Future[R]) GetWithTimeout(d time.Duration) (R, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return f.GetWithContext(ctx)
}

// IsReady reports whether the result is already available, without blocking.
func (f *Future[R]) IsReady() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when the result becomes available, for use
// in select statements.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}
