package respool

import "sync/atomic"

// Lease is an exclusive borrowing of one pooled resource. Exactly one
// goroutine should use a lease at a time; it is not copied, only passed.
//
// Release returns the resource to the pool (or destroys it if the pool has
// shut down or the resource fails the return validation) and is safe to call
// more than once: only the first call has any effect. Leases may outlive the
// pool's shutdown; their resources are then destroyed on release.
type Lease[T any] struct {
	pool     *Pool[T]
	value    T
	released atomic.Bool
}

func newLease[T any](p *Pool[T], res T) *Lease[T] {
	return &Lease[T]{pool: p, value: res}
}

// Value returns the borrowed resource. After Release it returns the zero
// value of T.
func (l *Lease[T]) Value() T {
	if l.released.Load() {
		var zero T
		return zero
	}
	return l.value
}

// Release hands the resource back to the pool. Calling it again, or after
// the pool has shut down, is harmless.
func (l *Lease[T]) Release() {
	if !l.released.CompareAndSwap(false, true) {
		return
	}
	res := l.value
	var zero T
	l.value = zero
	l.pool.put(res)
}
