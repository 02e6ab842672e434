package respool

import "errors"

var (
	// ErrClosed is returned when the pool has been shut down.
	ErrClosed = errors.New("respool: pool is shut down")

	// ErrExhausted is returned by TryAcquire when no resource is idle and
	// the pool is at capacity.
	ErrExhausted = errors.New("respool: pool exhausted")

	// ErrRejected is returned when the validator refuses a freshly
	// constructed resource.
	ErrRejected = errors.New("respool: validator rejected new resource")
)
