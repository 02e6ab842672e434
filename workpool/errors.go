package workpool

import (
	"errors"
	"fmt"
)

var (
	// ErrStopping is returned by Submit once shutdown has begun.
	ErrStopping = errors.New("workpool: pool is stopping")

	// ErrQueueFull is returned by TrySubmit when a bounded queue has no
	// space for the task.
	ErrQueueFull = errors.New("workpool: queue is full")

	// ErrDropped completes the future of a Submit task that was still
	// queued when the pool shut down with drain=false.
	ErrDropped = errors.New("workpool: task dropped before execution")
)

// PanicError carries a panic recovered from a task submitted via Submit,
// including the goroutine stack captured at recovery time.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("workpool: task panic: %v", e.Value)
}
