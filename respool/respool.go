package respool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Factory constructs a new resource. It is called without the pool lock held
// and may block (e.g. dialing a connection).
type Factory[T any] func() (T, error)

// Validator reports whether a resource is still usable. It is called without
// the pool lock held; a panic counts as "not usable".
type Validator[T any] func(T) bool

// Destroyer tears down a resource the pool is letting go of. It is called
// without the pool lock held; panics are swallowed.
type Destroyer[T any] func(T)

// Stats is a point-in-time snapshot of pool state. Values are exact at the
// instant of the call but may be stale by the time the caller looks at them.
type Stats struct {
	Idle     int
	Total    int
	MaxSize  int
	Shutdown bool
}

// Pool is a bounded, thread-safe pool of resources of type T.
//
// At most MaxSize resources are live at any moment. Idle resources are kept
// in a LIFO list so the most recently returned one is borrowed next. Create
// a Pool with New; the zero value is not usable.
type Pool[T any] struct {
	factory Factory[T]
	conf    *poolConfig[T]

	// slots bounds the number of concurrent lease holders (including
	// acquirers that have reserved capacity for a factory call). Sending
	// claims a slot, receiving frees one. Capacity equals MaxSize, which
	// is what makes blocking and timed acquisition a plain select.
	slots chan struct{}

	stop chan struct{} // closed by Shutdown to wake blocked acquirers

	mu     sync.Mutex
	idle   []T // LIFO: most recently returned at the tail
	total  int // live resources: idle + lent + reserved
	closed bool

	drainedOnce sync.Once
	drained     chan struct{} // closed when shut down and total reaches 0
}

// New creates a Pool that builds resources with factory. The initial
// resources, if configured, are constructed eagerly; if any of them fails,
// the ones already built are destroyed and the error is returned.
func New[T any](factory Factory[T], opts ...Option[T]) (*Pool[T], error) {
	if factory == nil {
		return nil, errors.New("respool: factory must not be nil")
	}

	cfg := defaultConfig[T]()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.initialSize > cfg.maxSize {
		return nil, fmt.Errorf("respool: initial size %d exceeds max size %d", cfg.initialSize, cfg.maxSize)
	}

	p := &Pool[T]{
		factory: factory,
		conf:    cfg,
		slots:   make(chan struct{}, cfg.maxSize),
		stop:    make(chan struct{}),
		drained: make(chan struct{}),
	}

	// Prefill trusts the factory; validation starts at first borrow.
	for i := 0; i < cfg.initialSize; i++ {
		res, err := p.callFactory()
		if err != nil {
			p.Shutdown()
			return nil, fmt.Errorf("respool: prefill: %w", err)
		}
		p.mu.Lock()
		p.idle = append(p.idle, res)
		p.total++
		p.mu.Unlock()
	}
	return p, nil
}

// Acquire borrows a resource, blocking while the pool is exhausted. The wait
// is bounded by ctx and by the pool's configured acquire timeout, whichever
// ends first. It fails with ErrClosed after Shutdown, with the context's
// error on timeout or cancellation, and with the factory's error if
// constructing a fresh resource fails.
func (p *Pool[T]) Acquire(ctx context.Context) (*Lease[T], error) {
	if d := p.conf.acquireTimeout; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	select {
	case p.slots <- struct{}{}:
	case <-p.stop:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, fmt.Errorf("respool: acquire: %w", ctx.Err())
	}
	return p.leaseWithSlot(ctx)
}

// TryAcquire borrows a resource without waiting. It fails with ErrExhausted
// when nothing is idle and the pool is at capacity, and with ErrClosed after
// Shutdown.
func (p *Pool[T]) TryAcquire() (*Lease[T], error) {
	select {
	case <-p.stop:
		return nil, ErrClosed
	default:
	}
	select {
	case p.slots <- struct{}{}:
	default:
		return nil, ErrExhausted
	}
	return p.leaseWithSlot(context.Background())
}

// leaseWithSlot turns a claimed slot into a lease: it reuses the most
// recently returned idle resource or constructs a fresh one. The slot is
// freed again on every failure path. ctx only bounds the validator retry
// loop; no waiting happens here.
func (p *Pool[T]) leaseWithSlot(ctx context.Context) (*Lease[T], error) {
	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			p.freeSlot()
			return nil, ErrClosed
		}

		if n := len(p.idle); n > 0 {
			res := p.idle[n-1]
			p.idle = p.idle[:n-1]
			p.mu.Unlock()

			if p.conf.validateOnAcquire && p.conf.validator != nil && !p.check(res) {
				p.discard(res)
				if err := ctx.Err(); err != nil {
					p.freeSlot()
					return nil, fmt.Errorf("respool: acquire: %w", err)
				}
				continue
			}
			return newLease(p, res), nil
		}

		if p.total >= p.conf.maxSize {
			// Unreachable while we hold a slot: every live resource is
			// either idle or accounted to another slot holder.
			p.mu.Unlock()
			p.freeSlot()
			return nil, ErrExhausted
		}

		p.total++ // reserve before calling the factory unlocked
		p.mu.Unlock()

		res, err := p.create()
		if err != nil {
			p.mu.Lock()
			p.total--
			p.mu.Unlock()
			p.freeSlot()
			return nil, err
		}
		return newLease(p, res), nil
	}
}

// create runs the factory and, when configured, validates the fresh
// resource. Callers own the capacity accounting.
func (p *Pool[T]) create() (T, error) {
	var zero T
	res, err := p.callFactory()
	if err != nil {
		return zero, fmt.Errorf("respool: factory: %w", err)
	}
	if p.conf.validateOnAcquire && p.conf.validator != nil && !p.check(res) {
		p.destroy(res)
		return zero, ErrRejected
	}
	return res, nil
}

func (p *Pool[T]) callFactory() (res T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("respool: factory panic: %v", r)
		}
	}()
	return p.factory()
}

// put returns a lent resource to the pool. Called by Lease.Release exactly
// once per lease.
func (p *Pool[T]) put(res T) {
	valid := true
	if p.conf.validateOnReturn && p.conf.validator != nil {
		valid = p.check(res)
	}

	p.mu.Lock()
	if p.closed || !valid {
		p.mu.Unlock()
		p.discard(res)
	} else {
		p.idle = append(p.idle, res)
		p.mu.Unlock()
	}
	p.freeSlot()
}

// discard destroys a live resource and decrements the live count.
func (p *Pool[T]) discard(res T) {
	p.destroy(res)
	p.mu.Lock()
	p.total--
	drained := p.closed && p.total == 0
	p.mu.Unlock()
	if drained {
		p.closeDrained()
	}
}

func (p *Pool[T]) check(res T) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return p.conf.validator(res)
}

func (p *Pool[T]) destroy(res T) {
	if p.conf.destroyer == nil {
		return
	}
	defer func() {
		_ = recover() // a failing destroyer must not disturb pool state
	}()
	p.conf.destroyer(res)
}

func (p *Pool[T]) freeSlot() {
	<-p.slots
}

func (p *Pool[T]) closeDrained() {
	p.drainedOnce.Do(func() { close(p.drained) })
}

// Shutdown transitions the pool to its terminal state: blocked and future
// acquirers fail with ErrClosed, idle resources are destroyed immediately,
// and resources still lent out are destroyed when their leases are released.
// It never blocks on outstanding leases and is safe to call more than once.
func (p *Pool[T]) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	idle := p.idle
	p.idle = nil
	p.total -= len(idle)
	drained := p.total == 0
	p.mu.Unlock()

	close(p.stop)
	for _, res := range idle {
		p.destroy(res)
	}
	if drained {
		p.closeDrained()
	}
}

// ShutdownWait shuts the pool down and then blocks until every outstanding
// lease has been released (each returning resource is destroyed as it
// arrives) or ctx is done. It returns nil once the pool is fully drained.
func (p *Pool[T]) ShutdownWait(ctx context.Context) error {
	p.Shutdown()
	select {
	case <-p.drained:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("respool: shutdown wait: %w", ctx.Err())
	}
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool[T]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Idle:     len(p.idle),
		Total:    p.total,
		MaxSize:  p.conf.maxSize,
		Shutdown: p.closed,
	}
}

// MaxSize returns the configured ceiling on live resources.
func (p *Pool[T]) MaxSize() int { return p.conf.maxSize }

// AcquireTimeout returns the configured default acquire bound.
func (p *Pool[T]) AcquireTimeout() time.Duration { return p.conf.acquireTimeout }
