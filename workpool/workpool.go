package workpool

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Task is an opaque unit of work.
type Task func()

// Pool is a fixed-size worker pool. Create one with New; the zero value is
// not usable. All methods are safe for concurrent use by any number of
// goroutines.
type Pool struct {
	conf    *poolConfig
	permits *semaphore.Weighted

	mu        sync.Mutex
	queue     taskQueue
	workCond  *sync.Cond // signaled when the queue gains an item or stopping flips
	spaceCond *sync.Cond // signaled when a bounded queue frees a slot or stopping flips

	stopping atomic.Bool
	active   atomic.Int64

	wg   sync.WaitGroup
	done chan struct{} // closed once all workers have exited
}

// New creates a pool and starts its workers immediately.
func New(opts ...Option) *Pool {
	cfg := defaultPoolConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.parallelism == 0 {
		cfg.parallelism = cfg.workers
	}

	p := &Pool{
		conf:    cfg,
		permits: semaphore.NewWeighted(int64(cfg.parallelism)),
		done:    make(chan struct{}),
	}
	p.workCond = sync.NewCond(&p.mu)
	p.spaceCond = sync.NewCond(&p.mu)

	p.wg.Add(cfg.workers)
	for i := 0; i < cfg.workers; i++ {
		go p.worker()
	}
	return p
}

// TryPost enqueues task without blocking. It reports false if the pool is
// stopping or a bounded queue is full.
func (p *Pool) TryPost(task Task) bool {
	if task == nil {
		return false
	}
	return p.tryPost(item{run: task})
}

// Post enqueues task, blocking while a bounded queue is full. It reports
// false only if the pool was, or became, stopping before the enqueue
// succeeded; shutdown releases blocked callers promptly.
func (p *Pool) Post(task Task) bool {
	if task == nil {
		return false
	}
	return p.post(item{run: task})
}

func (p *Pool) post(it item) bool {
	if p.stopping.Load() {
		return false
	}
	p.mu.Lock()
	if p.conf.maxQueue > 0 {
		for p.queue.len() >= p.conf.maxQueue && !p.stopping.Load() {
			p.spaceCond.Wait()
		}
	}
	if p.stopping.Load() {
		p.mu.Unlock()
		return false
	}
	p.queue.push(it)
	p.mu.Unlock()
	p.workCond.Signal()
	return true
}

func (p *Pool) tryPost(it item) bool {
	if p.stopping.Load() {
		return false
	}
	p.mu.Lock()
	if p.stopping.Load() || (p.conf.maxQueue > 0 && p.queue.len() >= p.conf.maxQueue) {
		p.mu.Unlock()
		return false
	}
	p.queue.push(it)
	p.mu.Unlock()
	p.workCond.Signal()
	return true
}

// worker is the loop run by each of the pool's goroutines: dequeue, take a
// permit, execute, release. Exits once stopping is set and the queue is
// empty (drain=false shutdown empties it up front).
func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for p.queue.len() == 0 && !p.stopping.Load() {
			p.workCond.Wait()
		}
		if p.queue.len() == 0 {
			p.mu.Unlock()
			return
		}
		it := p.queue.pop()
		p.mu.Unlock()
		if p.conf.maxQueue > 0 {
			p.spaceCond.Signal()
		}
		p.runTask(it.run)
	}
}

// runTask executes one task under the concurrency permit. The permit wait
// may block even during a drain shutdown when P tasks are already running.
func (p *Pool) runTask(task Task) {
	if p.conf.rateLimiter != nil {
		_ = p.conf.rateLimiter.Wait(context.Background())
	}
	_ = p.permits.Acquire(context.Background(), 1)
	p.active.Add(1)
	defer func() {
		p.active.Add(-1)
		p.permits.Release(1)
	}()

	defer func() {
		if r := recover(); r != nil && p.conf.onPanic != nil {
			p.conf.onPanic(r)
		}
		if p.conf.afterTask != nil {
			p.conf.afterTask()
		}
	}()
	if p.conf.beforeTask != nil {
		p.conf.beforeTask()
	}
	task()
}

// Shutdown stops the pool and joins every worker before returning. The first
// caller fixes the policy: with drain=true queued tasks still run; with
// drain=false they are dropped and only tasks already dequeued finish. In
// both modes producers blocked in Post are released and report false.
// Subsequent calls ignore their argument and simply wait for the join.
func (p *Pool) Shutdown(drain bool) {
	if p.stopping.CompareAndSwap(false, true) {
		// Taking the lock orders the stopping flag against workers parked
		// between their check and Wait, so the broadcast cannot be missed.
		p.mu.Lock()
		if !drain {
			p.queue.clear()
		}
		p.mu.Unlock()
		p.workCond.Broadcast()
		p.spaceCond.Broadcast()
		p.wg.Wait()
		close(p.done)
		return
	}
	<-p.done
}

// Close shuts the pool down with the policy configured by
// WithDrainOnShutdown (drain by default).
func (p *Pool) Close() {
	p.Shutdown(p.conf.drainOnShutdown)
}

// Stopping reports whether shutdown has begun. It never flips back.
func (p *Pool) Stopping() bool {
	return p.stopping.Load()
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.conf.workers }

// Parallelism returns the cap on simultaneously executing tasks.
func (p *Pool) Parallelism() int { return p.conf.parallelism }

// Name returns the pool's diagnostic name.
func (p *Pool) Name() string { return p.conf.name }

// QueueLen returns a best-effort count of queued, not-yet-dequeued tasks.
func (p *Pool) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.len()
}

// Active returns how many tasks are executing right now. Always <= Parallelism.
func (p *Pool) Active() int {
	return int(p.active.Load())
}
