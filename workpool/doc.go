// Package workpool provides a fixed-size worker pool with an independent
// concurrency cap, bounded or unbounded FIFO queueing, and future-returning
// submission.
//
// A Pool owns N long-lived worker goroutines pulling tasks from one shared
// FIFO queue. Separately from N, at most P tasks execute at once: workers
// take a permit from a semaphore sized P before running a task. Threads give
// availability (something can always dequeue), permits give throttling (e.g.
// cap CPU-bound work at core count while extra workers absorb bursts). Set
// P >= N to disable throttling.
//
// # Basic Usage
//
//	pool := workpool.New(
//	    workpool.WithWorkers(8),
//	    workpool.WithParallelism(4),
//	    workpool.WithQueueSize(1024),
//	    workpool.WithName("ingest"),
//	)
//	defer pool.Shutdown(true)
//
//	pool.Post(func() {
//	    // fire-and-forget
//	})
//
//	fut, err := workpool.Submit(pool, func() (int, error) {
//	    return 2 + 3, nil
//	})
//	if err != nil {
//	    return err
//	}
//	sum, err := fut.Get()
//
// # Queueing and Backpressure
//
// TryPost never blocks: it reports false when the pool is stopping or a
// bounded queue is full. Post blocks on a full bounded queue until space
// frees or the pool starts stopping, and reports false only in the latter
// case. Dequeue order is strict FIFO per queue; completion order is not FIFO
// when P > 1. Callers needing ordered completion should use P = 1 or chain
// futures.
//
// # Shutdown
//
// Shutdown(drain) is the pool's only state transition and it is monotonic.
// The first caller wins: with drain=true the queue is run dry before workers
// exit; with drain=false queued tasks are dropped (futures of dropped Submit
// tasks complete with ErrDropped) and only already-dequeued tasks finish.
// Both modes release producers blocked in Post and then join every worker.
// A task must not call Shutdown on its own pool; that deadlocks in the join.
//
// # Failure Policy
//
// A panicking task never kills its worker. Panics from Submit tasks are
// delivered through the future as a *PanicError; panics from Post/TryPost
// tasks are swallowed after the optional WithPanicHandler hook runs. The only
// pool-level failures are rejection while stopping and a full bounded queue.
package workpool
