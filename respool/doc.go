// Package respool provides a generic, bounded pool of expensive-to-create
// resources, handed out as scope-bound leases.
//
// The primary type is Pool[T], which owns up to a fixed number of live
// resources of type T (database connections are the canonical example).
// Resources are built by a caller-supplied factory, optionally health-checked
// by a validator on borrow and return, and torn down by an optional
// destroyer. Borrowing returns a Lease[T] that must be released exactly once;
// Release is idempotent, so deferring it is always safe.
//
// # Basic Usage
//
//	pool, err := respool.New(func() (*db.Conn, error) {
//	    return db.Dial(dsn)
//	},
//	    respool.WithMaxSize[*db.Conn](8),
//	    respool.WithInitialSize[*db.Conn](2),
//	    respool.WithValidator[*db.Conn](func(c *db.Conn) bool { return c.Alive() }),
//	    respool.WithDestroyer[*db.Conn](func(c *db.Conn) { c.Close() }),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Shutdown()
//
//	lease, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer lease.Release()
//	lease.Value().Query(...)
//
// # Semantics
//
// Idle resources are reused most-recently-returned first, which keeps caches
// and connections warm. When the pool is exhausted, Acquire blocks until a
// resource is returned, the context is done, or the pool shuts down. A
// resource rejected by the validator is destroyed and transparently replaced.
//
// The factory, validator and destroyer are never invoked while the pool's
// internal lock is held, so they may block, and may even use the pool
// themselves from other goroutines.
//
// Shutdown is non-blocking and idempotent: idle resources are destroyed
// immediately, outstanding leases stay usable, and their resources are
// destroyed on release instead of being re-pooled. ShutdownWait additionally
// waits until every outstanding lease has been returned.
package respool
