package workpool

import (
	"runtime"

	"golang.org/x/time/rate"
)

// Option is a functional option for configuring a Pool.
type Option func(*poolConfig)

type poolConfig struct {
	workers         int
	parallelism     int
	maxQueue        int
	drainOnShutdown bool
	name            string
	rateLimiter     *rate.Limiter
	beforeTask      func()
	afterTask       func()
	onPanic         func(any)
}

func defaultPoolConfig() *poolConfig {
	return &poolConfig{
		workers:         runtime.GOMAXPROCS(0),
		parallelism:     0, // resolved to workers in New
		maxQueue:        0,
		drainOnShutdown: true,
	}
}

// WithWorkers sets the number of worker goroutines.
// Defaults to runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(cfg *poolConfig) {
		if n > 0 {
			cfg.workers = n
		}
	}
}

// WithParallelism caps how many tasks may execute simultaneously. It may be
// below the worker count (throttling) or above it (no throttling). Defaults
// to the worker count.
func WithParallelism(p int) Option {
	return func(cfg *poolConfig) {
		if p > 0 {
			cfg.parallelism = p
		}
	}
}

// WithQueueSize bounds the task queue. Zero, the default, means unbounded.
func WithQueueSize(n int) Option {
	return func(cfg *poolConfig) {
		if n >= 0 {
			cfg.maxQueue = n
		}
	}
}

// WithDrainOnShutdown sets the policy Close uses: whether queued tasks are
// run (true, the default) or dropped when the pool is closed.
func WithDrainOnShutdown(drain bool) Option {
	return func(cfg *poolConfig) {
		cfg.drainOnShutdown = drain
	}
}

// WithName sets a diagnostic name reported by Name.
func WithName(name string) Option {
	return func(cfg *poolConfig) {
		cfg.name = name
	}
}

// WithRateLimit applies a token-bucket limit to task starts across the whole
// pool: at most perSecond task starts per second with the given burst. Useful
// when tasks hit external services or APIs.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(cfg *poolConfig) {
		if perSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithBeforeTask registers a hook run right before each task executes, on
// the worker goroutine, after the concurrency permit has been taken.
func WithBeforeTask(fn func()) Option {
	return func(cfg *poolConfig) {
		cfg.beforeTask = fn
	}
}

// WithAfterTask registers a hook run after each task finishes, including
// tasks that panicked.
func WithAfterTask(fn func()) Option {
	return func(cfg *poolConfig) {
		cfg.afterTask = fn
	}
}

// WithPanicHandler registers an observer for panics recovered from
// fire-and-forget tasks. Without it such panics are silently swallowed.
func WithPanicHandler(fn func(recovered any)) Option {
	return func(cfg *poolConfig) {
		cfg.onPanic = fn
	}
}
