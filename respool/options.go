package respool

import "time"

// Option is a functional option for configuring a Pool.
type Option[T any] func(*poolConfig[T])

type poolConfig[T any] struct {
	initialSize       int
	maxSize           int
	acquireTimeout    time.Duration
	validateOnAcquire bool
	validateOnReturn  bool
	validator         Validator[T]
	destroyer         Destroyer[T]
}

func defaultConfig[T any]() *poolConfig[T] {
	return &poolConfig[T]{
		initialSize:       0,
		maxSize:           10,
		acquireTimeout:    30 * time.Second,
		validateOnAcquire: true,
		validateOnReturn:  true,
	}
}

// WithInitialSize sets the number of resources constructed eagerly when the
// pool is created. Defaults to 0 (all resources are built lazily on demand).
func WithInitialSize[T any](n int) Option[T] {
	return func(cfg *poolConfig[T]) {
		if n >= 0 {
			cfg.initialSize = n
		}
	}
}

// WithMaxSize sets the hard ceiling on live resources (idle plus lent).
// Defaults to 10.
func WithMaxSize[T any](n int) Option[T] {
	return func(cfg *poolConfig[T]) {
		if n > 0 {
			cfg.maxSize = n
		}
	}
}

// WithAcquireTimeout sets the default bound on how long Acquire waits when
// the pool is exhausted, applied in addition to the caller's context.
// Zero disables the default bound. Defaults to 30 seconds.
func WithAcquireTimeout[T any](d time.Duration) Option[T] {
	return func(cfg *poolConfig[T]) {
		if d >= 0 {
			cfg.acquireTimeout = d
		}
	}
}

// WithValidator sets the health check applied to resources. By default it
// runs both when a resource is borrowed and when it is returned; tune that
// with WithValidateOnAcquire and WithValidateOnReturn. A panicking validator
// counts as a rejection.
func WithValidator[T any](fn Validator[T]) Option[T] {
	return func(cfg *poolConfig[T]) {
		cfg.validator = fn
	}
}

// WithValidateOnAcquire toggles validation of idle resources at borrow time.
func WithValidateOnAcquire[T any](on bool) Option[T] {
	return func(cfg *poolConfig[T]) {
		cfg.validateOnAcquire = on
	}
}

// WithValidateOnReturn toggles validation of resources at return time.
func WithValidateOnReturn[T any](on bool) Option[T] {
	return func(cfg *poolConfig[T]) {
		cfg.validateOnReturn = on
	}
}

// WithDestroyer sets the teardown hook invoked once per resource before the
// pool lets go of it. Panics from the destroyer are swallowed.
func WithDestroyer[T any](fn Destroyer[T]) Option[T] {
	return func(cfg *poolConfig[T]) {
		cfg.destroyer = fn
	}
}
