package resilience

import (
	"context"
	"time"
)

// Executor composes a circuit breaker around a retry policy. Either may be
// absent; an empty Executor just runs the operation.
type Executor struct {
	circuitBreaker *CircuitBreaker
	retry          *Retry
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new resilience executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewStoreExecutor returns the executor used for cache writes when none is
// configured: one quick retry inside a breaker that opens after five
// consecutive failed writes and probes again after thirty seconds.
func NewStoreExecutor() *Executor {
	return NewExecutor(
		WithCircuitBreaker(NewCircuitBreaker(CircuitBreakerConfig{
			MaxFailures:  5,
			ResetTimeout: 30 * time.Second,
		})),
		WithRetry(NewRetry(RetryConfig{
			MaxAttempts:  2,
			InitialDelay: 10 * time.Millisecond,
			Strategy:     BackoffConstant,
		})),
	)
}

// WithCircuitBreaker adds a circuit breaker to the executor.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) {
		e.circuitBreaker = cb
	}
}

// WithRetry adds retry logic to the executor.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) {
		e.retry = r
	}
}

// CircuitBreaker returns the configured breaker, or nil.
func (e *Executor) CircuitBreaker() *CircuitBreaker {
	return e.circuitBreaker
}

// Execute runs op through the configured patterns. The breaker is outermost,
// so a burst of retries counts as one failure.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	execute := op

	if e.retry != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.retry.Execute(ctx, inner)
		}
	}

	if e.circuitBreaker != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.circuitBreaker.Execute(ctx, inner)
		}
	}

	return execute(ctx)
}
