// Package resilience guards best-effort writes to a flaky store.
//
// A memoized call never fails because its result could not be persisted, but
// a store that fails on every write should not be hit on every call either.
// Retry covers transient failures such as a rename racing a concurrent
// writer; CircuitBreaker stops write attempts once failures pile up and
// probes again after a cool-down. Executor composes the two:
//
//	exec := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	        MaxFailures:  5,
//	        ResetTimeout: 30 * time.Second,
//	    })),
//	    resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
//	        MaxAttempts:  2,
//	        InitialDelay: 10 * time.Millisecond,
//	        Strategy:     resilience.BackoffConstant,
//	    })),
//	)
//
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return store.Set(ctx, name, data)
//	})
//
// Errors wrapped with Permanent are returned at once and never retried.
package resilience
