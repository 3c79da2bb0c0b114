package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means operations run normally.
	StateClosed State = iota
	// StateOpen means operations are rejected with ErrCircuitOpen.
	StateOpen
	// StateHalfOpen means a limited number of probes may run.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// MaxFailures is the number of consecutive failures that opens the circuit.
	// Default: 5
	MaxFailures int

	// ResetTimeout is how long the circuit stays open before probing.
	// Default: 30s
	ResetTimeout time.Duration

	// HalfOpenMaxRequests is the number of probes allowed while half-open.
	// Default: 1
	HalfOpenMaxRequests int

	// OnStateChange is called, under the breaker's lock, on every transition.
	OnStateChange func(from, to State)

	// IsFailure decides whether an error counts against the circuit.
	// Default: non-nil errors count, except Permanent and context errors.
	IsFailure func(err error) bool
}

// CircuitBreaker rejects operations after repeated failures.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu            sync.Mutex
	state         State
	failures      int
	rejected      int
	lastFailure   time.Time
	halfOpenCount int
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}
	if config.HalfOpenMaxRequests <= 0 {
		config.HalfOpenMaxRequests = 1
	}
	if config.IsFailure == nil {
		config.IsFailure = defaultIsFailure
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

func defaultIsFailure(err error) bool {
	if err == nil || IsPermanent(err) {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Execute runs op unless the circuit is open.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}

	err := op(ctx)
	cb.afterRequest(err)
	return err
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}

// Reset closes the circuit and clears its counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	cb.rejected = 0
	cb.halfOpenCount = 0
	cb.transitionLocked(StateClosed)
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentStateLocked() {
	case StateOpen:
		cb.rejected++
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.halfOpenCount >= cb.config.HalfOpenMaxRequests {
			cb.rejected++
			return ErrCircuitOpen
		}
		cb.halfOpenCount++
	}
	return nil
}

func (cb *CircuitBreaker) afterRequest(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	failed := cb.config.IsFailure(err)

	switch cb.state {
	case StateClosed:
		if !failed {
			cb.failures = 0
			return
		}
		cb.failures++
		cb.lastFailure = time.Now()
		if cb.failures >= cb.config.MaxFailures {
			cb.transitionLocked(StateOpen)
		}

	case StateHalfOpen:
		if failed {
			cb.lastFailure = time.Now()
			cb.transitionLocked(StateOpen)
			return
		}
		cb.failures = 0
		cb.transitionLocked(StateClosed)
	}
}

func (cb *CircuitBreaker) currentStateLocked() State {
	if cb.state == StateOpen && time.Since(cb.lastFailure) >= cb.config.ResetTimeout {
		cb.transitionLocked(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) transitionLocked(to State) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	if to == StateHalfOpen {
		cb.halfOpenCount = 0
	}
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, to)
	}
}

// Metrics returns current circuit breaker counters.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerMetrics{
		State:       cb.currentStateLocked(),
		Failures:    cb.failures,
		Rejected:    cb.rejected,
		LastFailure: cb.lastFailure,
	}
}

// CircuitBreakerMetrics contains circuit breaker statistics.
type CircuitBreakerMetrics struct {
	State       State
	Failures    int // consecutive failures while closed
	Rejected    int // operations refused while open or saturated half-open
	LastFailure time.Time
}
