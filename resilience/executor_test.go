package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExecutor_Empty(t *testing.T) {
	e := NewExecutor()
	if e.CircuitBreaker() != nil {
		t.Error("empty executor should not have a circuit breaker")
	}

	called := false
	if err := e.Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	}); err != nil || !called {
		t.Errorf("Execute() = %v, called = %v", err, called)
	}
}

func TestExecutor_RetryInsideBreaker(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 2, ResetTimeout: time.Hour})
	e := NewExecutor(
		WithCircuitBreaker(cb),
		WithRetry(NewRetry(RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond})),
	)

	attempts := 0
	err := e.Execute(context.Background(), func(context.Context) error {
		attempts++
		return errWrite
	})
	if !errors.Is(err, errWrite) {
		t.Fatalf("Execute() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if got := cb.Metrics().Failures; got != 1 {
		t.Errorf("a retried burst should count as one failure, got %d", got)
	}

	_ = e.Execute(context.Background(), func(context.Context) error { return errWrite })
	if cb.State() != StateOpen {
		t.Fatalf("State = %v, want open", cb.State())
	}

	attempts = 0
	err = e.Execute(context.Background(), func(context.Context) error {
		attempts++
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) || attempts != 0 {
		t.Errorf("open executor = (%v, %d attempts), want ErrCircuitOpen and no attempts", err, attempts)
	}
}

func TestNewStoreExecutor(t *testing.T) {
	e := NewStoreExecutor()

	cb := e.CircuitBreaker()
	if cb == nil {
		t.Fatal("store executor should carry a circuit breaker")
	}
	if cb.config.MaxFailures != 5 {
		t.Errorf("MaxFailures = %d, want 5", cb.config.MaxFailures)
	}
	if e.retry.Config().MaxAttempts != 2 {
		t.Errorf("MaxAttempts = %d, want 2", e.retry.Config().MaxAttempts)
	}

	attempts := 0
	err := e.Execute(context.Background(), func(context.Context) error {
		attempts++
		if attempts == 1 {
			return errWrite
		}
		return nil
	})
	if err != nil || attempts != 2 {
		t.Errorf("Execute() = (%v, %d attempts), want success on second attempt", err, attempts)
	}
}
