package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewRetry_Defaults(t *testing.T) {
	r := NewRetry(RetryConfig{})

	if r.config.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", r.config.MaxAttempts)
	}
	if r.config.InitialDelay != 100*time.Millisecond {
		t.Errorf("InitialDelay = %v, want 100ms", r.config.InitialDelay)
	}
	if r.config.MaxDelay != 30*time.Second {
		t.Errorf("MaxDelay = %v, want 30s", r.config.MaxDelay)
	}
	if r.config.Multiplier != 2.0 {
		t.Errorf("Multiplier = %f, want 2.0", r.config.Multiplier)
	}
}

func TestRetry_SuccessOnRetry(t *testing.T) {
	r := NewRetry(RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond})

	attempts := 0
	err := r.Execute(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errWrite
		}
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_ExhaustedAttempts(t *testing.T) {
	r := NewRetry(RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond})

	attempts := 0
	err := r.Execute(context.Background(), func(context.Context) error {
		attempts++
		return errWrite
	})

	if !errors.Is(err, ErrMaxRetriesExceeded) || !errors.Is(err, errWrite) {
		t.Errorf("Execute() error = %v, want ErrMaxRetriesExceeded wrapping %v", err, errWrite)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_SingleAttemptIsUnwrapped(t *testing.T) {
	r := NewRetry(RetryConfig{MaxAttempts: 1})

	err := r.Execute(context.Background(), func(context.Context) error { return errWrite })
	if err != errWrite {
		t.Errorf("Execute() error = %v, want %v", err, errWrite)
	}
}

func TestRetry_NotRetried(t *testing.T) {
	skip := errors.New("skip")

	tests := []struct {
		name string
		err  error
	}{
		{"permanent", Permanent(errWrite)},
		{"canceled", context.Canceled},
		{"deadline", context.DeadlineExceeded},
		{"RetryIf false", skip},
	}

	r := NewRetry(RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		RetryIf:      func(err error) bool { return !errors.Is(err, skip) },
	})

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			attempts := 0
			err := r.Execute(context.Background(), func(context.Context) error {
				attempts++
				return tc.err
			})
			if err != tc.err {
				t.Errorf("Execute() error = %v, want %v", err, tc.err)
			}
			if attempts != 1 {
				t.Errorf("attempts = %d, want 1", attempts)
			}
		})
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxAttempts:  10,
		InitialDelay: 100 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := r.Execute(ctx, func(context.Context) error { return errWrite })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestRetry_OnRetry(t *testing.T) {
	var attempts []int

	r := NewRetry(RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			attempts = append(attempts, attempt)
		},
	})

	_ = r.Execute(context.Background(), func(context.Context) error { return errWrite })

	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("OnRetry attempts = %v, want [1 2]", attempts)
	}
}

func TestRetry_BackoffStrategies(t *testing.T) {
	tests := []struct {
		name    string
		config  RetryConfig
		attempt int
		want    time.Duration
	}{
		{
			name:    "exponential",
			config:  RetryConfig{InitialDelay: 10 * time.Millisecond, Multiplier: 2, Strategy: BackoffExponential},
			attempt: 3,
			want:    40 * time.Millisecond,
		},
		{
			name:    "linear",
			config:  RetryConfig{InitialDelay: 10 * time.Millisecond, Strategy: BackoffLinear},
			attempt: 3,
			want:    30 * time.Millisecond,
		},
		{
			name:    "constant",
			config:  RetryConfig{InitialDelay: 10 * time.Millisecond, Strategy: BackoffConstant},
			attempt: 3,
			want:    10 * time.Millisecond,
		},
		{
			name:    "max delay cap",
			config:  RetryConfig{InitialDelay: time.Second, MaxDelay: 5 * time.Second, Multiplier: 10},
			attempt: 5,
			want:    5 * time.Second,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewRetry(tc.config).calculateDelay(tc.attempt); got != tc.want {
				t.Errorf("calculateDelay(%d) = %v, want %v", tc.attempt, got, tc.want)
			}
		})
	}
}

func TestRetry_JitterBounds(t *testing.T) {
	r := NewRetry(RetryConfig{InitialDelay: 100 * time.Millisecond, Strategy: BackoffConstant, Jitter: true})

	for i := 0; i < 50; i++ {
		d := r.calculateDelay(1)
		if d < 100*time.Millisecond || d >= 125*time.Millisecond {
			t.Fatalf("jittered delay = %v, want [100ms, 125ms)", d)
		}
	}
}

func TestPermanent(t *testing.T) {
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
	err := Permanent(errWrite)
	if !IsPermanent(err) {
		t.Error("IsPermanent should see a Permanent error")
	}
	if !errors.Is(err, errWrite) {
		t.Error("Permanent should wrap the original error")
	}
	if err.Error() != errWrite.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), errWrite.Error())
	}
	if IsPermanent(errWrite) {
		t.Error("plain errors are not permanent")
	}
}
