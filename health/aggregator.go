package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// AggregatorConfig configures the health aggregator.
type AggregatorConfig struct {
	// Timeout bounds each Run.
	// Default: 10s
	Timeout time.Duration

	// MaxConcurrency limits how many checks run at once. 1 runs them in
	// registration order.
	// Default: 0 (unlimited)
	MaxConcurrency int
}

// NamedResult is a Result tagged with the checker that produced it.
type NamedResult struct {
	Name string `json:"name"`
	Result
}

// Report is the outcome of running every registered checker.
type Report struct {
	Status Status        `json:"status"`
	Checks []NamedResult `json:"checks"`
}

// Aggregator runs a set of checkers as one composite check.
type Aggregator struct {
	config   AggregatorConfig
	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string
}

// NewAggregator creates a new health aggregator.
func NewAggregator(config AggregatorConfig) *Aggregator {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &Aggregator{
		config:   config,
		checkers: make(map[string]Checker),
	}
}

// Register adds a checker under its Name.
func (a *Aggregator) Register(checker Checker) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	name := checker.Name()
	if _, exists := a.checkers[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
	}
	a.checkers[name] = checker
	a.order = append(a.order, name)
	return nil
}

// Names returns the registered checker names in registration order.
func (a *Aggregator) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, len(a.order))
	copy(names, a.order)
	return names
}

// Check runs a single named health check.
func (a *Aggregator) Check(ctx context.Context, name string) (Result, error) {
	a.mu.RLock()
	checker, ok := a.checkers[name]
	a.mu.RUnlock()

	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrCheckerNotFound, name)
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()
	return runCheck(ctx, checker), nil
}

// Run executes every registered checker and reports the worst status. Checks
// appear in registration order.
func (a *Aggregator) Run(ctx context.Context) (Report, error) {
	a.mu.RLock()
	checkers := make([]Checker, len(a.order))
	for i, name := range a.order {
		checkers[i] = a.checkers[name]
	}
	a.mu.RUnlock()

	if len(checkers) == 0 {
		return Report{}, ErrNoCheckers
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	checks := make([]NamedResult, len(checkers))

	var g errgroup.Group
	if a.config.MaxConcurrency > 0 {
		g.SetLimit(a.config.MaxConcurrency)
	}
	for i, checker := range checkers {
		g.Go(func() error {
			checks[i] = NamedResult{Name: checker.Name(), Result: runCheck(ctx, checker)}
			return nil
		})
	}
	_ = g.Wait()

	statuses := make([]Status, len(checks))
	for i, c := range checks {
		statuses[i] = c.Status
	}
	return Report{Status: Worst(statuses...), Checks: checks}, nil
}

func runCheck(ctx context.Context, checker Checker) Result {
	start := time.Now()
	resultCh := make(chan Result, 1)

	go func() {
		result := checker.Check(ctx)
		result.Duration = time.Since(start)
		if result.Timestamp.IsZero() {
			result.Timestamp = start
		}
		resultCh <- result
	}()

	select {
	case result := <-resultCh:
		return result
	case <-ctx.Done():
		return Result{
			Status:    StatusUnhealthy,
			Message:   "check timed out",
			Error:     ErrCheckTimeout,
			Duration:  time.Since(start),
			Timestamp: start,
		}
	}
}
