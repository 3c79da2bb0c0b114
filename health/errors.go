package health

import "errors"

var (
	// ErrCheckTimeout indicates a health check did not finish in time.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound indicates no checker is registered under a name.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrDuplicateChecker indicates a checker name is already registered.
	ErrDuplicateChecker = errors.New("health: checker already registered")

	// ErrNoCheckers indicates Run was called with nothing registered.
	ErrNoCheckers = errors.New("health: no checkers registered")
)
