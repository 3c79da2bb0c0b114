package cache

import (
	"context"
	"errors"
	"strings"
)

// MaxNameLength is the maximum allowed length for an entry name. It matches
// the common filesystem limit for a single path element.
const MaxNameLength = 255

// Sentinel errors for cache operations.
var (
	ErrNilCache    = errors.New("cache: cache is nil")
	ErrInvalidName = errors.New("cache: entry name is invalid")
	ErrNameTooLong = errors.New("cache: entry name exceeds max length")
	ErrCorrupt     = errors.New("cache: entry is corrupt")
)

// Cache is the interface for persisting memoized results.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use. Concurrent
//   writers of the same name race; the last writer wins.
// - Context: methods should honor cancellation/deadlines where applicable.
// - Errors: Get returns (nil, false, nil) on a miss and a non-nil error only
//   when an entry exists but cannot be read.
type Cache interface {
	// Get retrieves the blob stored under name.
	Get(ctx context.Context, name string) ([]byte, bool, error)

	// Set stores data under name, replacing any previous entry.
	Set(ctx context.Context, name string, data []byte) error

	// Delete removes an entry. Idempotent - no error on miss.
	Delete(ctx context.Context, name string) error
}

// ValidateName checks that name is usable as a single filesystem entry.
func ValidateName(name string) error {
	if name == "" || strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00\n\r") {
		return ErrInvalidName
	}
	return nil
}
