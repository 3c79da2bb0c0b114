package cache

import (
	"fmt"
	"os"
	"strings"

	"github.com/jonwraymond/filememo/secret"
)

// Environment variables consulted when resolving the store.
const (
	// EnvDir overrides the cache directory. A leading ~ and ${VAR}
	// references are expanded; a missing variable is an error.
	EnvDir = "MEMO_CACHE_DIR"

	// EnvEnabled disables caching when set to "0" or "false".
	EnvEnabled = "MEMO_CACHE"
)

// DefaultDir is the cache directory used when EnvDir is unset. It is
// relative to the working directory.
const DefaultDir = ".cache/file_cache"

// Dir resolves the cache directory.
// Precedence:
//  1. MEMO_CACHE_DIR, if set and non-empty after expansion
//  2. DefaultDir
func Dir() (string, error) {
	raw, ok := os.LookupEnv(EnvDir)
	if !ok || raw == "" {
		return DefaultDir, nil
	}
	dir, err := secret.ExpandPath(raw)
	if err != nil {
		return "", fmt.Errorf("cache: resolve %s: %w", EnvDir, err)
	}
	if dir == "" {
		return DefaultDir, nil
	}
	return dir, nil
}

// Enabled reports whether caching is on. MEMO_CACHE set to 0, false, off or
// no turns it off.
func Enabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvEnabled))) {
	case "0", "false", "off", "no":
		return false
	}
	return true
}
