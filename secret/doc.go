// Package secret expands environment references in configuration values.
//
// Configured paths may name credentials or per-user locations, so expansion
// is strict: a ${VAR} reference to an unset variable is an error rather than
// an empty string that silently points somewhere else.
package secret
