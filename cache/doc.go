// Package cache provides the persistent key-value store behind memoized
// computations.
//
// Entries are opaque byte blobs addressed by a filesystem-safe name. The
// FileCache keeps one file per entry in a single directory with no index:
// existence is decided by file name alone. Entries are never rewritten in
// place and never evicted; use FileCache.Purge (or memoctl purge) to reclaim
// space out-of-band.
//
// Codecs turn results into blobs. GobCodec is the default.
package cache
