// Package fingerprint derives short, stable digests from arbitrary nested
// values for use as cache identities.
//
// A fingerprint is the hex MD5 of a value's canonical text, computed
// recursively: scalars hash their text form, slices and arrays hash the
// concatenation of their element fingerprints, maps and structs hash the
// concatenation of (key, value) fingerprint pairs. Recursion stops after
// MaxDepth levels and yields the MaxDepthReached sentinel, so values that
// differ only below the bound share a fingerprint.
//
// Fingerprints are a best-effort identity, not a collision-proof one.
package fingerprint
