// Package memo wraps expensive, deterministic computations so repeated calls
// with structurally identical arguments are served from a persistent cache.
//
// A Memoizer derives a cache key for every call from three parts:
//
//   - the fingerprint of the positional arguments, mapped to their declared
//     parameter names;
//   - the fingerprint of the named arguments, including the attempt
//     disambiguator (see WithAttempt);
//   - the behavior signature, fixed at construction from the function's
//     qualified name and its Version tag (or the binary's build identity
//     when no tag is given).
//
// The result is stored in one file per key named
// {module}_{function}_{key}{ext}. Cache infrastructure failures are logged
// at info and never returned: an unreadable entry is a miss and a failed
// write only forfeits the speedup. Errors from the wrapped function are
// returned unchanged and never cached.
//
// Concurrent calls with the same key may both compute and both write; the
// last writer wins.
//
// Typical use:
//
//	square, err := memo.Wrap1(func(ctx context.Context, x int) (int, error) {
//	    return x * x, nil
//	}, memo.Options{}, memo.WithParams("x"))
//	...
//	v, err := square.Call(ctx, 4)                    // computes, stores
//	v, err = square.Call(ctx, 4)                     // served from cache
//	v, err = square.Call(ctx, 4, memo.WithAttempt(1)) // distinct entry
package memo
