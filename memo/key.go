package memo

import (
	"strconv"

	"github.com/jonwraymond/filememo/fingerprint"
)

// AttemptParam is the reserved named-argument slot holding the attempt
// disambiguator.
const AttemptParam = "_n_attempt_cache_id"

// Args is the record of one call.
type Args struct {
	// Positional holds arguments in declaration order.
	Positional []any

	// Named holds arguments passed by name.
	Named map[string]any
}

// Key is the composite cache key of one call.
type Key struct {
	Args      string // fingerprint of positionals mapped to parameter names
	Named     string // fingerprint of named arguments plus the attempt
	Signature string // behavior signature
}

// String concatenates the parts in args, named, signature order.
func (k Key) String() string {
	return k.Args + k.Named + k.Signature
}

// paramName returns the name of the positional argument at i.
func paramName(params []string, i int) string {
	if i < len(params) {
		return params[i]
	}
	return "arg" + strconv.Itoa(i)
}

// deriveKey builds the cache key for args under the given parameter names,
// exclusion set and signature.
func deriveKey(fp *fingerprint.Fingerprinter, params []string, signature string, args Args, attempt int) Key {
	excluded := fp.Excluded()

	positional := make(map[string]any, len(args.Positional))
	for i, v := range args.Positional {
		name := paramName(params, i)
		if excluded.Has(name) {
			continue
		}
		positional[name] = v
	}

	named := make(map[string]any, len(args.Named)+1)
	for k, v := range args.Named {
		if excluded.Has(k) {
			continue
		}
		named[k] = v
	}
	named[AttemptParam] = attempt

	return Key{
		Args:      fp.Sum(positional),
		Named:     fp.Sum(named),
		Signature: signature,
	}
}
