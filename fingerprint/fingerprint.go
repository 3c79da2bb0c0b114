package fingerprint

import (
	"crypto/md5"
	"encoding"
	"encoding/hex"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// MaxDepth is the deepest nesting level that still contributes to a
// fingerprint. Anything below it collapses to MaxDepthReached.
const MaxDepth = 6

// TagName is the struct tag consulted for field names.
// `fingerprint:"name"` renames a field, `fingerprint:"-"` omits it.
const TagName = "fingerprint"

// Sentinel digests returned for values that cannot be described further.
var (
	// MaxDepthReached is returned for any value nested deeper than MaxDepth.
	MaxDepthReached = digest("max_depth_reached")

	// Unknown is returned for unsupported kinds (funcs, channels) and for
	// structured objects whose type name is excluded.
	Unknown = digest("unknown")

	// Nil is returned for nil pointers, interfaces and funcs. Nil slices and
	// maps fingerprint like their empty counterparts.
	Nil = digest("nil")
)

// Field is a named value exposed by a structured object.
type Field struct {
	Name  string
	Value any
}

// Fielder is implemented by types that enumerate their own fields instead of
// relying on struct reflection.
type Fielder interface {
	Fields() []Field
}

// Set is an immutable set of names excluded from fingerprinting. Names match
// map keys, struct field names, and structured object type names.
type Set map[string]struct{}

// NewSet builds a Set from names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set. A nil Set is empty.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Fingerprinter computes fingerprints under a fixed exclusion set.
//
// Contract:
// - Concurrency: safe for concurrent use; it holds no mutable state.
// - Errors: Sum is total and never panics on supported inputs.
type Fingerprinter struct {
	excluded Set
}

// New creates a Fingerprinter that skips the given names.
func New(excluded ...string) *Fingerprinter {
	return &Fingerprinter{excluded: NewSet(excluded...)}
}

// NewWithSet creates a Fingerprinter bound to an existing Set.
func NewWithSet(excluded Set) *Fingerprinter {
	return &Fingerprinter{excluded: excluded}
}

// Excluded returns the exclusion set.
func (f *Fingerprinter) Excluded() Set {
	return f.excluded
}

// Sum returns the fingerprint of v.
func (f *Fingerprinter) Sum(v any) string {
	return f.sum(reflect.ValueOf(v), 0)
}

// Sum is a convenience for New(excluded...).Sum(v).
func Sum(v any, excluded ...string) string {
	return New(excluded...).Sum(v)
}

func (f *Fingerprinter) sum(rv reflect.Value, depth int) string {
	if depth > MaxDepth {
		return MaxDepthReached
	}
	if !rv.IsValid() {
		return Nil
	}

	// Pointers and interfaces are transparent; they never cost depth. A chain
	// that revisits a pointer is a cycle and stops here.
	var hops []uintptr
	for {
		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Func:
			if rv.IsNil() {
				return Nil
			}
		}
		if rv.Kind() == reflect.Pointer {
			p := rv.Pointer()
			if slices.Contains(hops, p) {
				return MaxDepthReached
			}
			hops = append(hops, p)
		}
		if s, ok := f.custom(rv, depth); ok {
			return s
		}
		if rv.Kind() != reflect.Pointer && rv.Kind() != reflect.Interface {
			break
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Bool:
		return digest(strconv.FormatBool(rv.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return digest(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return digest(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32:
		return digest(strconv.FormatFloat(rv.Float(), 'g', -1, 32))
	case reflect.Float64:
		return digest(strconv.FormatFloat(rv.Float(), 'g', -1, 64))
	case reflect.Complex64:
		return digest(strconv.FormatComplex(rv.Complex(), 'g', -1, 64))
	case reflect.Complex128:
		return digest(strconv.FormatComplex(rv.Complex(), 'g', -1, 128))
	case reflect.String:
		return digest(rv.String())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return digest(string(rv.Bytes()))
		}
		return f.sequence(rv, depth)
	case reflect.Array:
		return f.sequence(rv, depth)
	case reflect.Map:
		return f.mapping(rv, depth)
	case reflect.Struct:
		if f.excluded.Has(rv.Type().Name()) {
			return Unknown
		}
		return f.entries(structFields(rv), depth+1)
	default:
		return Unknown
	}
}

// custom handles types that describe themselves.
func (f *Fingerprinter) custom(rv reflect.Value, depth int) (string, bool) {
	if !rv.CanInterface() {
		return "", false
	}
	switch v := rv.Interface().(type) {
	case Fielder:
		if f.excluded.Has(typeName(rv.Type())) {
			return Unknown, true
		}
		fields := v.Fields()
		pairs := make([]entry, 0, len(fields))
		for _, fd := range fields {
			pairs = append(pairs, entry{name: fd.Name, value: reflect.ValueOf(fd.Value)})
		}
		return f.entries(pairs, depth+1), true
	case encoding.TextMarshaler:
		text, err := v.MarshalText()
		if err != nil {
			return Unknown, true
		}
		return digest(string(text)), true
	}
	return "", false
}

func (f *Fingerprinter) sequence(rv reflect.Value, depth int) string {
	var b strings.Builder
	for i := 0; i < rv.Len(); i++ {
		b.WriteString(f.sum(rv.Index(i), depth+1))
	}
	return digest(b.String())
}

func (f *Fingerprinter) mapping(rv reflect.Value, depth int) string {
	type pair struct{ key, val string }

	pairs := make([]pair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		if name, ok := keyName(k); ok && f.excluded.Has(name) {
			continue
		}
		pairs = append(pairs, pair{
			key: f.sum(k, depth+1),
			val: f.sum(iter.Value(), depth+1),
		})
	}

	// Map iteration order is random; order entries by key fingerprint.
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].key != pairs[j].key {
			return pairs[i].key < pairs[j].key
		}
		return pairs[i].val < pairs[j].val
	})

	var b strings.Builder
	for _, p := range pairs {
		b.WriteString(p.key)
		b.WriteString(p.val)
	}
	return digest(b.String())
}

type entry struct {
	name  string
	value reflect.Value
}

// entries fingerprints an ordered field mapping as if it were a map at depth.
func (f *Fingerprinter) entries(pairs []entry, depth int) string {
	if depth > MaxDepth {
		return MaxDepthReached
	}
	var b strings.Builder
	for _, p := range pairs {
		if f.excluded.Has(p.name) {
			continue
		}
		b.WriteString(f.sum(reflect.ValueOf(p.name), depth+1))
		b.WriteString(f.sum(p.value, depth+1))
	}
	return digest(b.String())
}

func structFields(rv reflect.Value) []entry {
	t := rv.Type()
	out := make([]entry, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name := sf.Name
		if tag, ok := sf.Tag.Lookup(TagName); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		out = append(out, entry{name: name, value: rv.Field(i)})
	}
	return out
}

// keyName returns the name a map key is matched against in the exclusion set.
func keyName(k reflect.Value) (string, bool) {
	for k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	if k.Kind() == reflect.String {
		return k.String(), true
	}
	return "", false
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func digest(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
