package memo

import "context"

// Func1 is a memoized one-argument function.
type Func1[A, R any] struct {
	m *Memoizer[R]
}

// Wrap1 memoizes fn. Its parameter is named "arg0" unless WithParams says
// otherwise; the default names come from fn's runtime symbol.
func Wrap1[A, R any](fn func(context.Context, A) (R, error), opts Options, infra ...Option) (*Func1[A, R], error) {
	var def Definition[R]
	if fn != nil {
		def.Fn = func(ctx context.Context, args Args) (R, error) {
			return fn(ctx, as[A](args.Positional, 0))
		}
	}
	def.Params = []string{"arg0"}

	m, err := newMemoizer(def, fn, opts, infra)
	if err != nil {
		return nil, err
	}
	return &Func1[A, R]{m: m}, nil
}

// Call invokes the memoized function.
func (f *Func1[A, R]) Call(ctx context.Context, a A, opts ...CallOption) (R, error) {
	return f.m.Call(ctx, Args{Positional: []any{a}}, opts...)
}

// Meta returns the identity of the wrapped function.
func (f *Func1[A, R]) Meta() Meta {
	return f.m.Meta()
}

// Memoizer returns the underlying Memoizer.
func (f *Func1[A, R]) Memoizer() *Memoizer[R] {
	return f.m
}

// Func2 is a memoized two-argument function.
type Func2[A, B, R any] struct {
	m *Memoizer[R]
}

// Wrap2 memoizes fn. Its parameters are named "arg0" and "arg1" unless
// WithParams says otherwise.
func Wrap2[A, B, R any](fn func(context.Context, A, B) (R, error), opts Options, infra ...Option) (*Func2[A, B, R], error) {
	var def Definition[R]
	if fn != nil {
		def.Fn = func(ctx context.Context, args Args) (R, error) {
			return fn(ctx, as[A](args.Positional, 0), as[B](args.Positional, 1))
		}
	}
	def.Params = []string{"arg0", "arg1"}

	m, err := newMemoizer(def, fn, opts, infra)
	if err != nil {
		return nil, err
	}
	return &Func2[A, B, R]{m: m}, nil
}

// Call invokes the memoized function.
func (f *Func2[A, B, R]) Call(ctx context.Context, a A, b B, opts ...CallOption) (R, error) {
	return f.m.Call(ctx, Args{Positional: []any{a, b}}, opts...)
}

// Meta returns the identity of the wrapped function.
func (f *Func2[A, B, R]) Meta() Meta {
	return f.m.Meta()
}

// Memoizer returns the underlying Memoizer.
func (f *Func2[A, B, R]) Memoizer() *Memoizer[R] {
	return f.m
}

// as returns the positional at i as T, or T's zero value for a nil entry.
func as[T any](positional []any, i int) T {
	var zero T
	if i >= len(positional) || positional[i] == nil {
		return zero
	}
	return positional[i].(T)
}
