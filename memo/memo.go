package memo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/jonwraymond/filememo/cache"
	"github.com/jonwraymond/filememo/fingerprint"
	"github.com/jonwraymond/filememo/observe"
	"github.com/jonwraymond/filememo/resilience"
)

// Func is the signature of a memoizable computation.
type Func[R any] func(ctx context.Context, args Args) (R, error)

// Definition describes the computation being memoized.
type Definition[R any] struct {
	// Module is the defining package or logical module. Derived from Fn's
	// runtime symbol when both Module and Name are empty.
	Module string

	// Name is the function name. Derived from Fn's runtime symbol when empty.
	Name string

	// Params are the declared parameter names in positional order.
	// Positionals beyond Params are named argN.
	Params []string

	// Version tags the function's behavior. Change it whenever the logic
	// changes. When empty, the build identity of the binary is used instead.
	Version string

	// Fn is the computation. It receives the original call arguments.
	Fn Func[R]
}

// Meta exposes the identity of a memoized function.
type Meta struct {
	Module       string
	Name         string
	Params       []string
	Version      string
	Signature    string
	IgnoreParams []string
	Verbose      bool
	Enabled      bool
}

// Memoizer serves calls to a computation from a persistent cache.
//
// Contract:
// - Concurrency: safe for concurrent use. Concurrent misses for the same key
//   all compute; the last store wins.
// - Errors: Call returns only errors produced by the computation. Cache
//   failures are logged and otherwise invisible.
type Memoizer[R any] struct {
	fn       Func[R]
	meta     Meta
	funcMeta observe.FuncMeta
	fp       *fingerprint.Fingerprinter

	cache      cache.Cache
	codec      cache.Codec
	tracer     observe.Tracer
	metrics    observe.Metrics
	logger     observe.Logger
	executor   *resilience.Executor
	verboseOut io.Writer
	enabled    bool
}

// New creates a Memoizer for def. The behavior signature is computed here,
// once.
func New[R any](def Definition[R], opts Options, infra ...Option) (*Memoizer[R], error) {
	return newMemoizer(def, def.Fn, opts, infra)
}

// newMemoizer builds a Memoizer whose default names come from the symbol of
// named rather than def.Fn, so typed wrappers report the wrapped function.
func newMemoizer[R any](def Definition[R], named any, opts Options, infra []Option) (*Memoizer[R], error) {
	if def.Fn == nil {
		return nil, ErrNilFunc
	}

	cfg := newConfig(infra)
	if err := cfg.fill(); err != nil {
		return nil, fmt.Errorf("memo: configure: %w", err)
	}

	if cfg.params != nil {
		def.Params = cfg.params
	}
	if cfg.version != "" {
		def.Version = cfg.version
	}
	if cfg.name != "" {
		def.Module, def.Name = cfg.module, cfg.name
	}
	if def.Name == "" && def.Module == "" {
		def.Module, def.Name = splitSymbol(symbolName(named))
	}
	if def.Name == "" {
		return nil, ErrNoName
	}

	if err := validateParams(def.Params); err != nil {
		return nil, err
	}

	meta := Meta{
		Module:       def.Module,
		Name:         def.Name,
		Params:       slices.Clone(def.Params),
		Version:      def.Version,
		Signature:    behaviorSignature(def.Module, def.Name, def.Params, def.Version),
		IgnoreParams: slices.Clone(opts.IgnoreParams),
		Verbose:      opts.Verbose,
		Enabled:      *cfg.enabled,
	}
	funcMeta := observe.FuncMeta{Module: meta.Module, Name: meta.Name, Version: meta.Version}

	return &Memoizer[R]{
		fn:         def.Fn,
		meta:       meta,
		funcMeta:   funcMeta,
		fp:         fingerprint.New(opts.IgnoreParams...),
		cache:      cfg.cache,
		codec:      cfg.codec,
		tracer:     cfg.instruments.Tracer,
		metrics:    cfg.instruments.Metrics,
		logger:     cfg.instruments.Logger.WithFunc(funcMeta),
		executor:   cfg.executor,
		verboseOut: cfg.verboseOut,
		enabled:    *cfg.enabled,
	}, nil
}

func validateParams(params []string) error {
	seen := make(map[string]struct{}, len(params))
	for _, p := range params {
		if p == AttemptParam {
			return fmt.Errorf("%w: %s", ErrReservedParam, p)
		}
		if _, ok := seen[p]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateParam, p)
		}
		seen[p] = struct{}{}
	}
	return nil
}

// Meta returns the identity of the memoized function.
func (m *Memoizer[R]) Meta() Meta {
	meta := m.meta
	meta.Params = slices.Clone(meta.Params)
	meta.IgnoreParams = slices.Clone(meta.IgnoreParams)
	return meta
}

// Key returns the cache key a call with args would use.
func (m *Memoizer[R]) Key(args Args, opts ...CallOption) Key {
	cc := newCallConfig(opts)
	return deriveKey(m.fp, m.meta.Params, m.meta.Signature, args, cc.attempt)
}

// EntryName returns the store entry name a call with args would use.
func (m *Memoizer[R]) EntryName(args Args, opts ...CallOption) string {
	return cache.EntryName(m.meta.Module, m.meta.Name, m.Key(args, opts...).String(), m.codec.Ext())
}

// Call returns the cached result for args, computing and storing it on a
// miss.
func (m *Memoizer[R]) Call(ctx context.Context, args Args, opts ...CallOption) (result R, err error) {
	start := time.Now()
	ctx, span := m.tracer.StartSpan(ctx, m.funcMeta)

	outcome := observe.OutcomeMiss
	defer func() {
		m.tracer.EndSpan(span, outcome, err)
		m.metrics.RecordCall(ctx, m.funcMeta, outcome, time.Since(start), err)
	}()

	if !m.enabled {
		outcome = observe.OutcomeBypass
		return m.fn(ctx, args)
	}

	name := m.EntryName(args, opts...)

	if cached, ok := m.lookup(ctx, name); ok {
		outcome = observe.OutcomeHit
		m.reportHit(ctx, name)
		return cached, nil
	}

	result, err = m.fn(ctx, args)
	if err != nil {
		return result, err
	}

	m.store(ctx, name, result)
	return result, nil
}

// lookup reads and decodes the entry. Any failure is a miss.
func (m *Memoizer[R]) lookup(ctx context.Context, name string) (R, bool) {
	var zero R

	data, ok, err := m.cache.Get(ctx, name)
	if err != nil {
		m.logger.Info(ctx, "cache read failed, recomputing",
			observe.Field{Key: "entry", Value: name},
			observe.Field{Key: "error", Value: err},
		)
		m.metrics.RecordCacheError(ctx, m.funcMeta, "read")
		return zero, false
	}
	if !ok {
		return zero, false
	}

	var out R
	if err := m.codec.Unmarshal(data, &out); err != nil {
		m.logger.Info(ctx, "cache entry could not be decoded, recomputing",
			observe.Field{Key: "entry", Value: name},
			observe.Field{Key: "error", Value: err},
		)
		m.metrics.RecordCacheError(ctx, m.funcMeta, "decode")
		return zero, false
	}
	return out, true
}

// store encodes and writes result. Failures are logged and dropped.
func (m *Memoizer[R]) store(ctx context.Context, name string, result R) {
	data, err := m.codec.Marshal(result)
	if err != nil {
		m.logger.Info(ctx, "result could not be encoded, not cached",
			observe.Field{Key: "entry", Value: name},
			observe.Field{Key: "error", Value: err},
		)
		m.metrics.RecordCacheError(ctx, m.funcMeta, "encode")
		return
	}

	err = m.executor.Execute(ctx, func(ctx context.Context) error {
		err := m.cache.Set(ctx, name, data)
		if errors.Is(err, cache.ErrInvalidName) || errors.Is(err, cache.ErrNameTooLong) {
			return resilience.Permanent(err)
		}
		return err
	})
	if err != nil {
		m.logger.Info(ctx, "cache write failed, result not cached",
			observe.Field{Key: "entry", Value: name},
			observe.Field{Key: "error", Value: err},
		)
		m.metrics.RecordCacheError(ctx, m.funcMeta, "write")
	}
}

func (m *Memoizer[R]) reportHit(ctx context.Context, name string) {
	if !m.meta.Verbose {
		m.logger.Debug(ctx, "cache hit", observe.Field{Key: "entry", Value: name})
		return
	}
	fmt.Fprintf(m.verboseOut, "Used cache for function: %s\n", m.meta.Name)
	m.logger.Info(ctx, "used cache", observe.Field{Key: "entry", Value: name})
}
