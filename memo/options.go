package memo

import (
	"io"
	"os"

	"github.com/jonwraymond/filememo/cache"
	"github.com/jonwraymond/filememo/observe"
	"github.com/jonwraymond/filememo/resilience"
)

// Options is the user-facing wrapping configuration. It is copied at
// construction and never consulted again.
type Options struct {
	// IgnoreParams names parameters, map keys, struct fields and type names
	// excluded from fingerprinting.
	IgnoreParams []string

	// Verbose prints a notice on every cache hit.
	Verbose bool
}

// Option configures the infrastructure behind a Memoizer.
type Option func(*config)

type config struct {
	cache       cache.Cache
	codec       cache.Codec
	instruments observe.Instruments
	logger      observe.Logger
	executor    *resilience.Executor
	verboseOut  io.Writer
	enabled     *bool

	params  []string
	version string
	module  string
	name    string

	err error
}

func newConfig(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// fill resolves every unset member to its default.
func (c *config) fill() error {
	if c.err != nil {
		return c.err
	}
	if c.cache == nil {
		fc, err := cache.NewFileCache(cache.FileCacheConfig{})
		if err != nil {
			return err
		}
		c.cache = fc
	}
	if c.codec == nil {
		c.codec = cache.NewGobCodec()
	}
	if c.logger == nil && c.instruments.Logger == nil {
		c.logger = observe.NewLogger(observe.DefaultLogLevel())
	}
	if c.logger != nil {
		c.instruments.Logger = c.logger
	}
	c.instruments = c.instruments.WithDefaults()
	if c.executor == nil {
		c.executor = resilience.NewStoreExecutor()
	}
	if c.verboseOut == nil {
		c.verboseOut = os.Stdout
	}
	if c.enabled == nil {
		enabled := cache.Enabled()
		c.enabled = &enabled
	}
	return nil
}

// WithCache sets the store. Default: a FileCache in cache.Dir().
func WithCache(c cache.Cache) Option {
	return func(cfg *config) {
		if c == nil {
			cfg.err = cache.ErrNilCache
			return
		}
		cfg.cache = c
	}
}

// WithCodec sets the result codec. Default: cache.GobCodec.
func WithCodec(c cache.Codec) Option {
	return func(cfg *config) {
		cfg.codec = c
	}
}

// WithLogger sets the logger. It takes precedence over the logger of
// WithObserver or WithInstruments.
func WithLogger(l observe.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}

// WithInstruments sets the tracer, metrics and logger.
func WithInstruments(i observe.Instruments) Option {
	return func(cfg *config) {
		cfg.instruments = i
	}
}

// WithObserver derives instruments from an Observer. A failure to register
// metrics is reported by New.
func WithObserver(obs observe.Observer) Option {
	return func(cfg *config) {
		i, err := observe.FromObserver(obs)
		if err != nil {
			cfg.err = err
			return
		}
		cfg.instruments = i
	}
}

// WithStoreExecutor sets the executor that runs cache writes.
// Default: resilience.NewStoreExecutor().
func WithStoreExecutor(e *resilience.Executor) Option {
	return func(cfg *config) {
		cfg.executor = e
	}
}

// WithVerboseWriter sets where verbose hit notices go. Default: os.Stdout.
func WithVerboseWriter(w io.Writer) Option {
	return func(cfg *config) {
		cfg.verboseOut = w
	}
}

// WithEnabled overrides the MEMO_CACHE switch. A disabled Memoizer calls
// the function directly and never touches the store.
func WithEnabled(enabled bool) Option {
	return func(cfg *config) {
		cfg.enabled = &enabled
	}
}

// WithParams declares the function's parameter names in positional order.
// It overrides Definition.Params.
func WithParams(names ...string) Option {
	return func(cfg *config) {
		cfg.params = names
	}
}

// WithVersion sets the behavior version tag. It overrides
// Definition.Version.
func WithVersion(v string) Option {
	return func(cfg *config) {
		cfg.version = v
	}
}

// WithName sets the module and function name used for entry names and
// telemetry. It overrides the names in the Definition.
func WithName(module, name string) Option {
	return func(cfg *config) {
		cfg.module = module
		cfg.name = name
	}
}

// CallOption configures a single call.
type CallOption func(*callConfig)

type callConfig struct {
	attempt int
}

// WithAttempt selects a distinct cache entry for otherwise identical
// arguments. The default attempt is 0.
func WithAttempt(n int) CallOption {
	return func(c *callConfig) {
		c.attempt = n
	}
}

func newCallConfig(opts []CallOption) callConfig {
	cc := callConfig{}
	for _, opt := range opts {
		opt(&cc)
	}
	return cc
}
