package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric instrument names.
const (
	MetricCalls          = "memo.calls.total"
	MetricComputeErrors  = "memo.compute.errors"
	MetricCacheErrors    = "memo.cache.errors"
	MetricCallDurationMs = "memo.call.duration_ms"
)

const (
	attrOutcome  = "memo.outcome"
	attrCacheOp  = "memo.op"
	attrFuncID   = "func.id"
	attrFuncName = "func.name"
)

// Metrics records memoized-call metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCall records one memoized call with its outcome, duration and
	// the error returned to the caller, if any.
	RecordCall(ctx context.Context, meta FuncMeta, outcome Outcome, duration time.Duration, err error)

	// RecordCacheError records a swallowed cache failure. op is one of
	// "read", "decode", "encode" or "write".
	RecordCacheError(ctx context.Context, meta FuncMeta, op string)
}

type metricsImpl struct {
	calls         metric.Int64Counter
	computeErrors metric.Int64Counter
	cacheErrors   metric.Int64Counter
	duration      metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with instruments registered on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	calls, err := meter.Int64Counter(
		MetricCalls,
		metric.WithDescription("Total number of memoized calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	computeErrors, err := meter.Int64Counter(
		MetricComputeErrors,
		metric.WithDescription("Total number of memoized calls whose computation failed"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	cacheErrors, err := meter.Int64Counter(
		MetricCacheErrors,
		metric.WithDescription("Total number of swallowed cache failures"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		MetricCallDurationMs,
		metric.WithDescription("Memoized call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		calls:         calls,
		computeErrors: computeErrors,
		cacheErrors:   cacheErrors,
		duration:      duration,
	}, nil
}

func funcAttrs(meta FuncMeta) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(attrFuncID, meta.ID()),
		attribute.String(attrFuncName, meta.Name),
	}
}

func (m *metricsImpl) RecordCall(ctx context.Context, meta FuncMeta, outcome Outcome, duration time.Duration, err error) {
	attrs := append(funcAttrs(meta), attribute.String(attrOutcome, string(outcome)))
	opt := metric.WithAttributes(attrs...)

	m.calls.Add(ctx, 1, opt)
	if err != nil {
		m.computeErrors.Add(ctx, 1, metric.WithAttributes(funcAttrs(meta)...))
	}
	m.duration.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

func (m *metricsImpl) RecordCacheError(ctx context.Context, meta FuncMeta, op string) {
	attrs := append(funcAttrs(meta), attribute.String(attrCacheOp, op))
	m.cacheErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
}

type noopMetrics struct{}

// NewNoopMetrics returns a Metrics that records nothing.
func NewNoopMetrics() Metrics {
	return noopMetrics{}
}

func (noopMetrics) RecordCall(context.Context, FuncMeta, Outcome, time.Duration, error) {}

func (noopMetrics) RecordCacheError(context.Context, FuncMeta, string) {}
