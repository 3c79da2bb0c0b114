package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// FuncMeta identifies a memoized function for telemetry purposes.
type FuncMeta struct {
	Module  string // Package path or logical module (may be empty)
	Name    string // Function name (required)
	Version string // Behavior version tag (optional)
}

// ID returns the fully qualified function identifier.
// Format: <module>.<name> or <name>
func (m FuncMeta) ID() string {
	if m.Module != "" {
		return m.Module + "." + m.Name
	}
	return m.Name
}

// SpanName returns the deterministic span name for this function.
// Format: memo.call.<module>.<name> or memo.call.<name>
func (m FuncMeta) SpanName() string {
	return "memo.call." + m.ID()
}

// Outcome describes how a memoized call was served.
type Outcome string

const (
	// OutcomeHit means the result was read from the cache.
	OutcomeHit Outcome = "hit"
	// OutcomeMiss means the function ran and its result was offered to the cache.
	OutcomeMiss Outcome = "miss"
	// OutcomeBypass means caching is disabled and the function ran directly.
	OutcomeBypass Outcome = "bypass"
)

// Tracer wraps OpenTelemetry tracing with memoized-call span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a memoized call.
	StartSpan(ctx context.Context, meta FuncMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording how the call was served and any error.
	EndSpan(span trace.Span, outcome Outcome, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta FuncMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("func.id", meta.ID()),
		attribute.String("func.name", meta.Name),
		attribute.Bool("memo.hit", false),
	}
	if meta.Module != "" {
		attrs = append(attrs, attribute.String("func.module", meta.Module))
	}
	if meta.Version != "" {
		attrs = append(attrs, attribute.String("func.version", meta.Version))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, outcome Outcome, err error) {
	span.SetAttributes(
		attribute.Bool("memo.hit", outcome == OutcomeHit),
		attribute.String("memo.outcome", string(outcome)),
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

// NewNoopTracer creates a tracer that records nothing.
func NewNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta FuncMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ Outcome, _ error) {
	span.End()
}
