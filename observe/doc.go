// Package observe provides observability primitives for memoized calls.
//
// It bundles a structured JSON logger, OpenTelemetry metrics and tracing,
// and exporter setup. The memo package consumes an Instruments value; it
// never talks to exporters directly.
package observe
