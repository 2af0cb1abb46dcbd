package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// nop implements every port in this package at once; the method sets
// do not overlap, so one zero-size type covers Logger, Tracer, Counter,
// Histogram, Metrics, and Observability.
type nop struct{}

func (nop) With(...Field) Logger   { return nop{} }
func (nop) Debug(string, ...Field) {}
func (nop) Info(string, ...Field)  {}
func (nop) Warn(string, ...Field)  {}
func (nop) Error(string, ...Field) {}

func (nop) Start(ctx context.Context, _ string, _ ...attribute.KeyValue) (context.Context, trace.Span) {
	return ctx, trace.SpanFromContext(ctx)
}

func (nop) Add(float64, ...Label)     {}
func (nop) Observe(float64, ...Label) {}

func (nop) Counter(MetricKey) Counter     { return nop{} }
func (nop) Histogram(MetricKey) Histogram { return nop{} }

func (nop) Tracer() Tracer   { return nop{} }
func (nop) Logger() Logger   { return nop{} }
func (nop) Metrics() Metrics { return nop{} }

// NopLogger returns a logger that discards all logs. Useful as a safe fallback.
func NopLogger() Logger { return nop{} }

// NopTracer returns a tracer that simply propagates the existing span from the context.
func NopTracer() Tracer { return nop{} }

func NopCounter() Counter { return nop{} }

func NopHistogram() Histogram { return nop{} }

// NopMetrics returns a metrics provider whose instruments discard everything.
func NopMetrics() Metrics { return nop{} }

// Nop returns an Observability provider with all instruments disabled.
func Nop() Observability { return nop{} }
