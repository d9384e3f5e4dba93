package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName is the tracer name registered with the global provider.
const InstrumentationName = "onboard/corporation"

// OTelTracer exports corporation lookup spans through OpenTelemetry.
//
// Only this file imports the OpenTelemetry API; the verification service
// depends on Tracer alone. The server selects this adapter when OTEL_ENABLED
// is set and relies on whatever provider the process installed globally, so
// without an SDK configured the spans are dropped by the default no-op
// provider.
type OTelTracer struct {
	tracer trace.Tracer
}

// OTelOption configures an OTelTracer.
type OTelOption func(*OTelTracer)

// WithOTelTracer uses t instead of the global provider's tracer. Tests pass a
// tracer from a no-op or in-memory provider.
func WithOTelTracer(t trace.Tracer) OTelOption {
	return func(o *OTelTracer) {
		o.tracer = t
	}
}

// NewOTel builds the adapter. Without WithOTelTracer it asks the global
// provider for InstrumentationName.
func NewOTel(opts ...OTelOption) *OTelTracer {
	t := &OTelTracer{}
	for _, opt := range opts {
		opt(t)
	}
	if t.tracer == nil {
		t.tracer = otel.Tracer(InstrumentationName)
	}
	return t
}

// Start opens a child span of whatever span ctx carries.
func (t *OTelTracer) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(convertAttributes(attrs)...))
	return ctx, &otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

// End records err on the span and marks it failed before closing it.
func (s *otelSpan) End(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
	s.span.End()
}

func (s *otelSpan) SetAttributes(attrs ...Attribute) {
	s.span.SetAttributes(convertAttributes(attrs)...)
}

func (s *otelSpan) AddEvent(name string, attrs ...Attribute) {
	s.span.AddEvent(name, trace.WithAttributes(convertAttributes(attrs)...))
}

// convertAttributes maps attributes onto OpenTelemetry key-values, skipping
// values of a type OpenTelemetry has no scalar for.
func convertAttributes(attrs []Attribute) []attribute.KeyValue {
	if len(attrs) == 0 {
		return nil
	}
	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		if kv, ok := keyValue(a); ok {
			kvs = append(kvs, kv)
		}
	}
	return kvs
}

func keyValue(a Attribute) (attribute.KeyValue, bool) {
	key := attribute.Key(a.Key)
	switch v := a.Value.(type) {
	case string:
		return key.String(v), true
	case bool:
		return key.Bool(v), true
	case int:
		return key.Int(v), true
	case int64:
		return key.Int64(v), true
	case float64:
		return key.Float64(v), true
	default:
		return attribute.KeyValue{}, false
	}
}

var (
	_ Tracer = (*OTelTracer)(nil)
	_ Span   = (*otelSpan)(nil)
)
