package tracer

import "context"

// NoopTracer is a tracer that records nothing. Used in tests and as the
// default when no tracer is injected.
type NoopTracer struct{}

// NewNoop creates a no-op tracer.
func NewNoop() NoopTracer {
	return NoopTracer{}
}

// Start returns the context unchanged and a span that does nothing.
func (NoopTracer) Start(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

func (noopSpan) SetAttributes(...Attribute) {}
