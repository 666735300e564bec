package registry

import (
	"context"
	"log/slog"
	"time"

	"keygate/internal/platform/tracer"
	"keygate/internal/registry/metrics"
	"keygate/pkg/platform/circuit"
)

// ContentFetcher retrieves the raw store blob. Satisfied by *StoreClient.
type ContentFetcher interface {
	FetchContent(ctx context.Context) (string, error)
}

// Reader resolves a key to its current registry status. Every lookup
// re-fetches the store; there is no cache and no staleness window beyond the
// store's own consistency.
type Reader struct {
	fetcher ContentFetcher
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithLogger sets the reader's logger.
func WithLogger(logger *slog.Logger) ReaderOption {
	return func(r *Reader) {
		r.logger = logger
	}
}

// WithMetrics sets the reader's metrics collectors.
func WithMetrics(m *metrics.Metrics) ReaderOption {
	return func(r *Reader) {
		r.metrics = m
	}
}

// WithTracer sets the reader's tracer.
func WithTracer(t tracer.Tracer) ReaderOption {
	return func(r *Reader) {
		r.tracer = t
	}
}

// WithBreaker replaces the default circuit breaker.
func WithBreaker(b *circuit.Breaker) ReaderOption {
	return func(r *Reader) {
		r.breaker = b
	}
}

// NewReader creates a Reader over the given store fetcher.
func NewReader(fetcher ContentFetcher, opts ...ReaderOption) *Reader {
	r := &Reader{
		fetcher: fetcher,
		tracer:  tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.breaker == nil {
		r.breaker = circuit.New("registry-store", circuit.WithOnStateChange(r.onBreakerChange))
	}
	return r
}

// Lookup resolves key against the store's current content.
//
// Fail-closed: any fetch or parse failure, and an open circuit, degrade to
// StateNotFound. The registry being unreachable must never validate a key.
func (r *Reader) Lookup(ctx context.Context, key string) Status {
	ctx, span := r.tracer.Start(ctx, "registry.lookup")
	var status Status
	defer func() {
		span.SetAttributes(tracer.String("outcome", status.State.String()))
		span.End(nil)
	}()

	if !r.breaker.Allow() {
		r.logWarn(ctx, "lookup short-circuited, breaker open")
		r.metrics.ObserveLookup("breaker_open")
		status = Status{State: StateNotFound}
		return status
	}

	start := time.Now()
	content, err := r.fetcher.FetchContent(ctx)
	if r.metrics != nil {
		r.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		r.breaker.RecordFailure()
		if r.metrics != nil {
			r.metrics.FetchFailures.Inc()
		}
		r.logWarn(ctx, "store fetch failed, degrading to not_found", "error", err)
		status = Status{State: StateNotFound}
		return status
	}
	r.breaker.RecordSuccess()

	status = FindKey(ParseEntries(content), key)
	r.metrics.ObserveLookup(status.State.String())
	return status
}

// Ready reports whether the store circuit is closed. Used by the readiness
// probe; a degraded reader still serves fail-closed lookups.
func (r *Reader) Ready() bool {
	return r.breaker.State() == circuit.StateClosed
}

func (r *Reader) onBreakerChange(name string, state circuit.State) {
	open := state == circuit.StateOpen
	if r.logger != nil {
		r.logger.Warn("store circuit state changed", "breaker", name, "open", open)
	}
	if r.metrics != nil {
		if open {
			r.metrics.BreakerOpen.Set(1)
		} else {
			r.metrics.BreakerOpen.Set(0)
		}
	}
}

func (r *Reader) logWarn(ctx context.Context, msg string, args ...any) {
	if r.logger != nil {
		r.logger.WarnContext(ctx, msg, args...)
	}
}
