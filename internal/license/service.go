// Package license dispatches issue and verify requests: it resolves a key's
// status through the registry reader, signs verdicts through the codec, and
// maps outcomes to the small output vocabulary the transport exposes.
package license

import (
	"context"
	"log/slog"
	"time"

	"keygate/internal/license/metrics"
	"keygate/internal/platform/tracer"
	"keygate/internal/registry"
	"keygate/internal/verdict"
	dErrors "keygate/pkg/domain-errors"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks KeyLookup

// KeyLookup resolves a key to its current registry status. Satisfied by
// *registry.Reader, which is fail-closed: an unreachable registry reports
// the key as not found.
type KeyLookup interface {
	Lookup(ctx context.Context, key string) registry.Status
}

// Service is the request dispatcher. Stateless per request: each operation
// independently consults the registry and the signer.
type Service struct {
	lookup   KeyLookup
	signer   verdict.Signer
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   tracer.Tracer
	tokenTTL time.Duration
	now      func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the service metrics collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the service tracer.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithTokenTTL sets the lifetime of issued license tokens. Default 15m.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithClock overrides the time source (for testing token expiry).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates the dispatcher over a registry lookup and a signer.
func New(lookup KeyLookup, signer verdict.Signer, opts ...Option) *Service {
	s := &Service{
		lookup:   lookup,
		signer:   signer,
		tracer:   tracer.NewNoop(),
		tokenTTL: 15 * time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue looks up the key and returns a signed verdict for it. Issuance
// reports status, it does not gate on validity: an absent key still issues,
// with valid=false.
func (s *Service) Issue(ctx context.Context, key string) (verdict.SignedVerdict, error) {
	if key == "" {
		return verdict.SignedVerdict{}, dErrors.New(dErrors.CodeInvalidInput, "key is required")
	}

	ctx, span := s.tracer.Start(ctx, "license.issue", tracer.String("scheme", s.signer.Mode().String()))
	if s.metrics != nil {
		s.metrics.IssueRequests.Inc()
	}

	status := s.lookup.Lookup(ctx, key)
	payload := buildPayload(key, status)

	sig, err := s.signer.Sign(s.signingBytes(payload))
	if err != nil {
		if s.metrics != nil {
			s.metrics.SigningFailures.Inc()
		}
		err = dErrors.Wrap(err, dErrors.CodeSigningFailure, "could not sign verdict")
		span.End(err)
		return verdict.SignedVerdict{}, err
	}

	s.metrics.ObserveVerdict("issue", payload.Valid)
	s.logInfo(ctx, "verdict issued",
		"status", status.State.String(),
		"scheme", s.signer.Mode().String(),
	)
	span.End(nil)
	return verdict.SignedVerdict{Payload: payload, Signature: sig}, nil
}

// VerifyInput carries a previously issued verdict back for re-verification.
// The symmetric scheme needs only Key and Signature; the asymmetric scheme
// submits the full Payload. When both Key and Payload are present they must
// name the same key.
type VerifyInput struct {
	Key       string
	Payload   *verdict.Payload
	Signature string
}

// key returns the key driving the lookup. Only this field of the caller's
// input is ever trusted.
func (in VerifyInput) key() string {
	if in.Payload != nil {
		return in.Payload.Key
	}
	return in.Key
}

// validate rejects malformed input before any signing or registry work.
func (in VerifyInput) validate() error {
	if in.Signature == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "signature is required")
	}
	if in.Key == "" && in.Payload == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "key or payload is required")
	}
	if in.Payload != nil && in.Payload.Key == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "payload key is required")
	}
	if in.Key != "" && in.Payload != nil && in.Key != in.Payload.Key {
		return dErrors.New(dErrors.CodeInvalidInput, "key does not match payload")
	}
	return nil
}

// Verify re-verifies a previously issued verdict. It never trusts the
// caller's copy of the verdict fields: validity and redemption state are
// recomputed from a fresh registry lookup, and only the key is taken from
// the input to drive that lookup. A bad signature is a plain false verdict,
// never an error, so callers cannot distinguish "unknown key" from "forged
// signature".
func (s *Service) Verify(ctx context.Context, in VerifyInput) (bool, error) {
	if err := in.validate(); err != nil {
		return false, err
	}

	ctx, span := s.tracer.Start(ctx, "license.verify", tracer.String("scheme", s.signer.Mode().String()))
	defer span.End(nil)
	if s.metrics != nil {
		s.metrics.VerifyRequests.Inc()
	}

	valid := s.verify(ctx, in)
	s.metrics.ObserveVerdict("verify", valid)
	s.logInfo(ctx, "verdict verified", "valid", valid)
	return valid, nil
}

func (s *Service) verify(ctx context.Context, in VerifyInput) bool {
	key := in.key()

	if s.signer.Mode() == verdict.ModeSymmetric {
		// Signature check gates the lookup: a forged submission never
		// triggers a registry fetch.
		if !s.signer.Verify(verdict.CanonicalKeyBytes(key), in.Signature) {
			return false
		}
		return s.lookup.Lookup(ctx, key).State == registry.StateValid
	}

	// Asymmetric scheme: rebuild the canonical payload from a fresh lookup
	// and verify the signature against the rebuilt bytes. The fetch result
	// is only trusted once the signature over it checks out.
	rebuilt := buildPayload(key, s.lookup.Lookup(ctx, key))
	if !s.signer.Verify(rebuilt.CanonicalBytes(), in.Signature) {
		return false
	}
	return rebuilt.Valid
}

// buildPayload derives the verdict payload from a registry status. A key is
// valid only while present and unredeemed; a redeemed key carries its
// redemption metadata with valid=false.
func buildPayload(key string, status registry.Status) verdict.Payload {
	return verdict.Payload{
		Key:        key,
		Valid:      status.State == registry.StateValid,
		RedeemedBy: status.RedeemedBy,
		RedeemedAt: status.RedeemedAt,
	}
}

// signingBytes selects the canonical bytes for the configured scheme: the
// full payload for the asymmetric scheme, the minimal {key} mapping for the
// symmetric one.
func (s *Service) signingBytes(p verdict.Payload) []byte {
	if s.signer.Mode() == verdict.ModeSymmetric {
		return verdict.CanonicalKeyBytes(p.Key)
	}
	return p.CanonicalBytes()
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}
