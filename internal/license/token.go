package license

import (
	"context"
	"crypto/ed25519"

	"github.com/golang-jwt/jwt/v5"

	"keygate/internal/registry"
	"keygate/internal/verdict"
	dErrors "keygate/pkg/domain-errors"
)

// tokenClaims is the JWT rendition of a verdict. The subject carries the
// key; verdict fields are informational only. VerifyToken recomputes them
// from the registry and never trusts the embedded copies.
type tokenClaims struct {
	Valid      bool   `json:"valid"`
	RedeemedBy string `json:"redeemed_by,omitempty"`
	RedeemedAt string `json:"redeemed_at,omitempty"`
	jwt.RegisteredClaims
}

// IssuedToken is the result of IssueToken.
type IssuedToken struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// IssueToken issues the verdict as a short-lived JWT, signed EdDSA under the
// asymmetric scheme or HS256 under the symmetric one. Like Issue, it reports
// status rather than gating on it.
func (s *Service) IssueToken(ctx context.Context, key string) (IssuedToken, error) {
	if key == "" {
		return IssuedToken{}, dErrors.New(dErrors.CodeInvalidInput, "key is required")
	}

	ctx, span := s.tracer.Start(ctx, "license.issue_token")
	status := s.lookup.Lookup(ctx, key)
	now := s.now()

	claims := tokenClaims{
		Valid:      status.State == registry.StateValid,
		RedeemedBy: status.RedeemedBy,
		RedeemedAt: status.RedeemedAt,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   key,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	method, signKey, err := s.tokenSigningMaterial()
	if err != nil {
		span.End(err)
		return IssuedToken{}, err
	}

	signed, err := jwt.NewWithClaims(method, claims).SignedString(signKey)
	if err != nil {
		if s.metrics != nil {
			s.metrics.SigningFailures.Inc()
		}
		err = dErrors.Wrap(err, dErrors.CodeSigningFailure, "could not sign token")
		span.End(err)
		return IssuedToken{}, err
	}

	if s.metrics != nil {
		s.metrics.TokensIssued.Inc()
	}
	span.End(nil)
	return IssuedToken{
		Token:     signed,
		ExpiresIn: int64(s.tokenTTL.Seconds()),
	}, nil
}

// VerifyToken checks a license token's signature, algorithm, and expiry,
// then re-checks the key's current registry status. An unparsable, expired,
// or forged token is a plain false verdict; the registry is only consulted
// once the signature checks out.
func (s *Service) VerifyToken(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, dErrors.New(dErrors.CodeInvalidInput, "token is required")
	}

	ctx, span := s.tracer.Start(ctx, "license.verify_token")
	defer span.End(nil)
	if s.metrics != nil {
		s.metrics.VerifyRequests.Inc()
	}

	method, _, err := s.tokenSigningMaterial()
	if err != nil {
		return false, err
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, s.tokenVerifyKey,
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		s.metrics.ObserveVerdict("verify_token", false)
		return false, nil
	}

	valid := s.lookup.Lookup(ctx, claims.Subject).State == registry.StateValid
	s.metrics.ObserveVerdict("verify_token", valid)
	return valid, nil
}

// tokenSigningMaterial maps the configured scheme onto a JWT method and key.
func (s *Service) tokenSigningMaterial() (jwt.SigningMethod, any, error) {
	switch signer := s.signer.(type) {
	case *verdict.Ed25519Signer:
		return jwt.SigningMethodEdDSA, signer.PrivateKey(), nil
	case *verdict.HMACSigner:
		return jwt.SigningMethodHS256, signer.SecretBytes(), nil
	default:
		return nil, nil, dErrors.New(dErrors.CodeConfig, "signer does not support token issuance")
	}
}

// tokenVerifyKey returns the verification key for jwt.ParseWithClaims.
func (s *Service) tokenVerifyKey(*jwt.Token) (any, error) {
	switch signer := s.signer.(type) {
	case *verdict.Ed25519Signer:
		return ed25519.PublicKey(signer.PublicKey()), nil
	case *verdict.HMACSigner:
		return signer.SecretBytes(), nil
	default:
		return nil, dErrors.New(dErrors.CodeConfig, "signer does not support token verification")
	}
}
