package verdict

import (
	"crypto/ed25519"
	"encoding/base64"

	dErrors "keygate/pkg/domain-errors"
)

// Ed25519Signer implements the asymmetric scheme. The key pair is
// self-contained: the public key is derived from the private key material,
// so issuer and verifier share nothing but the seed.
type Ed25519Signer struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// NewEd25519Signer builds a signer from a base64-encoded ed25519 seed.
// A seed that fails to decode or has the wrong length is a signing failure:
// the service must not start, and the fault must never be reported as an
// "invalid" verdict.
func NewEd25519Signer(seedB64 string) (*Ed25519Signer, error) {
	seed, err := base64.StdEncoding.DecodeString(seedB64)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeSigningFailure, "signing seed is not valid base64")
	}
	if len(seed) != ed25519.SeedSize {
		return nil, dErrors.New(dErrors.CodeSigningFailure, "signing seed has wrong length")
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &Ed25519Signer{
		priv: priv,
		pub:  priv.Public().(ed25519.PublicKey),
	}, nil
}

// Sign signs the canonical payload bytes and returns a base64 signature.
// Ed25519 is deterministic: the same payload always yields the same signature.
func (s *Ed25519Signer) Sign(payload []byte) (string, error) {
	sig := ed25519.Sign(s.priv, payload)
	return base64.StdEncoding.EncodeToString(sig), nil
}

// Verify checks a base64 signature against the payload bytes.
func (s *Ed25519Signer) Verify(payload []byte, signature string) bool {
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(s.pub, payload, sig)
}

// Mode reports the asymmetric scheme.
func (s *Ed25519Signer) Mode() Mode {
	return ModeAsymmetric
}

// PrivateKey exposes the private key for the JWT token rendition.
func (s *Ed25519Signer) PrivateKey() ed25519.PrivateKey {
	return s.priv
}

// PublicKey exposes the derived public key.
func (s *Ed25519Signer) PublicKey() ed25519.PublicKey {
	return s.pub
}
