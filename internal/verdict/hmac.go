package verdict

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	dErrors "keygate/pkg/domain-errors"
)

// HMACSigner implements the symmetric scheme: HMAC-SHA256 over the canonical
// payload bytes, hex-encoded. Issuer and verifier share one secret.
type HMACSigner struct {
	secret []byte
}

// NewHMACSigner builds a signer from the shared secret.
func NewHMACSigner(secret string) (*HMACSigner, error) {
	if secret == "" {
		return nil, dErrors.New(dErrors.CodeSigningFailure, "shared secret cannot be empty")
	}
	return &HMACSigner{secret: []byte(secret)}, nil
}

// Sign computes the keyed hash of the payload bytes as lowercase hex.
func (s *HMACSigner) Sign(payload []byte) (string, error) {
	return hex.EncodeToString(s.mac(payload)), nil
}

// Verify recomputes the expected digest and compares it with the supplied
// signature. The comparison runs in constant time over equal-length buffers;
// a length mismatch (including non-hex input) is an immediate rejection, not
// an error, so content never influences timing.
func (s *HMACSigner) Verify(payload []byte, signature string) bool {
	supplied, err := hex.DecodeString(signature)
	if err != nil || len(supplied) != sha256.Size {
		return false
	}
	return hmac.Equal(s.mac(payload), supplied)
}

// Mode reports the symmetric scheme.
func (s *HMACSigner) Mode() Mode {
	return ModeSymmetric
}

// SecretBytes exposes the shared secret for the JWT token rendition.
func (s *HMACSigner) SecretBytes() []byte {
	return s.secret
}

func (s *HMACSigner) mac(payload []byte) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write(payload)
	return h.Sum(nil)
}
