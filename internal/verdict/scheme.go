package verdict

import (
	dErrors "keygate/pkg/domain-errors"
)

// Mode identifies the configured signing scheme.
type Mode int

const (
	// ModeAsymmetric signs the full canonical payload with an ed25519 key.
	ModeAsymmetric Mode = iota
	// ModeSymmetric signs the minimal {key} payload with HMAC-SHA256.
	ModeSymmetric
)

// String returns the mode name for logs.
func (m Mode) String() string {
	if m == ModeSymmetric {
		return "symmetric"
	}
	return "asymmetric"
}

// Signer signs canonical payload bytes and verifies supplied signatures.
// Verify is pure: it never touches registry state and never errors; a bad
// signature is false, full stop. Sign can fail only on malformed key
// material, which is a configuration fault.
type Signer interface {
	Sign(payload []byte) (string, error)
	Verify(payload []byte, signature string) bool
	Mode() Mode
}

// NewSigner selects the scheme from the configured secret material.
// Exactly one of seedB64 (ed25519 seed, base64) and sharedSecret must be
// set; both or neither is a configuration error.
func NewSigner(seedB64, sharedSecret string) (Signer, error) {
	switch {
	case seedB64 != "" && sharedSecret != "":
		return nil, dErrors.New(dErrors.CodeConfig, "signing seed and shared secret are mutually exclusive")
	case seedB64 != "":
		return NewEd25519Signer(seedB64)
	case sharedSecret != "":
		return NewHMACSigner(sharedSecret)
	default:
		return nil, dErrors.New(dErrors.CodeConfig, "a signing seed or shared secret is required")
	}
}
