// Package verdict builds canonical verdict payloads and signs or verifies
// them under one of two interchangeable schemes: ed25519 signatures or an
// HMAC-SHA256 keyed hash.
package verdict

import "encoding/json"

// Payload is the full verdict for a key. Its serialized form is part of the
// signing contract: field order is fixed and there is no extraneous
// whitespace, so issuer and verifier produce identical bytes.
type Payload struct {
	Key        string `json:"key"`
	Valid      bool   `json:"valid"`
	RedeemedBy string `json:"redeemed_by"`
	RedeemedAt string `json:"redeemed_at"`
}

// CanonicalBytes returns the byte-for-byte reproducible serialization of the
// payload. json.Marshal of a fixed struct emits fields in declaration order
// with no added whitespace, which is exactly the contract.
func (p Payload) CanonicalBytes() []byte {
	b, _ := json.Marshal(p)
	return b
}

// keyPayload is the minimal payload used by the keyed-hash scheme. Redemption
// state is never embedded; the verifier re-derives it from the registry.
type keyPayload struct {
	Key string `json:"key"`
}

// CanonicalKeyBytes returns the canonical serialization of the minimal
// {key} payload.
func CanonicalKeyBytes(key string) []byte {
	b, _ := json.Marshal(keyPayload{Key: key})
	return b
}

// SignedVerdict pairs a payload with its signature. Immutable once issued;
// verifiers only accept or reject it.
type SignedVerdict struct {
	Payload   Payload `json:"payload"`
	Signature string  `json:"signature"`
}
