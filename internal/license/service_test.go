package license

import (
	"context"

	"keygate/internal/verdict"
	dErrors "keygate/pkg/domain-errors"
)

func (s *ServiceSuite) TestIssue_ValidKey() {
	svc := s.symmetricService()
	s.expectLookup(testKey, validStatus())

	sv, err := svc.Issue(context.Background(), testKey)
	s.Require().NoError(err)

	s.Equal(testKey, sv.Payload.Key)
	s.True(sv.Payload.Valid)
	s.Empty(sv.Payload.RedeemedBy)
	s.NotEmpty(sv.Signature)
}

// Issuance reports status, it does not gate on validity.
func (s *ServiceSuite) TestIssue_AbsentKeyStillIssues() {
	svc := s.symmetricService()
	s.expectLookup("zzz", notFoundStatus())

	sv, err := svc.Issue(context.Background(), "zzz")
	s.Require().NoError(err)
	s.False(sv.Payload.Valid)
	s.NotEmpty(sv.Signature)
}

func (s *ServiceSuite) TestIssue_RedeemedKeyCarriesMetadata() {
	svc := s.symmetricService()
	s.expectLookup(testKey, redeemedStatus())

	sv, err := svc.Issue(context.Background(), testKey)
	s.Require().NoError(err)
	s.False(sv.Payload.Valid, "a redeemed key is consumed, not valid")
	s.Equal("alice", sv.Payload.RedeemedBy)
	s.Equal("2024-01-01", sv.Payload.RedeemedAt)
}

func (s *ServiceSuite) TestIssue_EmptyKey() {
	svc := s.symmetricService()

	_, err := svc.Issue(context.Background(), "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

// The symmetric scheme signs the minimal {key} payload only: a verifier can
// recompute the signature from the key alone.
func (s *ServiceSuite) TestIssue_SymmetricSignsKeyOnly() {
	svc := s.symmetricService()
	s.expectLookup(testKey, validStatus())

	sv, err := svc.Issue(context.Background(), testKey)
	s.Require().NoError(err)

	signer, err := verdict.NewHMACSigner(testSecret)
	s.Require().NoError(err)
	expected, err := signer.Sign(verdict.CanonicalKeyBytes(testKey))
	s.Require().NoError(err)
	s.Equal(expected, sv.Signature)
}

func (s *ServiceSuite) TestIssue_AsymmetricSignsFullPayload() {
	svc := s.asymmetricService()
	s.expectLookup(testKey, validStatus())

	sv, err := svc.Issue(context.Background(), testKey)
	s.Require().NoError(err)

	signer, err := verdict.NewEd25519Signer(testSeed)
	s.Require().NoError(err)
	s.True(signer.Verify(sv.Payload.CanonicalBytes(), sv.Signature))
}

func (s *ServiceSuite) TestVerify_SymmetricRoundTrip() {
	svc := s.symmetricService()
	s.expectLookup(testKey, validStatus())

	sv, err := svc.Issue(context.Background(), testKey)
	s.Require().NoError(err)

	s.expectLookup(testKey, validStatus())
	valid, err := svc.Verify(context.Background(), VerifyInput{
		Key:       testKey,
		Signature: sv.Signature,
	})
	s.Require().NoError(err)
	s.True(valid)
}

// A forged signature must never trigger a registry fetch: no lookup
// expectation is registered, so any call would fail the test.
func (s *ServiceSuite) TestVerify_SymmetricBadSignatureSkipsLookup() {
	svc := s.symmetricService()

	valid, err := svc.Verify(context.Background(), VerifyInput{
		Key:       testKey,
		Signature: "0000000000000000000000000000000000000000000000000000000000000000",
	})
	s.Require().NoError(err)
	s.False(valid)
}

func (s *ServiceSuite) TestVerify_SymmetricKeyRemovedSinceIssue() {
	svc := s.symmetricService()
	s.expectLookup(testKey, validStatus())
	sv, err := svc.Issue(context.Background(), testKey)
	s.Require().NoError(err)

	s.expectLookup(testKey, notFoundStatus())
	valid, err := svc.Verify(context.Background(), VerifyInput{Key: testKey, Signature: sv.Signature})
	s.Require().NoError(err)
	s.False(valid, "current registry status wins over the issued verdict")
}

func (s *ServiceSuite) TestVerify_SymmetricKeyRedeemedSinceIssue() {
	svc := s.symmetricService()
	s.expectLookup(testKey, validStatus())
	sv, err := svc.Issue(context.Background(), testKey)
	s.Require().NoError(err)

	s.expectLookup(testKey, redeemedStatus())
	valid, err := svc.Verify(context.Background(), VerifyInput{Key: testKey, Signature: sv.Signature})
	s.Require().NoError(err)
	s.False(valid)
}

func (s *ServiceSuite) TestVerify_AsymmetricRoundTrip() {
	svc := s.asymmetricService()
	s.expectLookup(testKey, validStatus())
	sv, err := svc.Issue(context.Background(), testKey)
	s.Require().NoError(err)

	s.expectLookup(testKey, validStatus())
	valid, err := svc.Verify(context.Background(), VerifyInput{
		Payload:   &sv.Payload,
		Signature: sv.Signature,
	})
	s.Require().NoError(err)
	s.True(valid)
}

// The verifier rebuilds the payload from the registry; a caller-edited copy
// claiming validity for a now-redeemed key cannot pass.
func (s *ServiceSuite) TestVerify_AsymmetricNeverTrustsCallerPayload() {
	svc := s.asymmetricService()
	s.expectLookup(testKey, validStatus())
	sv, err := svc.Issue(context.Background(), testKey)
	s.Require().NoError(err)

	forged := sv.Payload
	forged.Valid = true

	s.expectLookup(testKey, redeemedStatus())
	valid, err := svc.Verify(context.Background(), VerifyInput{
		Payload:   &forged,
		Signature: sv.Signature,
	})
	s.Require().NoError(err)
	s.False(valid, "rebuilt payload differs from the signed one, signature cannot match")
}

func (s *ServiceSuite) TestVerify_AsymmetricTamperedSignature() {
	svc := s.asymmetricService()
	s.expectLookup(testKey, validStatus())
	sv, err := svc.Issue(context.Background(), testKey)
	s.Require().NoError(err)

	s.expectLookup(testKey, validStatus())
	valid, err := svc.Verify(context.Background(), VerifyInput{
		Payload:   &sv.Payload,
		Signature: "AAAA" + sv.Signature[4:],
	})
	s.Require().NoError(err)
	s.False(valid)
}

func (s *ServiceSuite) TestVerify_MalformedInput() {
	svc := s.symmetricService()

	cases := []struct {
		name  string
		input VerifyInput
	}{
		{"missing signature", VerifyInput{Key: testKey}},
		{"missing key and payload", VerifyInput{Signature: "abcd"}},
		{"payload without key", VerifyInput{Payload: &verdict.Payload{}, Signature: "abcd"}},
		{"key and payload disagree", VerifyInput{
			Key:       "other",
			Payload:   &verdict.Payload{Key: testKey},
			Signature: "abcd",
		}},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			// No lookup expectation: malformed input must not reach the registry.
			valid, err := svc.Verify(context.Background(), tc.input)
			s.Require().Error(err)
			s.False(valid)
			s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}
