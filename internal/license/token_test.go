package license

import (
	"context"
	"time"

	dErrors "keygate/pkg/domain-errors"
)

func (s *ServiceSuite) TestToken_SymmetricRoundTrip() {
	svc := s.symmetricService()
	s.expectLookup(testKey, validStatus())

	issued, err := svc.IssueToken(context.Background(), testKey)
	s.Require().NoError(err)
	s.NotEmpty(issued.Token)
	s.Equal(int64(900), issued.ExpiresIn)

	s.expectLookup(testKey, validStatus())
	valid, err := svc.VerifyToken(context.Background(), issued.Token)
	s.Require().NoError(err)
	s.True(valid)
}

func (s *ServiceSuite) TestToken_AsymmetricRoundTrip() {
	svc := s.asymmetricService()
	s.expectLookup(testKey, validStatus())

	issued, err := svc.IssueToken(context.Background(), testKey)
	s.Require().NoError(err)

	s.expectLookup(testKey, validStatus())
	valid, err := svc.VerifyToken(context.Background(), issued.Token)
	s.Require().NoError(err)
	s.True(valid)
}

func (s *ServiceSuite) TestToken_ExpiredTokenRejected() {
	now := time.Unix(1_700_000_000, 0)
	svc := s.symmetricService(
		WithTokenTTL(time.Minute),
		WithClock(func() time.Time { return now }),
	)

	s.expectLookup(testKey, validStatus())
	issued, err := svc.IssueToken(context.Background(), testKey)
	s.Require().NoError(err)

	now = now.Add(2 * time.Minute)
	valid, err := svc.VerifyToken(context.Background(), issued.Token)
	s.Require().NoError(err)
	s.False(valid, "expired token is a plain invalid verdict")
}

// A token signed under the other scheme's algorithm must be rejected by the
// algorithm allow-list, not just by key mismatch.
func (s *ServiceSuite) TestToken_WrongAlgorithmRejected() {
	issuer := s.asymmetricService()
	s.expectLookup(testKey, validStatus())
	issued, err := issuer.IssueToken(context.Background(), testKey)
	s.Require().NoError(err)

	verifier := s.symmetricService()
	valid, err := verifier.VerifyToken(context.Background(), issued.Token)
	s.Require().NoError(err)
	s.False(valid)
}

func (s *ServiceSuite) TestToken_KeyRemovedSinceIssue() {
	svc := s.symmetricService()
	s.expectLookup(testKey, validStatus())
	issued, err := svc.IssueToken(context.Background(), testKey)
	s.Require().NoError(err)

	s.expectLookup(testKey, notFoundStatus())
	valid, err := svc.VerifyToken(context.Background(), issued.Token)
	s.Require().NoError(err)
	s.False(valid)
}

// The embedded verdict fields are informational; the verifier recomputes
// validity from the registry even when the token says valid=false.
func (s *ServiceSuite) TestToken_EmbeddedVerdictNotTrusted() {
	svc := s.symmetricService()
	s.expectLookup(testKey, notFoundStatus())
	issued, err := svc.IssueToken(context.Background(), testKey)
	s.Require().NoError(err)

	s.expectLookup(testKey, validStatus())
	valid, err := svc.VerifyToken(context.Background(), issued.Token)
	s.Require().NoError(err)
	s.True(valid, "registry says valid now, token's embedded valid=false is ignored")
}

func (s *ServiceSuite) TestToken_GarbageRejectedWithoutLookup() {
	svc := s.symmetricService()

	valid, err := svc.VerifyToken(context.Background(), "not.a.jwt")
	s.Require().NoError(err)
	s.False(valid)
}

func (s *ServiceSuite) TestToken_EmptyInputs() {
	svc := s.symmetricService()

	_, err := svc.IssueToken(context.Background(), "")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = svc.VerifyToken(context.Background(), "")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
