package registry

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ParserSuite struct {
	suite.Suite
}

func TestParserSuite(t *testing.T) {
	suite.Run(t, new(ParserSuite))
}

// TestParseEntries verifies the line-parsing policy.
// Invariant: blanks and comments are skipped; bare keys and structured
// records both parse; short structured lines are dropped, never
// destructured into empty fields.
func (s *ParserSuite) TestParseEntries() {
	s.Run("bare keys", func() {
		entries := ParseEntries("abc123\ndef456\n")
		s.Require().Len(entries, 2)
		s.Equal("abc123", entries[0].Key)
		s.Empty(entries[0].RedeemedBy)
	})

	s.Run("skips blanks and comments", func() {
		entries := ParseEntries("\n# header\nabc123\n\n  # indented comment\n")
		s.Require().Len(entries, 1)
		s.Equal("abc123", entries[0].Key)
	})

	s.Run("structured record", func() {
		entries := ParseEntries("def456,role1,alice,2024-01-01\n")
		s.Require().Len(entries, 1)
		s.Equal(Entry{
			Key:        "def456",
			Role:       "role1",
			RedeemedBy: "alice",
			RedeemedAt: "2024-01-01",
		}, entries[0])
	})

	s.Run("structured record with surrounding whitespace", func() {
		entries := ParseEntries("  def456 , role1 , alice , 2024-01-01  \n")
		s.Require().Len(entries, 1)
		s.Equal("def456", entries[0].Key)
		s.Equal("alice", entries[0].RedeemedBy)
	})

	s.Run("unredeemed structured record keeps empty marker", func() {
		entries := ParseEntries("def456,role1,,\n")
		s.Require().Len(entries, 1)
		s.Empty(entries[0].RedeemedBy)
	})

	s.Run("short structured lines are skipped", func() {
		entries := ParseEntries("only,two\nthree,fields,here\nok123\n")
		s.Require().Len(entries, 1)
		s.Equal("ok123", entries[0].Key)
	})

	s.Run("extra fields fold into redeemed_at", func() {
		entries := ParseEntries("k,r,u,2024-01-01,extra\n")
		s.Require().Len(entries, 1)
		s.Equal("2024-01-01,extra", entries[0].RedeemedAt)
	})
}

// TestFindKey verifies lookup semantics over parsed entries.
func (s *ParserSuite) TestFindKey() {
	content := "abc123\n#comment\ndef456,role1,alice,2024-01-01\n"
	entries := ParseEntries(content)

	s.Run("bare key is valid", func() {
		st := FindKey(entries, "abc123")
		s.Equal(StateValid, st.State)
	})

	s.Run("redeemed key carries claimant and timestamp", func() {
		st := FindKey(entries, "def456")
		s.Equal(StateRedeemed, st.State)
		s.Equal("alice", st.RedeemedBy)
		s.Equal("2024-01-01", st.RedeemedAt)
	})

	s.Run("absent key is not found", func() {
		st := FindKey(entries, "zzz")
		s.Equal(StateNotFound, st.State)
	})

	s.Run("comparison is case-sensitive", func() {
		st := FindKey(entries, "ABC123")
		s.Equal(StateNotFound, st.State)
	})

	s.Run("first match wins on duplicates", func() {
		dup := ParseEntries("k1,role1,alice,2024-01-01\nk1\n")
		st := FindKey(dup, "k1")
		s.Equal(StateRedeemed, st.State)
	})

	s.Run("unredeemed structured key is valid", func() {
		un := ParseEntries("k2,role2,,\n")
		st := FindKey(un, "k2")
		s.Equal(StateValid, st.State)
		s.Equal("role2", st.Role)
	})
}
