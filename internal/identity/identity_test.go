package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"bare handle", "alice", "@alice"},
		{"single sigil", "@alice", "@alice"},
		{"stacked sigils", "@@@alice", "@alice"},
		{"uppercase", "ALICE", "@alice"},
		{"mixed case with sigil", "@AlIcE", "@alice"},
		{"surrounding whitespace", "  @alice \t", "@alice"},
		{"embedded sigil", "ali@ce", "@alice"},
		{"empty input", "", "@"},
		{"underscores kept", "@ali_ce", "@ali_ce"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.raw))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, raw := range []string{"alice", "@Bob_99", "  @@Carol  ", "d@ve", ""} {
		once := Normalize(raw)
		assert.Equal(t, once, Normalize(once), "raw=%q", raw)
	}
}

func TestNormalizeSingleSigil(t *testing.T) {
	for _, raw := range []string{"alice", "@@x", "a@b@c", "@", ""} {
		key := Normalize(raw)
		require.True(t, len(key) >= 1 && key[0] == '@', "raw=%q key=%q", raw, key)
		assert.NotContains(t, key[1:], "@", "raw=%q key=%q", raw, key)
	}
}

func TestLookupCandidates(t *testing.T) {
	t.Run("key without underscores probes once", func(t *testing.T) {
		assert.Equal(t, []string{"@alice"}, LookupCandidates("@alice"))
	})

	t.Run("underscore key probes legacy variants in order", func(t *testing.T) {
		got := LookupCandidates("@ali_ce")
		assert.Equal(t, []string{"@ali_ce", "@alice", "@ali-ce"}, got)
	})

	t.Run("mixed case key includes lowered variant", func(t *testing.T) {
		got := LookupCandidates("@Ali_Ce")
		assert.Equal(t, []string{"@Ali_Ce", "@ali_ce", "@AliCe", "@Ali-Ce"}, got)
	})
}
