package looptree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompact(t *testing.T) {
	tests := []struct {
		name string
		db   string
		want string
	}{
		{"unpaired only", "....", "."},
		{"single helix", "((((...))))", "(.)"},
		{"two hairpins", "((...))..((...))", "(.).(.)"},
		{"multiloop", ".((..((...))..((...)).))..", ".(.(.).(.).)."},
		{"bulge keeps both loops", "((.((...))))", "(.(.))"},
		{"hairpin over one leaf stays a loop", "((.))", "(.)"},
		{"short hairpin", "(..)", "(.)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Parse(tt.db)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tree.Compact().DotBracket())
		})
	}
}

func TestCompact_LeavesOriginalUntouched(t *testing.T) {
	tree, err := Parse("((...))..((...))")
	require.NoError(t, err)
	before := tree.Len()

	_ = tree.Compact()

	assert.Equal(t, before, tree.Len())
	assert.Equal(t, "((...))..((...))", tree.DotBracket())
}

func TestCompact_Idempotent(t *testing.T) {
	for _, db := range []string{
		"((((...))))",
		"((...))..((...))",
		".((..((...))..((...)).))..",
		"(.)",
		"(())",
		"((.((...))))",
		"",
	} {
		tree, err := Parse(db)
		require.NoError(t, err)
		once := tree.Compact()
		twice := once.Compact()
		assert.Equal(t, once.DotBracket(), twice.DotBracket(), db)
	}
}

func TestCompact_HelixAdoptsInnermostLabel(t *testing.T) {
	tree, err := Parse("((((...))))")
	require.NoError(t, err)

	c := tree.Compact()
	top := c.Children(Root)
	require.Len(t, top, 1)
	assert.Equal(t, Interval{3, 7}, c.Label(top[0]))

	inner := c.Children(top[0])
	require.Len(t, inner, 1)
	assert.Equal(t, Interval{6, 6}, c.Label(inner[0]), "last leaf of the run is kept")

	p, ok := c.Parent(inner[0])
	require.True(t, ok)
	assert.Equal(t, top[0], p)
}

func TestCompact_EqualTopologyDifferentLengths(t *testing.T) {
	a, _ := Parse("(((....)))...((.....))")
	b, _ := Parse("((...)).((...))")
	assert.True(t, a.Compact().Equal(b.Compact()))
	assert.False(t, a.Equal(b))
}
