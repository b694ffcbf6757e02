package grammar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("parses rules with ordered alternatives", func(t *testing.T) {
		g, err := New("S -> 'a' | 'b' B\nB -> 'c'")
		require.NoError(t, err)

		children := g.Root().Children()
		require.Len(t, children, 2)
		require.Equal(t, "a", children[0].String())
		require.Equal(t, "b <B>", children[1].String(),
			"Should keep the declaration order of alternatives")
	})

	t.Run("takes the first left-hand side as the start symbol", func(t *testing.T) {
		g, err := New("S -> 'x'\nT -> 'y'")
		require.NoError(t, err)

		require.Equal(t, "<S>", g.Root().String())
	})

	t.Run("appends alternatives of a repeated left-hand side", func(t *testing.T) {
		g, err := New("S -> 'a'\nS -> 'b'")
		require.NoError(t, err)

		children := g.Root().Children()
		require.Len(t, children, 2)
		require.Equal(t, "a", children[0].String())
		require.Equal(t, "b", children[1].String())
	})

	t.Run("skips comments and blank lines", func(t *testing.T) {
		g, err := New("# a comment\n\nS -> 'a' # trailing\n")
		require.NoError(t, err)

		require.Len(t, g.Root().Children(), 1)
	})

	t.Run("rejects a line without an arrow", func(t *testing.T) {
		_, err := New("S 'a'")

		require.Error(t, err)
		require.Contains(t, err.Error(), "line 1")
	})

	t.Run("rejects a quoted left-hand side", func(t *testing.T) {
		_, err := New("'s' -> 'a'")

		require.Error(t, err)
	})

	t.Run("rejects an unterminated terminal", func(t *testing.T) {
		_, err := New("S -> 'a")

		require.Error(t, err)
		require.Contains(t, err.Error(), "unterminated")
	})

	t.Run("rejects a nonterminal without rules", func(t *testing.T) {
		_, err := New("S -> A 'x'")

		require.Error(t, err)
		require.Contains(t, err.Error(), "A")
	})

	t.Run("rejects an empty grammar", func(t *testing.T) {
		for _, text := range []string{"", "# nothing but comments\n"} {
			_, err := New(text)
			require.Error(t, err)
		}
	})
}
