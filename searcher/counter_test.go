package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounterExpand(t *testing.T) {
	t.Run("creates one child per domain child in declared order", func(t *testing.T) {
		root := newCounter(branch("root", leaf("a"), leaf("b"), leaf("c")), nil)

		root.expand()

		require.True(t, root.expanded)
		require.Len(t, root.children, 3)
		for i, name := range []string{"a", "b", "c"} {
			require.Equal(t, name, root.children[i].node.String(),
				"Should keep the domain's child order")
			require.Same(t, root, root.children[i].parent)
		}
	})

	t.Run("starts children without statistics", func(t *testing.T) {
		root := newCounter(branch("root", leaf("a")), nil)

		root.expand()

		child := root.children[0]
		require.Zero(t, child.visits)
		require.Zero(t, child.rewardSum)
		require.Equal(t, noReward, child.bestReward,
			"Should start below any valid reward")
	})

	t.Run("panics when expanding twice", func(t *testing.T) {
		root := newCounter(branch("root", leaf("a")), nil)
		root.expand()

		require.Panics(t, func() {
			root.expand()
		}, "Should panic on a second expansion")
	})

	t.Run("panics when expanding a terminal node", func(t *testing.T) {
		c := newCounter(leaf("done"), nil)

		require.Panics(t, func() {
			c.expand()
		}, "Should panic below a terminal node")
	})
}

func TestCounterBackpropagate(t *testing.T) {
	makeChain := func() (*counter, *counter, *counter) {
		root := newCounter(leaf("root"), nil)
		mid := newCounter(leaf("mid"), root)
		tip := newCounter(leaf("tip"), mid)
		return root, mid, tip
	}

	t.Run("accumulates the reward on every ancestor", func(t *testing.T) {
		root, mid, tip := makeChain()
		sentence := leaf("the sentence")

		tip.backpropagate(0.5, sentence)

		for _, c := range []*counter{root, mid, tip} {
			require.InDelta(t, 0.5, c.rewardSum, 0.0001)
			require.InDelta(t, 0.25, c.rewardSqSum, 0.0001)
			require.InDelta(t, 0.5, c.bestReward, 0.0001)
			require.Same(t, sentence, c.bestLeaf)
			require.Zero(t, c.visits, "Should count visits during selection, not backpropagation")
		}
	})

	t.Run("keeps the best reward and its leaf", func(t *testing.T) {
		_, _, tip := makeChain()
		best := leaf("best")

		tip.backpropagate(0.8, best)
		tip.backpropagate(0.3, leaf("worse"))

		require.InDelta(t, 1.1, tip.rewardSum, 0.0001)
		require.InDelta(t, 0.8*0.8+0.3*0.3, tip.rewardSqSum, 0.0001)
		require.InDelta(t, 0.8, tip.bestReward, 0.0001)
		require.Same(t, best, tip.bestLeaf)
	})

	t.Run("stops at a frozen ancestor", func(t *testing.T) {
		root, mid, tip := makeChain()
		mid.frozen = true

		tip.backpropagate(0.5, leaf("s"))

		require.InDelta(t, 0.5, tip.rewardSum, 0.0001)
		require.Zero(t, mid.rewardSum, "A frozen node should absorb nothing")
		require.Zero(t, root.rewardSum, "Nothing should pass beyond a frozen node")
	})

	t.Run("a frozen starting node absorbs nothing", func(t *testing.T) {
		root, mid, tip := makeChain()
		tip.frozen = true

		tip.backpropagate(0.5, leaf("s"))

		for _, c := range []*counter{root, mid, tip} {
			require.Zero(t, c.rewardSum)
			require.Equal(t, noReward, c.bestReward)
		}
	})
}

func TestCounterMarkSolved(t *testing.T) {
	t.Run("cascades once all siblings are solved", func(t *testing.T) {
		root := newCounter(branch("root", branch("mid", leaf("a"), leaf("b"))), nil)
		root.expand()
		mid := root.children[0]
		mid.expand()

		mid.children[0].markSolved()

		require.True(t, mid.children[0].solved)
		require.False(t, mid.solved, "Should wait for all children")

		mid.children[1].markSolved()

		require.True(t, mid.solved, "Should solve once the last child is solved")
		require.True(t, root.solved, "Should cascade through an only child")
	})

	t.Run("stops the cascade at a frozen parent", func(t *testing.T) {
		root := newCounter(branch("root", leaf("a")), nil)
		root.expand()
		root.frozen = true

		root.children[0].markSolved()

		require.True(t, root.children[0].solved)
		require.False(t, root.solved, "A frozen parent should stay out of the cascade")
	})
}
