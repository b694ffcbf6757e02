package searcher

import "gensearch/gentree"

// counter wraps one domain node and accumulates visit and reward statistics
// for it. Counters form the searcher's in-memory tree: children are owned,
// the parent link only serves to walk statistics upward.
type counter struct {
	node   gentree.Node
	parent *counter

	children []*counter
	expanded bool

	visits      int
	rewardSum   float64
	rewardSqSum float64

	bestReward float64
	bestLeaf   gentree.Node

	// frozen stops the counter from mutating its statistics or forwarding
	// updates upward, set once the search root has advanced past it.
	frozen bool
	// solved means the wrapped node is terminal or all children are
	// solved: nothing below is worth another walk.
	solved bool
}

func newCounter(node gentree.Node, parent *counter) *counter {
	return &counter{
		node:       node,
		parent:     parent,
		bestReward: noReward,
	}
}

func (c *counter) mean() float64 {
	if c.visits == 0 {
		return 0
	}
	return c.rewardSum / float64(c.visits)
}

// expand creates one child counter per domain child, preserving the domain's
// child order. Expanding twice, or expanding a terminal node, is a logic
// fault in the caller.
func (c *counter) expand() {
	if c.expanded {
		panic("expand called twice on the same node")
	}
	if c.node.IsTerminal() {
		panic("cannot expand a terminal node")
	}
	kids := c.node.Children()
	c.children = make([]*counter, len(kids))
	for i, kid := range kids {
		c.children[i] = newCounter(kid, c)
	}
	c.expanded = true
}

// backpropagate folds one observed reward into this counter and every
// ancestor, walking upward until the root or a frozen counter. A frozen
// counter absorbs nothing: the search has moved past it and its statistics
// are final.
func (c *counter) backpropagate(reward float64, leaf gentree.Node) {
	for node := c; node != nil && !node.frozen; node = node.parent {
		node.rewardSum += reward
		node.rewardSqSum += reward * reward
		if reward > node.bestReward {
			node.bestReward = reward
			node.bestLeaf = leaf
		}
	}
}

// markSolved marks this counter solved and cascades upward: a parent whose
// children are all solved is itself solved. The cascade stops at a frozen
// parent, which no longer takes part in selection.
func (c *counter) markSolved() {
	node := c
	for {
		node.solved = true
		parent := node.parent
		if parent == nil || parent.frozen {
			return
		}
		for _, sibling := range parent.children {
			if !sibling.solved {
				return
			}
		}
		node = parent
	}
}
