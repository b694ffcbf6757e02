package searcher

import (
	"fmt"

	"gensearch/gentree"
)

// Strategy selects how the walk budget is spread over the search.
type Strategy int

const (
	// ExhaustFromRoot spends the whole budget from the original root and
	// never advances it.
	ExhaustFromRoot Strategy = iota
	// UniformPerDepth grants every depth an equal share of the walks and
	// advances the root to its best child once the share is spent.
	UniformPerDepth
)

func (s Strategy) String() string {
	switch s {
	case ExhaustFromRoot:
		return "exhaust-from-root"
	case UniformPerDepth:
		return "uniform-per-depth"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// budget tracks consumed tree walks, in total and at the current root depth,
// and decides when the search should commit to a child and move its root.
type budget struct {
	strategy Strategy

	total           int
	consumed        int
	consumedAtDepth int

	// perDepthQuota stays fractional: advancement compares the integer
	// depth consumption against the exact quota, so no rounding choice can
	// shift walk counts near the boundary.
	perDepthQuota float64
	depth         int
}

func newBudget(strategy Strategy, root gentree.Node, units int) *budget {
	b := &budget{strategy: strategy, total: units}
	switch strategy {
	case ExhaustFromRoot:
		b.perDepthQuota = float64(units)
	case UniformPerDepth:
		b.perDepthQuota = float64(units) / root.MeanDepth(depthSamples) * overProvision
	default:
		panic(fmt.Sprintf("unknown budget strategy %d", int(strategy)))
	}
	b.reset()
	return b
}

func (b *budget) consumeOneUnit() {
	b.consumed++
	b.consumedAtDepth++
}

func (b *budget) stillHasResources() bool {
	return b.consumed < b.total
}

// shouldAdvanceRoot reports whether the walks granted to the current depth
// are spent.
func (b *budget) shouldAdvanceRoot() bool {
	switch b.strategy {
	case ExhaustFromRoot:
		return false
	case UniformPerDepth:
		return float64(b.consumedAtDepth) >= b.perDepthQuota
	default:
		panic(fmt.Sprintf("unknown budget strategy %d", int(b.strategy)))
	}
}

// setNewPosition moves the accounting to a new root depth, leaving the total
// consumption untouched.
func (b *budget) setNewPosition(depth int) {
	b.depth = depth
	b.consumedAtDepth = 0
}

// reset restores the budget for an independent restart of the same search.
func (b *budget) reset() {
	b.depth = 1
	b.consumed = 0
	b.consumedAtDepth = 0
}
