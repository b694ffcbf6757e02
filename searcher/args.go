package searcher

// Hyperparameters for the search

// Single-player UCB constants (Schadd et al.): C scales the visit-count
// exploration term, D pads the reward-variance term so rarely sampled
// children keep a wide confidence bound.
const (
	ExplorationC = 1.0
	VarianceD    = 100.0
)

// noReward sits below any valid score so the first observation claims best.
const noReward = -1.0

// depthSamples is the number of random descents used to estimate the tree's
// mean depth when sizing the per-depth quota.
const depthSamples = 50

// overProvision widens the per-depth quota so the budget runs out a little
// after the search reaches typical leaf depth, not before.
const overProvision = 1.2

const defaultBufferSize = 1
const defaultRestarts = 1
