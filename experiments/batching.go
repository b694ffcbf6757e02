package experiments

import (
	"gensearch/searcher"
)

// RunBatchingExperiment measures what buffering buys: how the number of
// scorer calls and the wall time of a fixed walk budget change with the
// buffer size. Each setup runs the same budget, so scored-leaf counts stay
// comparable across buffer sizes.
func RunBatchingExperiment() {
	setups := []runSetup{
		newSetup(1, searcher.ExhaustFromRoot, WalkBudget, 1, 1),
		newSetup(2, searcher.ExhaustFromRoot, WalkBudget, 2, 1),
		newSetup(3, searcher.ExhaustFromRoot, WalkBudget, 4, 1),
		newSetup(4, searcher.ExhaustFromRoot, WalkBudget, 8, 1),
		newSetup(5, searcher.ExhaustFromRoot, WalkBudget, 16, 1),
		newSetup(6, searcher.ExhaustFromRoot, WalkBudget, 32, 1),
	}

	runExperiment("batching", setups)
}
