package gentree

import "context"

// Node is one node of the generation tree being searched. Implementations
// should behave as immutable values - the searcher never mutates a Node and
// assumes repeated calls on the same Node return the same answers (except
// RandomChild, which is free to be random).
type Node interface {
	// IsTerminal reports whether the node has no further expansion.
	IsTerminal() bool
	// Children returns the ordered expansions of this node. Valid only on
	// non-terminal nodes; the order fixes selection and expansion order.
	Children() []Node
	// RandomChild takes one domain-defined random descent step.
	RandomChild() Node
	// IsDeadEnd reports whether a terminal node is an invalid or incomplete
	// result. Dead ends are never handed to the scorer.
	IsDeadEnd() bool
	// MeanDepth estimates the mean depth of a leaf below this node from the
	// given number of random descents.
	MeanDepth(samples int) float64
	// String renders the realized output text.
	String() string
}

// Scorer scores a batch of rendered texts in one call. The returned slice
// must have the same length and order as texts: the i-th score belongs to
// the i-th text. Scores are assumed mutually comparable; higher is better.
type Scorer interface {
	ComputeScores(ctx context.Context, texts []string) ([]float64, error)
}
