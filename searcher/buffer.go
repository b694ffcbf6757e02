package searcher

import (
	"context"
	"fmt"

	"gensearch/experiments/metrics"
	"gensearch/gentree"
)

// result is one scored leaf ready for backpropagation from its owner, the
// frontier counter whose walk produced the leaf.
type result struct {
	reward float64
	leaf   gentree.Node
	owner  *counter
}

type pendingLeaf struct {
	leaf  gentree.Node
	owner *counter
}

// evalBuffer queues simulated leaves until a full batch can be scored in a
// single scorer call, decoupling the per-walk cadence of the search from
// the cost of evaluation. Dead-end leaves never reach the scorer: they move
// straight to the results with a fixed reward.
type evalBuffer struct {
	scorer        gentree.Scorer
	capacity      int
	deadEndReward float64
	metrics       metrics.Collector

	pending []pendingLeaf
	ready   []result

	bestScore float64
	bestText  string
	// history records every score the scorer returned, in arrival order.
	// Dead-end rewards are not scores and never land here.
	history []float64
}

func newEvalBuffer(scorer gentree.Scorer, capacity int, deadEndReward float64, collector metrics.Collector) *evalBuffer {
	if capacity < 1 {
		panic(fmt.Sprintf("buffer capacity must be positive, got %d", capacity))
	}
	return &evalBuffer{
		scorer:        scorer,
		capacity:      capacity,
		deadEndReward: deadEndReward,
		metrics:       collector,
		bestScore:     noReward,
	}
}

// add queues one simulated leaf on behalf of its frontier counter. Filling
// the buffer triggers one batch evaluation; dead ends short-circuit it.
func (b *evalBuffer) add(ctx context.Context, owner *counter, leaf gentree.Node) error {
	if leaf.IsDeadEnd() {
		b.metrics.AddDeadEnd()
		b.ready = append(b.ready, result{reward: b.deadEndReward, leaf: leaf, owner: owner})
		return nil
	}
	b.pending = append(b.pending, pendingLeaf{leaf: leaf, owner: owner})
	if len(b.pending) == b.capacity {
		return b.forceEval(ctx)
	}
	return nil
}

// forceEval scores everything pending in one scorer call and moves the
// scored leaves to the ready results. Scores pair with texts positionally,
// so the i-th score is credited to the i-th queued leaf.
func (b *evalBuffer) forceEval(ctx context.Context) error {
	if len(b.pending) == 0 {
		return nil
	}

	texts := make([]string, len(b.pending))
	for i, p := range b.pending {
		texts[i] = p.leaf.String()
	}

	scores, err := b.scorer.ComputeScores(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to score batch of %d texts: %w", len(texts), err)
	}
	if len(scores) != len(texts) {
		return fmt.Errorf("scorer returned %d scores for %d texts", len(scores), len(texts))
	}
	b.metrics.AddFlush(len(scores))

	b.history = append(b.history, scores...)
	for i, score := range scores {
		b.ready = append(b.ready, result{reward: score, leaf: b.pending[i].leaf, owner: b.pending[i].owner})
		if score > b.bestScore {
			b.bestScore = score
			b.bestText = texts[i]
		}
	}
	b.pending = b.pending[:0]
	return nil
}

// popResults hands over everything ready for backpropagation and clears the
// ready list. A second call without new additions yields nothing.
func (b *evalBuffer) popResults() []result {
	out := b.ready
	b.ready = nil
	return out
}
