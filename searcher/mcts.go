package searcher

import (
	"context"
	"fmt"
	"math"

	"gensearch/experiments/metrics"
	"gensearch/gentree"

	"github.com/rs/zerolog/log"
)

type Option func(mcts *MCTS)

// Result is the outcome of a search: the best text found across all
// restarts and the score it achieved. Score is negative only when no text
// was ever scored, which happens when the root is terminal or every walk
// ended in a dead end.
type Result struct {
	Text  string
	Score float64
}

// MCTS explores a generation tree under a fixed budget of walks and keeps
// the best scored text it encounters. One instance drives one search at a
// time; scoring happens in batches through the configured scorer.
type MCTS struct {
	strategy      Strategy
	bufferSize    int
	restarts      int
	deadEndReward float64
	scorer        gentree.Scorer
	buffer        *evalBuffer
	budget        *budget
	root          *counter
	metrics       metrics.Collector
	lastMetric    metrics.SearchMetric
}

func WithStrategy(strategy Strategy) Option {
	return func(m *MCTS) {
		m.strategy = strategy
	}
}

func WithBufferSize(size int) Option {
	return func(m *MCTS) {
		if size > 0 {
			m.bufferSize = size
		}
	}
}

func WithRestarts(restarts int) Option {
	return func(m *MCTS) {
		if restarts > 0 {
			m.restarts = restarts
		}
	}
}

// WithDeadEndReward overrides the reward backpropagated for dead-end leaves,
// zero unless configured.
func WithDeadEndReward(reward float64) Option {
	return func(m *MCTS) {
		m.deadEndReward = reward
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(scorer gentree.Scorer, options ...Option) *MCTS {
	if scorer == nil {
		panic("must specify a scorer")
	}
	m := &MCTS{ // Default values
		strategy:   ExhaustFromRoot,
		bufferSize: defaultBufferSize,
		restarts:   defaultRestarts,
		scorer:     scorer,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Search runs the configured number of independent restarts over the tree
// rooted at root, splitting the walk budget evenly between them, and
// returns the best text and score seen across all restarts. The context is
// checked once per walk, so cancellation takes effect between walks, and a
// scorer failure aborts the whole search.
func (m *MCTS) Search(ctx context.Context, root gentree.Node, walks int) (Result, error) {
	if walks <= 0 {
		return Result{}, fmt.Errorf("search needs a positive walk budget, got %d", walks)
	}
	perRestart := walks / m.restarts
	if perRestart == 0 {
		return Result{}, fmt.Errorf("%d walks spread over %d restarts leaves none per restart", walks, m.restarts)
	}
	if remainder := walks % m.restarts; remainder > 0 {
		log.Warn().Msgf("dropping %d of %d walks: budget divides into %d restarts of %d", remainder, walks, m.restarts, perRestart)
	}

	m.metrics.Start(m.strategy.String(), m.bufferSize, m.restarts)
	m.buffer = newEvalBuffer(m.scorer, m.bufferSize, m.deadEndReward, m.metrics)
	m.budget = newBudget(m.strategy, root, perRestart)

	for i := 0; i < m.restarts; i++ {
		m.budget.reset()
		if err := m.singleSearch(ctx, root); err != nil {
			return Result{}, err
		}
	}
	m.lastMetric = m.metrics.Complete()

	return Result{Text: m.buffer.bestText, Score: m.buffer.bestScore}, nil
}

// Metric reports statistics about the last completed Search call. It is the
// zero SearchMetric unless the engine was built WithMetrics.
func (m *MCTS) Metric() metrics.SearchMetric {
	return m.lastMetric
}

// ScoreHistory lists every score the scorer returned during the last Search
// call, in arrival order. The caller must treat the slice as read-only.
func (m *MCTS) ScoreHistory() []float64 {
	if m.buffer == nil {
		return nil
	}
	return m.buffer.history
}

// singleSearch grows one search tree walk by walk until the logical root
// becomes terminal or solved, or its share of the budget runs out. Scored
// results surface asynchronously from the buffer, usually on a later walk
// than the one that queued them.
func (m *MCTS) singleSearch(ctx context.Context, root gentree.Node) error {
	m.root = newCounter(root, nil)
	depth := 1

	for !m.root.node.IsTerminal() && !m.root.solved && m.budget.stillHasResources() {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.budget.consumeOneUnit()
		m.metrics.AddWalk()

		// Selection: descend to the frontier of the visited tree
		frontier := m.selectFrontier()

		// Expansion: a terminal frontier is sealed instead of expanded
		if frontier.node.IsTerminal() {
			frontier.markSolved()
		} else {
			frontier.expand()
		}

		// Simulation: random descent from the frontier to a leaf
		leaf := frontier.node
		for !leaf.IsTerminal() {
			leaf = leaf.RandomChild()
		}

		// Evaluation and backpropagation, decoupled by the buffer
		if err := m.buffer.add(ctx, frontier, leaf); err != nil {
			return err
		}
		for _, r := range m.buffer.popResults() {
			r.owner.backpropagate(r.reward, r.leaf)
		}

		// Root advancement once this depth's share of walks is spent
		if m.budget.shouldAdvanceRoot() {
			if err := m.drainBuffer(ctx); err != nil {
				return err
			}
			depth++
			m.advanceRoot(depth)
		}
	}

	// Walks queued near the end still owe their statistics to the tree
	return m.drainBuffer(ctx)
}

func (m *MCTS) drainBuffer(ctx context.Context) error {
	if err := m.buffer.forceEval(ctx); err != nil {
		return err
	}
	for _, r := range m.buffer.popResults() {
		r.owner.backpropagate(r.reward, r.leaf)
	}
	return nil
}

// advanceRoot commits the search to the child of the current root with the
// best observed reward. The old root freezes, so late results from beyond
// it no longer alter its statistics, and the abandoned siblings are dropped
// to release their subtrees.
func (m *MCTS) advanceRoot(depth int) {
	old := m.root
	if !old.expanded || len(old.children) == 0 {
		panic("cannot advance from a root without children")
	}
	old.frozen = true

	next := old.children[0]
	for _, child := range old.children[1:] {
		if child.bestReward > next.bestReward {
			next = child
		}
	}
	old.children = []*counter{next}

	m.root = next
	m.budget.setNewPosition(depth)
	m.metrics.AddAdvance()
}

// selectFrontier descends from the logical root along maximum-UCB children,
// counting a visit on every node it passes, and stops at the first node not
// yet expanded.
func (m *MCTS) selectFrontier() *counter {
	node := m.root
	node.visits++
	for node.expanded {
		node = selectChild(node)
		node.visits++
	}
	return node
}

// selectChild picks the first never-visited child in declared order, and
// otherwise the unsolved child with the highest single-player UCB score.
func selectChild(parent *counter) *counter {
	for _, child := range parent.children {
		if child.visits == 0 {
			return child
		}
	}

	var best *counter
	bestScore := math.Inf(-1)
	for _, child := range parent.children {
		if child.solved {
			continue
		}
		if score := singlePlayerUCB(child, parent); score > bestScore {
			bestScore = score
			best = child
		}
	}
	if best == nil {
		panic("selection reached a node whose children are all solved")
	}
	return best
}

// singlePlayerUCB scores a visited child for selection: the mean reward,
// a visit-count exploration term, and a reward-variance term that keeps
// rarely sampled children attractive.
func singlePlayerUCB(child, parent *counter) float64 {
	if child.visits == 0 {
		panic("cannot compute UCB: 0 visits")
	}
	visits := float64(child.visits)
	mean := child.mean()
	exploration := math.Sqrt(ExplorationC * math.Log(float64(parent.visits)/visits))
	spread := math.Sqrt((child.rewardSqSum - visits*mean*mean + VarianceD) / visits)
	return mean + exploration + spread
}
