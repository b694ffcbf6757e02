package searcher

import (
	"context"

	"gensearch/gentree"
)

// mockNode is a hand-built tree: terminal when it has no children, and
// RandomChild always descends into the first child so walks stay
// deterministic.
type mockNode struct {
	name      string
	children  []*mockNode
	deadEnd   bool
	meanDepth float64
}

func (m *mockNode) IsTerminal() bool {
	return len(m.children) == 0
}

func (m *mockNode) Children() []gentree.Node {
	children := make([]gentree.Node, len(m.children))
	for i, child := range m.children {
		children[i] = child
	}
	return children
}

func (m *mockNode) RandomChild() gentree.Node {
	return m.children[0]
}

func (m *mockNode) IsDeadEnd() bool {
	return m.deadEnd
}

func (m *mockNode) MeanDepth(samples int) float64 {
	return m.meanDepth
}

func (m *mockNode) String() string {
	return m.name
}

func leaf(name string) *mockNode {
	return &mockNode{name: name}
}

func deadLeaf(name string) *mockNode {
	return &mockNode{name: name, deadEnd: true}
}

func branch(name string, children ...*mockNode) *mockNode {
	return &mockNode{name: name, children: children}
}

// mockScorer records every batch it is asked to score and answers from a
// fixed score table.
type mockScorer struct {
	scores  map[string]float64
	batches [][]string
	err     error
}

func (m *mockScorer) ComputeScores(ctx context.Context, texts []string) ([]float64, error) {
	m.batches = append(m.batches, append([]string(nil), texts...))
	if m.err != nil {
		return nil, m.err
	}
	scores := make([]float64, len(texts))
	for i, text := range texts {
		scores[i] = m.scores[text]
	}
	return scores, nil
}

func (m *mockScorer) calls() int {
	return len(m.batches)
}

// shortScorer violates the scorer contract by dropping the last score.
type shortScorer struct{}

func (shortScorer) ComputeScores(ctx context.Context, texts []string) ([]float64, error) {
	return make([]float64, len(texts)-1), nil
}
