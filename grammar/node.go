package grammar

import (
	"strings"

	"gensearch/gentree"
)

// Node is one sentential form of a derivation: the symbols produced so far,
// some of them possibly still nonterminal. Nodes are immutable; rewriting
// yields fresh nodes that share the grammar.
type Node struct {
	grammar    *Grammar
	symbols    []symbol
	expansions int
	nt         int // index of the leftmost nonterminal, -1 once none is left
}

var _ gentree.Node = (*Node)(nil)

// IsTerminal reports whether the derivation is finished, either because all
// symbols are terminal or because the expansion allowance is spent.
func (n *Node) IsTerminal() bool {
	return n.nt < 0 || n.expansions >= n.grammar.maxExpansions
}

// IsDeadEnd reports whether the derivation was cut off with a nonterminal
// left in it, so the rendered text is not a real sentence of the grammar.
func (n *Node) IsDeadEnd() bool {
	return n.nt >= 0
}

// Children returns one node per alternative of the leftmost nonterminal, in
// the order the grammar declares them.
func (n *Node) Children() []gentree.Node {
	if n.IsTerminal() {
		panic("no children below a finished derivation")
	}
	alternatives := n.grammar.productions[n.symbols[n.nt].text]
	children := make([]gentree.Node, len(alternatives))
	for i, alternative := range alternatives {
		children[i] = n.rewrite(alternative)
	}
	return children
}

// RandomChild rewrites the leftmost nonterminal with an alternative drawn
// uniformly from its rule.
func (n *Node) RandomChild() gentree.Node {
	if n.IsTerminal() {
		panic("no children below a finished derivation")
	}
	alternatives := n.grammar.productions[n.symbols[n.nt].text]
	return n.rewrite(alternatives[n.grammar.rng.Intn(len(alternatives))])
}

func (n *Node) rewrite(alternative []symbol) *Node {
	symbols := make([]symbol, 0, len(n.symbols)-1+len(alternative))
	symbols = append(symbols, n.symbols[:n.nt]...)
	symbols = append(symbols, alternative...)
	symbols = append(symbols, n.symbols[n.nt+1:]...)
	return &Node{
		grammar:    n.grammar,
		symbols:    symbols,
		expansions: n.expansions + 1,
		nt:         leftmostNonterminal(symbols, n.nt),
	}
}

// leftmostNonterminal scans from the first position a rewrite could have
// touched; everything to the left is already terminal.
func leftmostNonterminal(symbols []symbol, from int) int {
	for i := from; i < len(symbols); i++ {
		if !symbols[i].terminal {
			return i
		}
	}
	return -1
}

// MeanDepth estimates by random descent how many rewrites separate this
// form from a finished derivation.
func (n *Node) MeanDepth(samples int) float64 {
	if samples <= 0 || n.IsTerminal() {
		return 0
	}
	total := 0
	for i := 0; i < samples; i++ {
		depth := 0
		node := gentree.Node(n)
		for !node.IsTerminal() {
			node = node.RandomChild()
			depth++
		}
		total += depth
	}
	return float64(total) / float64(samples)
}

// String renders the form as text: terminals joined by spaces, leftover
// nonterminals in angle brackets.
func (n *Node) String() string {
	parts := make([]string, len(n.symbols))
	for i, s := range n.symbols {
		if s.terminal {
			parts[i] = s.text
		} else {
			parts[i] = "<" + s.text + ">"
		}
	}
	return strings.Join(parts, " ")
}
