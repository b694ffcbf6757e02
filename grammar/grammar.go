package grammar

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/rand"
)

// DefaultMaxExpansions caps how many rewrites a single derivation may spend
// before it is cut off.
const DefaultMaxExpansions = 80

type symbol struct {
	text     string
	terminal bool
}

// Grammar is a context-free grammar whose production alternatives keep
// their declaration order. Derivations start from the left-hand side of the
// first rule.
type Grammar struct {
	start         string
	productions   map[string][][]symbol
	maxExpansions int
	rng           *rand.Rand
}

type Option func(g *Grammar)

func WithMaxExpansions(n int) Option {
	return func(g *Grammar) {
		if n > 0 {
			g.maxExpansions = n
		}
	}
}

// WithSeed fixes the source of the random descents, making RandomChild and
// MeanDepth reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Grammar) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// New parses a grammar from text, one rule per line in the form
//
//	LHS -> 'terminal' Nonterminal | 'alternative'
//
// Quoted tokens are terminals, bare tokens are nonterminals, and '#' starts
// a comment. Repeating a left-hand side on several lines appends further
// alternatives to its rule.
func New(text string, options ...Option) (*Grammar, error) {
	g := &Grammar{
		productions:   make(map[string][][]symbol),
		maxExpansions: DefaultMaxExpansions,
	}
	for _, option := range options {
		option(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}

	for i, line := range strings.Split(text, "\n") {
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lhs, rhs, found := strings.Cut(line, "->")
		if !found {
			return nil, fmt.Errorf("line %d: expected \"LHS -> alternatives\", got %q", i+1, line)
		}
		lhs = strings.TrimSpace(lhs)
		if lhs == "" || strings.ContainsAny(lhs, `'"|`) {
			return nil, fmt.Errorf("line %d: invalid left-hand side %q", i+1, lhs)
		}
		if g.start == "" {
			g.start = lhs
		}

		for _, alternative := range strings.Split(rhs, "|") {
			var symbols []symbol
			for _, token := range strings.Fields(alternative) {
				s, err := parseSymbol(token)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", i+1, err)
				}
				symbols = append(symbols, s)
			}
			g.productions[lhs] = append(g.productions[lhs], symbols)
		}
	}

	if g.start == "" {
		return nil, fmt.Errorf("grammar defines no rules")
	}
	for lhs, alternatives := range g.productions {
		for _, alternative := range alternatives {
			for _, s := range alternative {
				if !s.terminal {
					if _, ok := g.productions[s.text]; !ok {
						return nil, fmt.Errorf("nonterminal %s in a rule of %s has no rule of its own", s.text, lhs)
					}
				}
			}
		}
	}
	return g, nil
}

func parseSymbol(token string) (symbol, error) {
	for _, quote := range []byte{'\'', '"'} {
		if token[0] != quote {
			continue
		}
		if len(token) < 2 || token[len(token)-1] != quote {
			return symbol{}, fmt.Errorf("unterminated terminal %s", token)
		}
		return symbol{text: token[1 : len(token)-1], terminal: true}, nil
	}
	return symbol{text: token}, nil
}

// Root returns a fresh derivation: the start symbol alone, with the whole
// expansion allowance still unspent.
func (g *Grammar) Root() *Node {
	return &Node{
		grammar: g,
		symbols: []symbol{{text: g.start}},
	}
}
