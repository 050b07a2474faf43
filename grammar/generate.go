package grammar

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/gramsynth/gramsynth/internal/weighted"
)

var defaultRand = sync.OnceValue(func() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
})

// Generate produces one random derivation from the start symbol. At each
// nonterminal one rule is chosen with probability proportional to its
// weight among the rules sharing that LHS, then one child is generated
// per RHS symbol.
//
// The generator is injectable for reproducibility; a nil rng falls back
// to a process-wide source. Generation recurses without cycle detection,
// so a grammar whose weights favor unbounded recursion may not
// terminate; that is the caller's responsibility.
func (g *Grammar) Generate(rng *rand.Rand) (*Expression, error) {
	return g.GenerateFrom(rng, g.start)
}

// GenerateFrom is Generate starting from the given symbol.
func (g *Grammar) GenerateFrom(rng *rand.Rand, lhs Symbol) (*Expression, error) {
	if rng == nil {
		rng = defaultRand()
	}
	rules := g.rules[lhs]
	if len(rules) == 0 {
		return nil, fmt.Errorf("no rules with left-hand side %q", lhs)
	}
	weights := make([]float64, len(rules))
	for i, rule := range rules {
		weights[i] = rule.weight
	}
	idx, err := weighted.Index(rng, weights)
	if err != nil {
		return nil, fmt.Errorf("choosing a rule for %q: %w", lhs, err)
	}
	rule := rules[idx]
	if rule.IsTerminal() {
		return NewExpression(rule), nil
	}
	children := make([]*Expression, len(rule.rhs))
	for i, childLHS := range rule.rhs {
		child, err := g.GenerateFrom(rng, childLHS)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}
	return NewExpression(rule, children...), nil
}
