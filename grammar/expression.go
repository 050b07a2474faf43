package grammar

import (
	"fmt"
	"strings"

	"github.com/gramsynth/gramsynth/semantics"
)

// An Expression is a derivation tree built from a grammar: a node
// labeled with the rule applied at that position, holding one child
// subtree per RHS symbol of the rule (none for terminal rules).
//
// Expressions are executable. Call evaluates the tree bottom-up: the
// external arguments flow unchanged to every leaf, each leaf applies its
// rule's function to them, and every internal node applies its rule's
// function to its children's results, in child order. No type checking
// is performed across rule composition; a mismatch surfaces from the
// underlying function at call time.
type Expression struct {
	rule     *Rule
	children []*Expression
	form     string

	// meaning is a write-once cache filled by Evaluate. It is tied to
	// the universe of its first evaluation; see Evaluate.
	meaning *semantics.Meaning
}

// NewExpression builds an expression applying rule to the given
// children. No children means a leaf node. Arity is not checked here;
// grammars and the parser only build arity-consistent trees, and
// hand-built trees fail at call time like any other type mismatch.
func NewExpression(rule *Rule, children ...*Expression) *Expression {
	if len(children) == 0 {
		return &Expression{rule: rule}
	}
	kids := make([]*Expression, len(children))
	copy(kids, children)
	return &Expression{rule: rule, children: kids}
}

// Rule returns the rule applied at this node.
func (e *Expression) Rule() *Rule {
	return e.rule
}

// RuleName returns the name of the rule applied at this node.
func (e *Expression) RuleName() string {
	return e.rule.name
}

// Children returns the node's child subtrees, nil for a leaf.
func (e *Expression) Children() []*Expression {
	if e.children == nil {
		return nil
	}
	out := make([]*Expression, len(e.children))
	copy(out, e.children)
	return out
}

// IsLeaf reports whether the node has no children.
func (e *Expression) IsLeaf() bool {
	return e.children == nil
}

// Form returns the expression's surface form, if one has been assigned.
func (e *Expression) Form() string {
	return e.form
}

// WithForm returns a copy of the expression carrying the given surface
// form. The copy shares children with the original.
func (e *Expression) WithForm(form string) *Expression {
	clone := *e
	clone.form = form
	return &clone
}

// Call executes the tree against the given external arguments.
func (e *Expression) Call(args ...any) any {
	if e.children == nil {
		return e.rule.fn(args...)
	}
	results := make([]any, len(e.children))
	for i, child := range e.children {
		results[i] = child.Call(args...)
	}
	return e.rule.fn(results...)
}

// Evaluate computes the expression's denotation over a universe: the
// meaning selecting exactly the referents for which calling the tree
// returns true. The expression must be a unary boolean predicate over a
// referent; a non-boolean result is an error.
//
// The meaning is cached on first evaluation and the cache is tied to
// that universe: evaluating the same tree against a different universe
// is an error rather than a silent recompute.
func (e *Expression) Evaluate(universe *semantics.Universe) (*semantics.Meaning, error) {
	if e.meaning != nil {
		if e.meaning.Universe() != universe {
			return nil, fmt.Errorf("expression %s was already evaluated against a different universe", e)
		}
		return e.meaning, nil
	}
	var selected []*semantics.Referent
	for i := 0; i < universe.Len(); i++ {
		ref := universe.At(i)
		result := e.Call(ref)
		truth, ok := result.(bool)
		if !ok {
			return nil, fmt.Errorf("evaluating %s on referent %q: rule %q returned %T, want bool", e, ref.Name(), e.rule.name, result)
		}
		if truth {
			selected = append(selected, ref)
		}
	}
	meaning, err := semantics.NewMeaning(selected, universe, nil)
	if err != nil {
		return nil, err
	}
	e.meaning = meaning
	return meaning, nil
}

// Meaning returns the cached denotation, or nil if the expression has
// not been evaluated.
func (e *Expression) Meaning() *semantics.Meaning {
	return e.meaning
}

// Len is the number of nodes in the tree.
func (e *Expression) Len() int {
	length := 1
	for _, child := range e.children {
		length += child.Len()
	}
	return length
}

// Leaves returns the tree's leaf nodes in left-to-right order.
func (e *Expression) Leaves() []*Expression {
	if e.children == nil {
		return []*Expression{e}
	}
	var out []*Expression
	for _, child := range e.children {
		out = append(out, child.Leaves()...)
	}
	return out
}

// Yield concatenates the string forms of the leaves, left to right.
// Viewing the grammar as a CFG over its terminal rule names, this is the
// string the derivation tree yields.
func (e *Expression) Yield() string {
	if e.children == nil {
		return e.String()
	}
	var sb strings.Builder
	for _, child := range e.children {
		sb.WriteString(child.Yield())
	}
	return sb.String()
}

// Equal reports structural equality: same rule (by identity, which
// stands in for function identity since each rule owns its canonical
// function), same form, and pairwise equal children. It deliberately
// does not compare denotations; two structurally different trees with
// the same meaning are not Equal.
func (e *Expression) Equal(other *Expression) bool {
	if other == nil {
		return false
	}
	if e.rule != other.rule || e.form != other.form {
		return false
	}
	if len(e.children) != len(other.children) || (e.children == nil) != (other.children == nil) {
		return false
	}
	for i, child := range e.children {
		if !child.Equal(other.children[i]) {
			return false
		}
	}
	return true
}

// Compare imposes a deterministic total order over expressions of one
// grammar: lexicographic over (rule name, form, children). Like Equal it
// is structural, not semantic.
func (e *Expression) Compare(other *Expression) int {
	if c := strings.Compare(e.rule.name, other.rule.name); c != 0 {
		return c
	}
	if c := strings.Compare(e.form, other.form); c != 0 {
		return c
	}
	for i := 0; i < len(e.children) && i < len(other.children); i++ {
		if c := e.children[i].Compare(other.children[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(e.children) < len(other.children):
		return -1
	case len(e.children) > len(other.children):
		return 1
	}
	return 0
}

// String renders the canonical form: the rule name for a leaf, and
// name(child1, child2, ...) for an internal node. This is exactly the
// syntax the parser package accepts, so String and Parse round-trip.
func (e *Expression) String() string {
	if e.children == nil {
		return e.rule.name
	}
	parts := make([]string, len(e.children))
	for i, child := range e.children {
		parts[i] = child.String()
	}
	return e.rule.name + "(" + strings.Join(parts, ", ") + ")"
}
