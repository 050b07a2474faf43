package grammar

import (
	"fmt"
	"strings"
)

// A Symbol is an opaque type tag identifying which rules may combine at a
// position in a derivation.
type Symbol string

// A Func is the executable attached to a rule. For a non-terminal rule
// it receives the evaluated results of the node's children, in child
// order. For a terminal rule it receives the external arguments the tree
// was called with (e.g. a referent).
type Func func(args ...any) any

// A Rule is a single production of a grammar: it rewrites its LHS symbol
// to an application of the named function over the RHS symbols. Rules
// are immutable once constructed and are owned by exactly one grammar,
// which also guarantees that every tree node built from a rule shares
// the rule's one canonical function value.
type Rule struct {
	name   string
	lhs    Symbol
	rhs    []Symbol
	fn     Func
	weight float64
}

// NewRule returns a non-terminal rule producing lhs from the given
// argument symbols, with weight 1. An empty rhs is normalized to a
// terminal rule.
func NewRule(name string, lhs Symbol, rhs []Symbol, fn Func) *Rule {
	if len(rhs) == 0 {
		return NewTerminal(name, lhs, fn)
	}
	args := make([]Symbol, len(rhs))
	copy(args, rhs)
	return &Rule{name: name, lhs: lhs, rhs: args, fn: fn, weight: 1}
}

// NewTerminal returns a terminal rule: no grammar-level arguments, so fn
// is applied directly to the external call-time arguments.
func NewTerminal(name string, lhs Symbol, fn Func) *Rule {
	return &Rule{name: name, lhs: lhs, fn: fn, weight: 1}
}

// WithWeight returns a copy of the rule carrying the given relative
// sampling weight. Weights only matter relative to other rules with the
// same LHS.
func (r *Rule) WithWeight(weight float64) *Rule {
	clone := *r
	clone.weight = weight
	return &clone
}

func (r *Rule) Name() string {
	return r.name
}

func (r *Rule) LHS() Symbol {
	return r.lhs
}

// RHS returns the rule's argument symbols, nil for a terminal rule.
func (r *Rule) RHS() []Symbol {
	if r.rhs == nil {
		return nil
	}
	out := make([]Symbol, len(r.rhs))
	copy(out, r.rhs)
	return out
}

// Arity is the number of child derivations the rule requires.
func (r *Rule) Arity() int {
	return len(r.rhs)
}

func (r *Rule) Weight() float64 {
	return r.weight
}

// IsTerminal reports whether the rule has no argument symbols.
func (r *Rule) IsTerminal() bool {
	return r.rhs == nil
}

func (r *Rule) String() string {
	if r.IsTerminal() {
		return fmt.Sprintf("%s -> %s", r.lhs, r.name)
	}
	args := make([]string, len(r.rhs))
	for i, sym := range r.rhs {
		args[i] = string(sym)
	}
	return fmt.Sprintf("%s -> %s(%s)", r.lhs, r.name, strings.Join(args, ", "))
}
