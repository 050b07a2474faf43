package grammar

import (
	"fmt"
	"strings"
)

// A Grammar is a registry of rules indexed by LHS symbol (preserving
// insertion order, which fixes enumeration order) and by name (for
// parsing and configuration lookup). Rule names must be unique within a
// grammar. A grammar must not be mutated while an enumeration over it is
// in progress.
type Grammar struct {
	start   Symbol
	rules   map[Symbol][]*Rule
	byName  map[string]*Rule
	lhsSeen []Symbol
}

// New returns an empty grammar with the given start symbol.
func New(start Symbol) *Grammar {
	return &Grammar{
		start:  start,
		rules:  make(map[Symbol][]*Rule),
		byName: make(map[string]*Rule),
	}
}

// Start returns the grammar's start symbol.
func (g *Grammar) Start() Symbol {
	return g.start
}

// AddRule registers a rule. A rule whose name is already taken is a
// construction error and leaves the grammar unchanged.
func (g *Grammar) AddRule(rule *Rule) error {
	if _, ok := g.byName[rule.name]; ok {
		return fmt.Errorf("rules of a grammar must have unique names: already have a rule named %q", rule.name)
	}
	if _, ok := g.rules[rule.lhs]; !ok {
		g.lhsSeen = append(g.lhsSeen, rule.lhs)
	}
	g.rules[rule.lhs] = append(g.rules[rule.lhs], rule)
	g.byName[rule.name] = rule
	return nil
}

// MustAddRule is AddRule, panicking on a duplicate name. Intended for
// statically known rule sets.
func (g *Grammar) MustAddRule(rule *Rule) {
	if err := g.AddRule(rule); err != nil {
		panic(err)
	}
}

// Rules returns the rules whose LHS is the given symbol, in insertion
// order.
func (g *Grammar) Rules(lhs Symbol) []*Rule {
	rules := g.rules[lhs]
	out := make([]*Rule, len(rules))
	copy(out, rules)
	return out
}

// RuleNamed looks up a rule by name.
func (g *Grammar) RuleNamed(name string) (*Rule, bool) {
	rule, ok := g.byName[name]
	return rule, ok
}

// AllRules returns every rule of the grammar, grouped by LHS in
// first-seen order and in insertion order within a group.
func (g *Grammar) AllRules() []*Rule {
	var out []*Rule
	for _, lhs := range g.lhsSeen {
		out = append(out, g.rules[lhs]...)
	}
	return out
}

func (g *Grammar) String() string {
	var sb strings.Builder
	sb.WriteString("Rules:\n")
	for _, rule := range g.AllRules() {
		fmt.Fprintf(&sb, "\t%s\n", rule)
	}
	return sb.String()
}
