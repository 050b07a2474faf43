package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramsynth/gramsynth/semantics"
)

// sampleTree builds AND(T1, AND(T2, T1)) by hand.
func sampleTree(t *testing.T, g *Grammar) *Expression {
	t.Helper()
	t1, _ := g.RuleNamed("T1")
	t2, _ := g.RuleNamed("T2")
	and, _ := g.RuleNamed("AND")
	return NewExpression(and,
		NewExpression(t1),
		NewExpression(and, NewExpression(t2), NewExpression(t1)),
	)
}

func TestCall(t *testing.T) {
	g := boolGrammar(t)
	t1, _ := g.RuleNamed("T1")
	t2, _ := g.RuleNamed("T2")
	and, _ := g.RuleNamed("AND")

	assert.Equal(t, true, NewExpression(t1).Call())
	assert.Equal(t, false, NewExpression(t2).Call())
	assert.Equal(t, false, NewExpression(and, NewExpression(t1), NewExpression(t2)).Call())
	assert.Equal(t, true, NewExpression(and, NewExpression(t1), NewExpression(t1)).Call())
	// nested
	assert.Equal(t, false, sampleTree(t, g).Call())
}

func TestCallPassesExternalArgsToLeaves(t *testing.T) {
	g := New("N")
	require.NoError(t, g.AddRule(NewTerminal("x", "N", func(args ...any) any {
		return args[0].(int)
	})))
	require.NoError(t, g.AddRule(NewRule("double", "N", []Symbol{"N"}, func(args ...any) any {
		return args[0].(int) * 2
	})))
	x, _ := g.RuleNamed("x")
	double, _ := g.RuleNamed("double")
	tree := NewExpression(double, NewExpression(double, NewExpression(x)))
	assert.Equal(t, 12, tree.Call(3))
}

func TestLen(t *testing.T) {
	g := boolGrammar(t)
	t1, _ := g.RuleNamed("T1")
	assert.Equal(t, 1, NewExpression(t1).Len())
	assert.Equal(t, 5, sampleTree(t, g).Len())
}

func TestString(t *testing.T) {
	g := boolGrammar(t)
	t1, _ := g.RuleNamed("T1")
	assert.Equal(t, "T1", NewExpression(t1).String())
	assert.Equal(t, "AND(T1, AND(T2, T1))", sampleTree(t, g).String())
}

func TestLeavesAndYield(t *testing.T) {
	g := boolGrammar(t)
	tree := sampleTree(t, g)
	leaves := tree.Leaves()
	require.Len(t, leaves, 3)
	assert.Equal(t, "T1", leaves[0].RuleName())
	assert.Equal(t, "T2", leaves[1].RuleName())
	assert.Equal(t, "T1", leaves[2].RuleName())
	assert.Equal(t, "T1T2T1", tree.Yield())

	t1, _ := g.RuleNamed("T1")
	leaf := NewExpression(t1)
	assert.Equal(t, "T1", leaf.Yield())
	assert.Equal(t, []*Expression{leaf}, leaf.Leaves())
}

func TestEqual(t *testing.T) {
	g := boolGrammar(t)
	a := sampleTree(t, g)
	b := sampleTree(t, g)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(nil))

	t1, _ := g.RuleNamed("T1")
	t2, _ := g.RuleNamed("T2")
	assert.False(t, NewExpression(t1).Equal(NewExpression(t2)))
	// same name in a different grammar is a different rule identity
	other := boolGrammar(t)
	otherT1, _ := other.RuleNamed("T1")
	assert.False(t, NewExpression(t1).Equal(NewExpression(otherT1)))
	// forms participate in equality
	assert.False(t, a.Equal(b.WithForm("some surface form")))
}

func TestCompare(t *testing.T) {
	g := boolGrammar(t)
	t1, _ := g.RuleNamed("T1")
	t2, _ := g.RuleNamed("T2")
	and, _ := g.RuleNamed("AND")

	assert.Zero(t, NewExpression(t1).Compare(NewExpression(t1)))
	assert.Negative(t, NewExpression(t1).Compare(NewExpression(t2)))
	assert.Positive(t, NewExpression(t2).Compare(NewExpression(t1)))

	// forms order before children
	assert.Negative(t, NewExpression(t1).Compare(NewExpression(t1).WithForm("x")))

	// children break ties lexicographically
	left := NewExpression(and, NewExpression(t1), NewExpression(t1))
	right := NewExpression(and, NewExpression(t1), NewExpression(t2))
	assert.Negative(t, left.Compare(right))
	// shorter child lists order first when they share a prefix
	assert.Negative(t, NewExpression(and, NewExpression(t1)).Compare(left))
}

func TestEvaluate(t *testing.T) {
	g := New("B")
	require.NoError(t, g.AddRule(NewTerminal("big", "B", func(args ...any) any {
		return args[0].(*semantics.Referent).BoolProperty("big")
	})))
	require.NoError(t, g.AddRule(NewRule("NOT", "B", []Symbol{"B"}, func(args ...any) any {
		return !args[0].(bool)
	})))
	universe, err := semantics.NewUniverse([]*semantics.Referent{
		semantics.NewReferent("a", map[string]any{"big": true}),
		semantics.NewReferent("b", map[string]any{"big": false}),
	}, nil)
	require.NoError(t, err)

	big, _ := g.RuleNamed("big")
	not, _ := g.RuleNamed("NOT")

	leaf := NewExpression(big)
	meaning, err := leaf.Evaluate(universe)
	require.NoError(t, err)
	assert.Equal(t, "a", meaning.Key())

	tree := NewExpression(not, NewExpression(big))
	meaning, err = tree.Evaluate(universe)
	require.NoError(t, err)
	assert.Equal(t, "b", meaning.Key())
}

func TestEvaluateCaching(t *testing.T) {
	g := New("B")
	calls := 0
	require.NoError(t, g.AddRule(NewTerminal("flaky", "B", func(...any) any {
		calls++
		return true
	})))
	universe, err := semantics.NewUniverse([]*semantics.Referent{
		semantics.NewReferent("a", nil),
	}, nil)
	require.NoError(t, err)

	flaky, _ := g.RuleNamed("flaky")
	tree := NewExpression(flaky)
	assert.Nil(t, tree.Meaning())

	first, err := tree.Evaluate(universe)
	require.NoError(t, err)
	second, err := tree.Evaluate(universe)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Same(t, first, tree.Meaning())
}

func TestEvaluateUniverseMismatch(t *testing.T) {
	g := New("B")
	require.NoError(t, g.AddRule(NewTerminal("T", "B", func(...any) any { return true })))
	u1, err := semantics.NewUniverse([]*semantics.Referent{semantics.NewReferent("a", nil)}, nil)
	require.NoError(t, err)
	u2, err := semantics.NewUniverse([]*semantics.Referent{semantics.NewReferent("a", nil)}, nil)
	require.NoError(t, err)

	rule, _ := g.RuleNamed("T")
	tree := NewExpression(rule)
	_, err = tree.Evaluate(u1)
	require.NoError(t, err)
	_, err = tree.Evaluate(u2)
	assert.ErrorContains(t, err, "different universe")
}

func TestEvaluateNonBoolean(t *testing.T) {
	g := New("N")
	require.NoError(t, g.AddRule(NewTerminal("n", "N", func(...any) any { return 42 })))
	universe, err := semantics.NewUniverse([]*semantics.Referent{semantics.NewReferent("a", nil)}, nil)
	require.NoError(t, err)

	rule, _ := g.RuleNamed("n")
	_, err = NewExpression(rule).Evaluate(universe)
	assert.ErrorContains(t, err, "want bool")
}
