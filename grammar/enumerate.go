package grammar

import (
	"fmt"
	"iter"
)

// A Dedup retains one representative expression per equivalence class
// during enumeration. The class of an expression is computed by a
// caller-supplied key function (typically its denotation); when two
// expressions share a key, the caller-supplied comparison decides
// whether the newcomer strictly beats the incumbent. Ties keep the
// first-seen expression, so enumeration order breaks ties.
//
// A Dedup may be shared across several enumeration calls to accumulate
// into one table, but it is not safe for concurrent use.
type Dedup struct {
	key    func(*Expression) (any, error)
	better func(candidate, incumbent *Expression) bool
	table  map[any]*Expression
	err    error
}

// NewDedup returns an empty dedup table. key maps an expression to its
// equivalence class; the returned value must be usable as a map key.
// better reports whether candidate should replace incumbent.
func NewDedup(key func(*Expression) (any, error), better func(candidate, incumbent *Expression) bool) *Dedup {
	return &Dedup{key: key, better: better, table: make(map[any]*Expression)}
}

// Add offers an expression to the table. After the key function fails
// once, the table stops accepting and Err reports the failure.
func (d *Dedup) Add(e *Expression) {
	if d.err != nil {
		return
	}
	key, err := d.key(e)
	if err != nil {
		d.err = fmt.Errorf("computing uniqueness key for %s: %w", e, err)
		return
	}
	incumbent, ok := d.table[key]
	if !ok || d.better(e, incumbent) {
		d.table[key] = e
	}
}

// Len is the number of equivalence classes seen so far.
func (d *Dedup) Len() int {
	return len(d.table)
}

// Expressions returns the live key-to-representative table.
func (d *Dedup) Expressions() map[any]*Expression {
	return d.table
}

// Err returns the first key-function failure, if any.
func (d *Dedup) Err() error {
	return d.err
}

type memoKey struct {
	lhs   Symbol
	depth int
}

// EnumerateAtDepth yields every expression derivable from lhs (the start
// symbol if empty) at exactly the given depth. Depth 0 yields one leaf
// per terminal rule of lhs. Depth d > 0 yields, for every non-terminal
// rule of lhs, every combination of child subtrees whose depths are each
// in [0, d-1] with at least one child at exactly d-1; that tightness
// condition partitions expressions across depths, so no expression
// appears at two depths.
//
// Order is deterministic given rule insertion order: rules in order,
// then child-depth assignments in lexicographic order, then child
// combinations with the last child varying fastest. If dedup is non-nil
// every yielded expression is also offered to it.
//
// The sequence is recomputed from scratch on each range; it is finite
// for any finite depth. Cost grows multiplicatively with rule fan-out
// and depth, so size depth conservatively.
func (g *Grammar) EnumerateAtDepth(depth int, lhs Symbol, dedup *Dedup) iter.Seq[*Expression] {
	if lhs == "" {
		lhs = g.start
	}
	return func(yield func(*Expression) bool) {
		memo := make(map[memoKey][]*Expression)
		g.walkAtDepth(depth, lhs, memo, func(e *Expression) bool {
			if dedup != nil {
				dedup.Add(e)
			}
			return yield(e)
		})
	}
}

// Enumerate yields every expression derivable from lhs (the start symbol
// if empty) at every depth from 0 up to, but not including, depth, in
// increasing depth order. See EnumerateAtDepth for the per-depth
// contract.
func (g *Grammar) Enumerate(depth int, lhs Symbol, dedup *Dedup) iter.Seq[*Expression] {
	if lhs == "" {
		lhs = g.start
	}
	return func(yield func(*Expression) bool) {
		// One memo table for the whole sweep: entries are keyed by
		// (symbol, depth), so lower depths are reused as child pools
		// while enumerating higher ones.
		memo := make(map[memoKey][]*Expression)
		for d := 0; d < depth; d++ {
			ok := g.walkAtDepth(d, lhs, memo, func(e *Expression) bool {
				if dedup != nil {
					dedup.Add(e)
				}
				return yield(e)
			})
			if !ok {
				return
			}
		}
	}
}

// UniqueExpressions enumerates to the given depth bound and returns the
// dedup table mapping each equivalence-class key to its minimal
// representative under better. If maxSize > 0 enumeration stops early
// once the table holds maxSize classes; the cap is approximate in that
// it can cut a depth level short, so a capped table is only as good as
// enumeration order.
func (g *Grammar) UniqueExpressions(depth int, lhs Symbol, maxSize int, key func(*Expression) (any, error), better func(candidate, incumbent *Expression) bool) (map[any]*Expression, error) {
	dedup := NewDedup(key, better)
	for range g.Enumerate(depth, lhs, dedup) {
		if dedup.Err() != nil {
			return nil, dedup.Err()
		}
		if maxSize > 0 && dedup.Len() >= maxSize {
			break
		}
	}
	if err := dedup.Err(); err != nil {
		return nil, err
	}
	return dedup.Expressions(), nil
}

// walkAtDepth drives the depth-exact enumeration, calling visit for each
// expression and stopping early when visit returns false. Child subtree
// pools are fetched through expressionsAt so that repeated (symbol,
// depth) combinations are computed once per memo table.
func (g *Grammar) walkAtDepth(depth int, lhs Symbol, memo map[memoKey][]*Expression, visit func(*Expression) bool) bool {
	if depth == 0 {
		for _, rule := range g.rules[lhs] {
			if !rule.IsTerminal() {
				continue
			}
			if !visit(NewExpression(rule)) {
				return false
			}
		}
		return true
	}
	for _, rule := range g.rules[lhs] {
		if rule.IsTerminal() {
			continue
		}
		arity := rule.Arity()
		depths := make([]int, arity)
		for {
			if maxDepth(depths) == depth-1 {
				pools := make([][]*Expression, arity)
				for i, childDepth := range depths {
					pools[i] = g.expressionsAt(childDepth, rule.rhs[i], memo)
				}
				ok := eachCombination(pools, func(children []*Expression) bool {
					return visit(NewExpression(rule, children...))
				})
				if !ok {
					return false
				}
			}
			if !nextAssignment(depths, depth) {
				break
			}
		}
	}
	return true
}

// expressionsAt materializes the expressions for (lhs, depth), memoized.
func (g *Grammar) expressionsAt(depth int, lhs Symbol, memo map[memoKey][]*Expression) []*Expression {
	key := memoKey{lhs: lhs, depth: depth}
	if cached, ok := memo[key]; ok {
		return cached
	}
	var out []*Expression
	g.walkAtDepth(depth, lhs, memo, func(e *Expression) bool {
		out = append(out, e)
		return true
	})
	memo[key] = out
	return out
}

func maxDepth(depths []int) int {
	m := 0
	for _, d := range depths {
		if d > m {
			m = d
		}
	}
	return m
}

// nextAssignment advances depths through [0, bound)^len lexicographically
// with the last position varying fastest. It reports false after the
// last assignment.
func nextAssignment(depths []int, bound int) bool {
	for i := len(depths) - 1; i >= 0; i-- {
		depths[i]++
		if depths[i] < bound {
			return true
		}
		depths[i] = 0
	}
	return false
}

// eachCombination calls fn with every element of the cartesian product
// of the pools, last pool varying fastest. The slice passed to fn is
// reused between calls. Stops early, reporting false, when fn does.
func eachCombination(pools [][]*Expression, fn func([]*Expression) bool) bool {
	for _, pool := range pools {
		if len(pool) == 0 {
			return true
		}
	}
	indices := make([]int, len(pools))
	combo := make([]*Expression, len(pools))
	for {
		for i, idx := range indices {
			combo[i] = pools[i][idx]
		}
		if !fn(combo) {
			return false
		}
		advanced := false
		for i := len(indices) - 1; i >= 0; i-- {
			indices[i]++
			if indices[i] < len(pools[i]) {
				advanced = true
				break
			}
			indices[i] = 0
		}
		if !advanced {
			return true
		}
	}
}
