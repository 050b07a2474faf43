// Package grammar implements typed production-rule grammars whose
// derivation trees are directly executable expressions.
//
// A Grammar maps each nonterminal Symbol to the rules that rewrite it;
// each Rule pairs a typed signature with a function, so a complete
// derivation is a function built by composing the rules' functions along
// the tree. The package supports weighted random generation
// (Grammar.Generate), exhaustive depth-bounded enumeration with online
// per-equivalence-class deduplication (Grammar.Enumerate,
// Grammar.UniqueExpressions), and loading rule sets from declarative
// YAML documents against a function registry (Load).
//
// Expressions print in a canonical name(child, child) syntax; the parser
// package turns such strings back into trees.
package grammar
