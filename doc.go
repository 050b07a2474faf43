// Package gramsynth provides the entry point for grammar-driven
// expression synthesis: enumerating the derivation trees of a typed
// production-rule grammar and keeping, for every distinct meaning over a
// universe of discourse, the minimal expression that denotes it.
//
// The sub-packages hold the individual pieces:
//  1. Define or load a grammar.
//     Also see: grammar.New, grammar.Load
//  2. Generate, enumerate and deduplicate expressions.
//     Also see: grammar.Grammar.Generate, grammar.Grammar.Enumerate,
//     grammar.Grammar.UniqueExpressions
//  3. Evaluate expressions over a universe.
//     Also see: grammar.Expression.Evaluate, package semantics
//  4. Print and re-parse expressions in the canonical syntax.
//     Also see: grammar.Expression.String, parser.Parse
//
// This package itself offers a batched driver over those pieces: a
// Synthesizer globs grammar files, synthesizes each against one
// universe, and can work on many grammar files in parallel. Enumeration
// within a single grammar is sequential; its cost grows multiplicatively
// with rule fan-out and depth, so choose depth bounds conservatively.
package gramsynth
