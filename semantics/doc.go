// Package semantics models the domain of discourse that grammatical
// expressions are evaluated against: referents (named objects with
// properties), universes (ordered sets of referents with a prior), and
// meanings (the subset of a universe an expression selects, with a
// distribution over the universe).
package semantics
