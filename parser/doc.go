// Package parser turns canonical-form expression strings back into
// grammar.Expression trees.
//
// The canonical syntax is Name for a leaf and Name(Child, Child, ...)
// for an internal node, with configurable opener, closer and delimiter
// runes. Parsing is a single-pass tokenization feeding a stack-based
// shift-reduce builder; rule names are resolved through the grammar that
// produced the expression, so parsing round-trips String output exactly.
// Errors are reported through the reporter package with line and column
// positions.
package parser
