package main

import (
	"strings"

	"github.com/gramsynth/gramsynth/grammar"
	"github.com/gramsynth/gramsynth/semantics"
)

// builtinRegistry resolves the CLI's fixed function vocabulary: boolean
// connectives over child results, boolean constants, and referent
// property terminals named "prop:<key>" that read the keyed boolean
// property off the referent under evaluation.
type builtinRegistry struct{}

var _ grammar.Registry = builtinRegistry{}

func (builtinRegistry) Resolve(name string) (grammar.Func, bool) {
	if key, ok := strings.CutPrefix(name, "prop:"); ok {
		return func(args ...any) any {
			ref, ok := args[0].(*semantics.Referent)
			if !ok {
				return false
			}
			return ref.BoolProperty(key)
		}, true
	}
	switch name {
	case "and":
		return func(args ...any) any { return args[0].(bool) && args[1].(bool) }, true
	case "or":
		return func(args ...any) any { return args[0].(bool) || args[1].(bool) }, true
	case "not":
		return func(args ...any) any { return !args[0].(bool) }, true
	case "true":
		return func(...any) any { return true }, true
	case "false":
		return func(...any) any { return false }, true
	}
	return nil, false
}
