package parser

import (
	"fmt"
	"strings"

	"github.com/gramsynth/gramsynth/grammar"
	"github.com/gramsynth/gramsynth/reporter"
)

// frame is an expression under construction on the parse stack. A leaf
// frame is complete when pushed; a composite frame accumulates children
// until its closer. A frame for an unresolvable or misused rule name is
// kept on the stack so parsing can continue and report further errors,
// but the parse as a whole fails.
type frame struct {
	rule     *grammar.Rule
	children []*grammar.Expression
	pos      grammar.SourcePos

	composite bool
	closed    bool
	broken    bool
}

// Parse turns a canonical-form string (as produced by
// grammar.Expression.String) back into an expression tree, resolving
// rule names through the given grammar. This is not a general-purpose
// parser: the input must be of the form
//
//	name(child1, child2, ...)
//
// with a bare name for a leaf. On failure Parse reports structured,
// position-tagged errors through the handler and returns a non-nil
// error; it never returns a partial tree. A nil handler aborts on the
// first error.
func Parse(g *grammar.Grammar, input string, handler *reporter.Handler) (*grammar.Expression, error) {
	return ParseWithSyntax(g, input, Syntax{}, handler)
}

// ParseWithSyntax is Parse with custom opener, closer and delimiter
// runes.
func ParseWithSyntax(g *grammar.Grammar, input string, syntax Syntax, handler *reporter.Handler) (*grammar.Expression, error) {
	if handler == nil {
		handler = reporter.NewHandler(nil)
	}
	syntax = syntax.withDefaults()
	if err := syntax.validate(); err != nil {
		return nil, err
	}
	lx := newLexer("<input>", input, syntax)
	warnOnCollidingNames(g, syntax, lx, handler)

	var stack []*frame
	for {
		tok, lexErr := lx.next()
		if lexErr != nil {
			_ = handler.HandleError(lexErr)
			return nil, handler.Error()
		}
		if tok.kind == tokenEOF {
			return finishParse(stack, lx.pos(tok.offset), syntax, handler)
		}
		var err error
		switch tok.kind {
		case tokenOpen:
			stack = append(stack, openFrame(g, tok, lx, handler))
		case tokenName:
			stack = append(stack, leafFrame(g, tok, lx, handler))
		case tokenDelim, tokenClose:
			stack, err = reduce(stack, tok, lx, syntax, handler)
			if err != nil {
				return nil, err
			}
		}
		if handler.ReporterError() != nil {
			return nil, handler.ReporterError()
		}
	}
}

// openFrame starts a composite expression for a name(... token.
func openFrame(g *grammar.Grammar, tok token, lx *exprLexer, handler *reporter.Handler) *frame {
	f := &frame{pos: lx.pos(tok.offset), composite: true}
	rule, ok := g.RuleNamed(tok.name)
	switch {
	case !ok:
		_ = handler.HandleErrorf(f.pos, "unknown rule name %q", tok.name)
		f.broken = true
	case rule.IsTerminal():
		_ = handler.HandleErrorf(f.pos, "rule %q is terminal and takes no arguments", tok.name)
		f.broken = true
	default:
		f.rule = rule
	}
	return f
}

// leafFrame builds a completed leaf for a bare name token.
func leafFrame(g *grammar.Grammar, tok token, lx *exprLexer, handler *reporter.Handler) *frame {
	f := &frame{pos: lx.pos(tok.offset)}
	rule, ok := g.RuleNamed(tok.name)
	switch {
	case !ok:
		_ = handler.HandleErrorf(f.pos, "unknown rule name %q", tok.name)
		f.broken = true
	case !rule.IsTerminal():
		_ = handler.HandleErrorf(f.pos, "rule %q expects %d arguments", tok.name, rule.Arity())
		f.broken = true
	default:
		f.rule = rule
	}
	return f
}

// reduce handles a delimiter or closer: the finished top of stack
// becomes the next child of the frame below it. A closer additionally
// marks that parent complete.
func reduce(stack []*frame, tok token, lx *exprLexer, syntax Syntax, handler *reporter.Handler) ([]*frame, error) {
	pos := lx.pos(tok.offset)
	punct := syntax.Delimiter
	if tok.kind == tokenClose {
		punct = syntax.Closer
	}
	if len(stack) < 2 || stack[len(stack)-2].closed || !stack[len(stack)-2].composite {
		_ = handler.HandleErrorf(pos, "unexpected %q", punct)
		return nil, handler.Error()
	}
	child := stack[len(stack)-1]
	stack = stack[:len(stack)-1]
	parent := stack[len(stack)-1]

	expr, ok := child.finish(pos, handler)
	if !ok {
		return nil, handler.Error()
	}
	if !parent.broken && len(parent.children) == parent.rule.Arity() {
		_ = handler.HandleErrorf(pos, "too many arguments to rule %q", parent.rule.Name())
		return nil, handler.Error()
	}
	parent.children = append(parent.children, expr)
	if tok.kind == tokenClose {
		parent.closed = true
	}
	return stack, nil
}

// finish validates and materializes a frame that has received all of its
// children. It reports arity mismatches at the given position. A broken
// frame yields no expression but no further error either; the error that
// broke it was already reported.
func (f *frame) finish(pos grammar.SourcePos, handler *reporter.Handler) (*grammar.Expression, bool) {
	if f.broken {
		return nil, true
	}
	if !f.composite {
		return grammar.NewExpression(f.rule), true
	}
	if len(f.children) != f.rule.Arity() {
		err := handler.HandleErrorf(pos, "rule %q expects %d arguments, got %d", f.rule.Name(), f.rule.Arity(), len(f.children))
		return nil, err == nil
	}
	return grammar.NewExpression(f.rule, f.children...), true
}

// finishParse checks the end-of-input state: exactly one completed
// expression must remain on the stack.
func finishParse(stack []*frame, eof grammar.SourcePos, syntax Syntax, handler *reporter.Handler) (*grammar.Expression, error) {
	switch {
	case len(stack) == 0:
		_ = handler.HandleErrorf(eof, "empty expression")
		return nil, handler.Error()
	case len(stack) > 1:
		_ = handler.HandleErrorf(eof, "unexpected end of expression, expected %q or %q", syntax.Delimiter, syntax.Closer)
		return nil, handler.Error()
	}
	root := stack[0]
	if root.composite && !root.closed {
		_ = handler.HandleErrorf(eof, "unexpected end of expression, expected %q", syntax.Closer)
		return nil, handler.Error()
	}
	expr, _ := root.finish(eof, handler)
	if err := handler.Error(); err != nil {
		return nil, err
	}
	return expr, nil
}

// warnOnCollidingNames flags rule names containing syntax runes; such
// names can never be produced by the lexer, so any expression using them
// will fail to round-trip.
func warnOnCollidingNames(g *grammar.Grammar, syntax Syntax, lx *exprLexer, handler *reporter.Handler) {
	punct := string([]rune{syntax.Opener, syntax.Closer, syntax.Delimiter})
	for _, rule := range g.AllRules() {
		if strings.ContainsAny(rule.Name(), punct) {
			handler.HandleWarning(lx.pos(0), fmt.Errorf("rule name %q contains syntax runes and cannot be parsed", rule.Name()))
		}
	}
}
