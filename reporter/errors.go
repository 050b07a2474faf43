package reporter

import (
	"errors"
	"fmt"

	"github.com/gramsynth/gramsynth/grammar"
)

// ErrInvalidExpression is a sentinel error returned by parsing in the
// event that syntax errors are encountered but the configured
// ErrorReporter always returns nil.
var ErrInvalidExpression = errors.New("parse failed: invalid expression")

// ErrorWithPos is an error about an expression string that includes the
// location in the input that caused the error.
//
// The value of Error() will contain both the position and the underlying
// error. The value of Unwrap() will only be the underlying error.
type ErrorWithPos interface {
	error
	GetPosition() grammar.SourcePos
	Unwrap() error
}

// Error creates a new ErrorWithPos from the given error and source
// position.
func Error(pos grammar.SourcePos, err error) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: err}
}

// Errorf creates a new ErrorWithPos whose underlying error is created
// using the given message format and arguments.
func Errorf(pos grammar.SourcePos, format string, args ...any) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: fmt.Errorf(format, args...)}
}

type errorWithSourcePos struct {
	underlying error
	pos        grammar.SourcePos
}

func (e errorWithSourcePos) Error() string {
	return fmt.Sprintf("%s: %v", e.pos, e.underlying)
}

func (e errorWithSourcePos) GetPosition() grammar.SourcePos {
	return e.pos
}

func (e errorWithSourcePos) Unwrap() error {
	return e.underlying
}

var _ ErrorWithPos = errorWithSourcePos{}
