package parser

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/gramsynth/gramsynth/grammar"
	"github.com/gramsynth/gramsynth/reporter"
)

// Syntax configures the punctuation of the canonical expression syntax.
// The zero value selects the defaults: "(", ")" and ",". The three runes
// must be distinct, non-whitespace, and must not occur in rule names.
type Syntax struct {
	Opener, Closer, Delimiter rune
}

func (s Syntax) withDefaults() Syntax {
	if s.Opener == 0 {
		s.Opener = '('
	}
	if s.Closer == 0 {
		s.Closer = ')'
	}
	if s.Delimiter == 0 {
		s.Delimiter = ','
	}
	return s
}

func (s Syntax) validate() error {
	runes := []rune{s.Opener, s.Closer, s.Delimiter}
	for i, r := range runes {
		if unicode.IsSpace(r) {
			return fmt.Errorf("syntax runes must not be whitespace")
		}
		for _, other := range runes[i+1:] {
			if r == other {
				return fmt.Errorf("syntax runes must be distinct, got %q twice", r)
			}
		}
	}
	return nil
}

func (s Syntax) contains(r rune) bool {
	return r == s.Opener || r == s.Closer || r == s.Delimiter
}

type tokenKind int

const (
	tokenEOF tokenKind = iota
	// tokenOpen is a rule name immediately followed by the opener.
	tokenOpen
	// tokenName is a bare rule name.
	tokenName
	tokenDelim
	tokenClose
)

type token struct {
	kind   tokenKind
	name   string
	offset int
}

type runeReader struct {
	data []byte
	pos  int
	err  error
	mark int
}

func (rr *runeReader) readRune() (r rune, size int, err error) {
	if rr.err != nil {
		return 0, 0, rr.err
	}
	if rr.pos == len(rr.data) {
		rr.err = io.EOF
		return 0, 0, rr.err
	}
	r, sz := utf8.DecodeRune(rr.data[rr.pos:])
	if r == utf8.RuneError {
		rr.err = fmt.Errorf("invalid UTF8 at offset %d: %x", rr.pos, rr.data[rr.pos])
		return 0, 0, rr.err
	}
	rr.pos += sz
	return r, sz, nil
}

func (rr *runeReader) offset() int {
	return rr.pos
}

func (rr *runeReader) unreadRune(sz int) {
	newPos := rr.pos - sz
	if newPos < rr.mark {
		panic("unread past mark")
	}
	rr.pos = newPos
}

// exprLexer splits an expression string into name, opener, closer and
// delimiter tokens, tracking line starts so that error positions carry
// line and column information.
type exprLexer struct {
	input      *runeReader
	syntax     Syntax
	filename   string
	lineStarts []int
}

func newLexer(filename, input string, syntax Syntax) *exprLexer {
	return &exprLexer{
		input:      &runeReader{data: []byte(input)},
		syntax:     syntax,
		filename:   filename,
		lineStarts: []int{0},
	}
}

func (l *exprLexer) maybeNewLine(r rune) {
	if r == '\n' {
		l.lineStarts = append(l.lineStarts, l.input.offset())
	}
}

// pos converts a byte offset into a SourcePos. Columns count grapheme
// clusters, not bytes, so multi-byte rule names still produce columns a
// reader can point at.
func (l *exprLexer) pos(offset int) grammar.SourcePos {
	line := sort.Search(len(l.lineStarts), func(i int) bool {
		return l.lineStarts[i] > offset
	})
	lineStart := l.lineStarts[line-1]
	col := uniseg.GraphemeClusterCount(string(l.input.data[lineStart:offset])) + 1
	return grammar.SourcePos{
		Filename: l.filename,
		Line:     line,
		Col:      col,
		Offset:   offset,
	}
}

// next returns the next token. Lexical failures (invalid UTF-8, a bare
// opener with no preceding name) are returned as position-tagged errors.
func (l *exprLexer) next() (token, reporter.ErrorWithPos) {
	for {
		offset := l.input.offset()
		c, _, err := l.input.readRune()
		if err == io.EOF {
			return token{kind: tokenEOF, offset: offset}, nil
		} else if err != nil {
			return token{}, reporter.Error(l.pos(offset), err)
		}
		if unicode.IsSpace(c) {
			l.maybeNewLine(c)
			continue
		}
		switch c {
		case l.syntax.Delimiter:
			return token{kind: tokenDelim, offset: offset}, nil
		case l.syntax.Closer:
			return token{kind: tokenClose, offset: offset}, nil
		case l.syntax.Opener:
			return token{}, reporter.Errorf(l.pos(offset), "expected rule name before %q", l.syntax.Opener)
		}
		return l.name(offset, c)
	}
}

// name scans a rule name starting at the rune already read. The name
// runs until whitespace or a syntax rune; an immediately following
// opener makes this the start of a composite expression.
func (l *exprLexer) name(offset int, first rune) (token, reporter.ErrorWithPos) {
	var sb strings.Builder
	sb.WriteRune(first)
	for {
		c, sz, err := l.input.readRune()
		if err == io.EOF {
			return token{kind: tokenName, name: sb.String(), offset: offset}, nil
		} else if err != nil {
			return token{}, reporter.Error(l.pos(l.input.offset()), err)
		}
		if c == l.syntax.Opener {
			return token{kind: tokenOpen, name: sb.String(), offset: offset}, nil
		}
		if unicode.IsSpace(c) || l.syntax.contains(c) {
			l.input.unreadRune(sz)
			return token{kind: tokenName, name: sb.String(), offset: offset}, nil
		}
		sb.WriteRune(c)
	}
}
