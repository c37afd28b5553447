// Package scanner tokenizes preprocessed ToyC source for the parser to
// consume. Its structure - a byte-at-a-time Scanner carrying an explicit
// current rune plus read offset, advance/peek/advanceIf primitives, and a
// Scan method that switches on the current character - is adapted from
// the teacher scanner, generalized from Lua's lexical grammar to ToyC's
// C89/C99-flavored one (no long strings/comments, no leading '.' floats
// desugared the Lua way, C-style integer/float suffixes, '/*'/'//'
// comments instead of '--').
package scanner

import (
	"bytes"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/fatbrother/toyc-go/lang/token"
)

// Scanner tokenizes a single source file for the parser to consume. The
// caller is expected to run the file through the preprocessor first;
// the scanner has no knowledge of macros or directives.
type Scanner struct {
	file *token.File
	src  []byte
	err  func(pos token.Position, msg string)

	cur  rune // current character, -1 at end of file
	off  int  // byte offset of cur
	roff int  // offset just past cur
}

// Init prepares s to tokenize file/src. It panics if file's registered
// size does not match len(src).
func (s *Scanner) Init(file *token.File, src []byte, errHandler func(token.Position, string)) {
	if file.Size() != len(src) {
		panic(fmt.Sprintf("scanner: file size (%d) does not match src len (%d)", file.Size(), len(src)))
	}
	s.file = file
	s.src = src
	s.err = errHandler
	s.cur = ' '
	s.off = 0
	s.roff = 0
	s.advance()
}

// peek returns the byte following the current character without
// advancing the scanner, or 0 at end of file.
func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		if s.cur == '\n' {
			s.file.AddLine(s.off)
		}
		s.cur = -1
		return
	}
	s.off = s.roff
	if s.cur == '\n' {
		s.file.AddLine(s.off)
	}
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.error(s.off, "illegal UTF-8 encoding")
		}
	}
	s.roff += w
	s.cur = r
}

func (s *Scanner) error(off int, msg string) {
	if s.err != nil {
		s.err(s.file.Position(s.file.Pos(off)), msg)
	}
}

func (s *Scanner) errorf(off int, format string, args ...any) {
	s.error(off, fmt.Sprintf(format, args...))
}

// advanceIf advances and returns true if the current character is one of
// matches, otherwise it leaves the scanner untouched.
func (s *Scanner) advanceIf(matches ...byte) bool {
	if bytes.ContainsRune(matches, s.cur) {
		s.advance()
		return true
	}
	return false
}

// Scan returns the next token in the source, filling tokVal with its raw
// spelling and starting position.
func (s *Scanner) Scan(tokVal *token.Value) (tok token.Token) {
	s.skipWhitespaceAndComments()

	pos := s.file.Pos(s.off)
	start := s.off

	switch cur := s.cur; {
	case isLetter(cur):
		lit := s.ident()
		tok = token.LookupIdent(lit)
		*tokVal = token.Value{Raw: lit, Pos: pos}
		return tok

	case isDecimal(cur) || (cur == '.' && isDecimal(rune(s.peek()))):
		tok, lit := s.number()
		*tokVal = token.Value{Raw: lit, Pos: pos}
		return tok
	}

	cur := s.cur
	s.advance() // always make progress

	switch cur {
	case '"':
		lit := s.shortString('"')
		*tokVal = token.Value{Raw: lit, Pos: pos}
		return token.STRING

	case '\'':
		lit := s.charConstant()
		*tokVal = token.Value{Raw: lit, Pos: pos}
		return token.CHAR

	case '(', ')', '[', ']', '{', '}', ',', ';', '~':
		tok = simplePunct[cur]
		*tokVal = token.Value{Raw: string(cur), Pos: pos}
		return tok

	case '+':
		tok = token.PLUS
		switch {
		case s.advanceIf('+'):
			tok = token.PLUSPLUS
		case s.advanceIf('='):
			tok = token.PLUSEQ
		}
		*tokVal = token.Value{Raw: string(s.src[start:s.off]), Pos: pos}
		return tok

	case '-':
		tok = token.MINUS
		switch {
		case s.advanceIf('-'):
			tok = token.MINUSMINUS
		case s.advanceIf('='):
			tok = token.MINUSEQ
		case s.advanceIf('>'):
			tok = token.ARROW
		}
		*tokVal = token.Value{Raw: string(s.src[start:s.off]), Pos: pos}
		return tok

	case '*', '%', '^', '!':
		tok = simplePunct[cur]
		if s.advanceIf('=') {
			tok = eqForm[cur]
		}
		*tokVal = token.Value{Raw: string(s.src[start:s.off]), Pos: pos}
		return tok

	case '&':
		tok = token.AMPERSAND
		switch {
		case s.advanceIf('&'):
			tok = token.ANDAND
		case s.advanceIf('='):
			tok = token.AMPEQ
		}
		*tokVal = token.Value{Raw: string(s.src[start:s.off]), Pos: pos}
		return tok

	case '|':
		tok = token.PIPE
		switch {
		case s.advanceIf('|'):
			tok = token.OROR
		case s.advanceIf('='):
			tok = token.PIPEEQ
		}
		*tokVal = token.Value{Raw: string(s.src[start:s.off]), Pos: pos}
		return tok

	case '<':
		tok = token.LT
		switch {
		case s.advanceIf('<'):
			tok = token.LTLT
			if s.advanceIf('=') {
				tok = token.LTLTEQ
			}
		case s.advanceIf('='):
			tok = token.LE
		}
		*tokVal = token.Value{Raw: string(s.src[start:s.off]), Pos: pos}
		return tok

	case '>':
		tok = token.GT
		switch {
		case s.advanceIf('>'):
			tok = token.GTGT
			if s.advanceIf('=') {
				tok = token.GTGTEQ
			}
		case s.advanceIf('='):
			tok = token.GE
		}
		*tokVal = token.Value{Raw: string(s.src[start:s.off]), Pos: pos}
		return tok

	case '=':
		tok = token.ASSIGN
		if s.advanceIf('=') {
			tok = token.EQEQ
		}
		*tokVal = token.Value{Raw: string(s.src[start:s.off]), Pos: pos}
		return tok

	case '/':
		tok = token.SLASH
		if s.advanceIf('=') {
			tok = token.SLASHEQ
		}
		*tokVal = token.Value{Raw: string(s.src[start:s.off]), Pos: pos}
		return tok

	case ':':
		*tokVal = token.Value{Raw: ":", Pos: pos}
		return token.COLON

	case '?':
		*tokVal = token.Value{Raw: "?", Pos: pos}
		return token.QUESTION

	case '.':
		tok = token.DOT
		raw := "."
		if s.cur == '.' && s.peek() == '.' {
			s.advance()
			s.advance()
			tok = token.ELLIPSIS
			raw = "..."
		}
		*tokVal = token.Value{Raw: raw, Pos: pos}
		return tok

	case -1:
		*tokVal = token.Value{Raw: "", Pos: pos}
		return token.EOF

	default:
		s.errorf(start, "illegal character %#U", cur)
		*tokVal = token.Value{Raw: string(cur), Pos: pos}
		return token.ILLEGAL
	}
}

var simplePunct = map[rune]token.Token{
	'(': token.LPAREN,
	')': token.RPAREN,
	'[': token.LBRACK,
	']': token.RBRACK,
	'{': token.LBRACE,
	'}': token.RBRACE,
	',': token.COMMA,
	';': token.SEMI,
	'~': token.TILDE,
	'*': token.STAR,
	'%': token.PERCENT,
	'^': token.CIRCUMFLEX,
	'!': token.BANG,
}

var eqForm = map[rune]token.Token{
	'*': token.STAREQ,
	'%': token.PERCENTEQ,
	'^': token.CIRCUMFLEXEQ,
	'!': token.NEQ,
}

func (s *Scanner) ident() string {
	start := s.off
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch {
		case isWhitespace(s.cur):
			s.advance()
		case s.cur == '/' && s.peek() == '/':
			s.advance()
			s.advance()
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
		case s.cur == '/' && s.peek() == '*':
			s.skipBlockComment()
		default:
			return
		}
	}
}

func (s *Scanner) skipBlockComment() {
	start := s.off
	s.advance() // '/'
	s.advance() // '*'
	for {
		if s.cur == -1 {
			s.error(start, "comment not terminated")
			return
		}
		if s.cur == '*' && s.peek() == '/' {
			s.advance()
			s.advance()
			return
		}
		s.advance()
	}
}

func isWhitespace(rn rune) bool {
	return rn == ' ' || rn == '\t' || rn == '\n' || rn == '\r' || rn == '\v' || rn == '\f'
}

func isLetter(rn rune) bool {
	return 'a' <= rn && rn <= 'z' ||
		'A' <= rn && rn <= 'Z' ||
		rn == '_' ||
		rn >= utf8.RuneSelf && unicode.IsLetter(rn)
}

func isDigit(rn rune) bool {
	return isDecimal(rn)
}
