// Package parser implements a recursive-descent parser for ToyC's
// C89/C99-flavored grammar. It drives lang/parseractions.Actions: every
// production builds its children first, then hands them to one Actions
// factory call, so this package owns only shape (what token sequence
// means what production) and never AST node construction.
//
// The engine - a single current token/value pair, advance/expect
// primitives, and panic-mode error recovery unwound at statement
// boundaries - is adapted from the teacher's own Lua parser, generalized
// from Lua's grammar to C's: no long strings/one-token lookahead blocks,
// explicit type-specifier parsing in place of Lua's untyped locals, and
// precedence-climbing expression parsing in place of Lua's (simpler)
// binary operator table, since C's grammar layers many more precedence
// levels between assignment and primary.
package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatbrother/toyc-go/lang/ast"
	"github.com/fatbrother/toyc-go/lang/parseractions"
	"github.com/fatbrother/toyc-go/lang/scanner"
	"github.com/fatbrother/toyc-go/lang/token"
)

// ParseFiles parses each of files in turn, sharing one Actions (and so
// one Type Table and one diagnostic sink) across the whole translation
// set, and returns the FileSet used to resolve every AST node's
// position. ctx is checked before each file: once it is canceled, no
// further file is parsed, and already parsed files are still returned.
func ParseFiles(ctx context.Context, actions parseractions.Actions, files ...string) (*token.FileSet, []*ast.Chunk, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}

	fs := token.NewFileSet()
	res := make([]*ast.Chunk, 0, len(files))

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			break
		}
		b, err := os.ReadFile(file)
		if err != nil {
			actions.Error(token.Position{Filename: file}, err.Error())
			continue
		}
		ch, _ := ParseChunk(ctx, actions, fs, file, b)
		res = append(res, ch)
	}

	if actions.HasError() {
		return fs, res, errors.New("parser: one or more files failed to parse")
	}
	return fs, res, nil
}

// ParseChunk parses a single already-read translation unit, registering
// its bytes under filename in fset so later diagnostics and codegen can
// resolve positions back to file/line/column.
func ParseChunk(ctx context.Context, actions parseractions.Actions, fset *token.FileSet, filename string, src []byte) (*ast.Chunk, error) {
	var p parser
	p.actions = actions
	p.init(fset, filename, src)
	ch := p.parseChunk()
	if actions.HasError() {
		return ch, errors.New("parser: " + filename + ": parse error")
	}
	return ch, nil
}

// parser holds the current token/value pair driving every production
// below, plus a single slot of extra lookahead: C needs it to tell a
// label ("name:") from an expression statement starting with the same
// identifier, something Lua's "::name::" label syntax never required of
// the teacher's own one-token parser. It is never reused across
// translation units.
type parser struct {
	actions parseractions.Actions
	scanner scanner.Scanner
	file    *token.File

	tok token.Token
	val token.Value

	peeked  bool
	peekTok token.Token
	peekVal token.Value
}

func (p *parser) init(fset *token.FileSet, filename string, src []byte) {
	p.file = fset.AddFile(filename, len(src))
	p.file.SetContent(src)
	p.scanner.Init(p.file, src, func(pos token.Position, msg string) {
		p.actions.Error(pos, msg)
	})
	p.advance()
}

func (p *parser) advance() {
	if p.peeked {
		p.tok, p.val = p.peekTok, p.peekVal
		p.peeked = false
		return
	}
	p.tok = p.scanner.Scan(&p.val)
}

// peek returns the token following the current one without consuming
// either, caching it so the next advance is free.
func (p *parser) peek() token.Token {
	if !p.peeked {
		p.peekTok = p.scanner.Scan(&p.peekVal)
		p.peeked = true
	}
	return p.peekTok
}

func (p *parser) pos() token.Position { return p.file.Position(p.val.Pos) }

// errPanicMode unwinds to the nearest statement or external-declaration
// boundary after a syntax error, mirroring the teacher's own
// expect-panics / recover-in-the-caller discipline.
var errPanicMode = errors.New("panic")

func (p *parser) error(pos token.Pos, msg string) {
	p.actions.Error(p.file.Position(pos), msg)
}

func (p *parser) errorf(pos token.Pos, format string, args ...any) {
	p.error(pos, fmt.Sprintf(format, args...))
}

// expect consumes the current token if it is one of toks and returns its
// position, otherwise reports a syntax error and panics with
// errPanicMode for the nearest recover point to catch.
func (p *parser) expect(toks ...token.Token) token.Pos {
	pos := p.val.Pos
	for _, t := range toks {
		if p.tok == t {
			p.advance()
			return pos
		}
	}

	var want strings.Builder
	for i, t := range toks {
		if i > 0 {
			want.WriteString(" or ")
		}
		want.WriteString(t.String())
	}
	lit := p.tok.String()
	if p.tok == token.IDENT || p.tok == token.INT || p.tok == token.FLOAT ||
		p.tok == token.STRING || p.tok == token.CHAR {
		lit = p.val.Raw
	}
	p.errorf(pos, "expected %s, found %s", want.String(), lit)
	panic(errPanicMode)
}

func (p *parser) at(tok token.Token) bool { return p.tok == tok }

// expectIdent consumes an IDENT and returns its text and position, or
// reports a syntax error and panics with errPanicMode.
func (p *parser) expectIdent() (string, token.Pos) {
	if !p.at(token.IDENT) {
		p.errorf(p.val.Pos, "expected identifier, found %s", p.tok.String())
		panic(errPanicMode)
	}
	name := p.val.Raw
	pos := p.val.Pos
	p.advance()
	return name, pos
}

// stmtEnd is the position just past s, used when an Actions call needs an
// explicit end position for a statement this parser already finished
// building (e.g. the body of an if/while/for).
func stmtEnd(s ast.Stmt) token.Pos {
	_, end := s.Span()
	return end
}

// isTypeStart reports whether tok can begin a type-specifier: a
// primitive keyword, a qualifier, or "struct".
func isTypeStart(tok token.Token) bool {
	switch tok {
	case token.VOID, token.CHAR_KW, token.SHORT, token.INT_KW, token.LONG,
		token.FLOAT_KW, token.DOUBLE, token.STRUCT, token.CONST, token.VOLATILE:
		return true
	}
	return false
}
