package parser

import (
	"github.com/fatbrother/toyc-go/lang/ast"
	"github.com/fatbrother/toyc-go/lang/token"
	"github.com/fatbrother/toyc-go/lang/types"
)

// parseChunk parses a whole translation unit: a sequence of external
// declarations up to EOF.
func (p *parser) parseChunk() *ast.Chunk {
	var decls []ast.Decl
	for !p.at(token.EOF) {
		if d := p.parseExternalDecl(); d != nil {
			decls = append(decls, d)
		}
	}
	return p.actions.Chunk(p.file.Name(), decls, p.val.Pos)
}

// parseExternalDecl parses one function definition, function prototype,
// global variable declaration, or standalone struct declaration. All four
// start the same way - an optional qualifier run, then a type-specifier -
// so the productions stay merged until the parser has seen enough to
// tell them apart: a bare ";" right after a struct specifier is a
// struct-only declaration, a "(" after the first declarator's name makes
// it a function, anything else is a global variable list.
func (p *parser) parseExternalDecl() (result ast.Decl) {
	start := p.val.Pos
	defer func() {
		if r := recover(); r != nil {
			if r != errPanicMode {
				panic(r)
			}
			result = nil
			p.syncToDeclBoundary()
		}
	}()

	base := p.parseBaseType()

	if spec, ok := base.(*ast.StructSpecifier); ok && p.at(token.SEMI) {
		end := p.expect(token.SEMI)
		return p.actions.StructDeclaration(start, spec, end)
	}

	level, starPos := p.parsePointerStars()
	name, namePos := p.expectIdent()

	if p.at(token.LPAREN) {
		retType := base
		if level > 0 {
			retType = p.actions.PointerType(base, starPos, level)
		}
		params, variadic := p.parseParamList()
		if p.at(token.LBRACE) {
			body := p.parseBlock()
			_, end := body.Span()
			return p.actions.FunctionDefinition(start, retType, name, params, variadic, body, end)
		}
		end := p.expect(token.SEMI)
		return p.actions.FunctionDeclaration(start, retType, name, params, variadic, end)
	}

	first := p.parseDeclaratorTail(level, name, namePos)
	tail := first
	for p.at(token.COMMA) {
		p.advance()
		next := p.parseOneDeclarator()
		tail.Next = next
		tail = next
	}
	end := p.expect(token.SEMI)
	return p.actions.GlobalDeclaration(start, base, first, end)
}

// syncToDeclBoundary skips to the next plausible external-declaration
// start after a syntax error: past the next ";" or "}", whichever comes
// first.
func (p *parser) syncToDeclBoundary() {
	for !p.at(token.EOF) {
		switch p.tok {
		case token.SEMI, token.RBRACE:
			p.advance()
			return
		}
		p.advance()
	}
}

// parseBaseType parses a type-specifier's base (qualifiers discarded,
// primitive keyword or struct specifier/reference kept): the common
// prefix of every declaration, parameter, field, cast target and
// sizeof(type) operand.
func (p *parser) parseBaseType() ast.TypeSpec {
	p.skipQualifiers()
	switch p.tok {
	case token.VOID:
		pos := p.expect(token.VOID)
		return p.actions.PrimitiveType(pos, types.Void)
	case token.CHAR_KW:
		pos := p.expect(token.CHAR_KW)
		return p.actions.PrimitiveType(pos, types.Char)
	case token.SHORT:
		pos := p.expect(token.SHORT)
		return p.actions.PrimitiveType(pos, types.Short)
	case token.INT_KW:
		pos := p.expect(token.INT_KW)
		return p.actions.PrimitiveType(pos, types.Int)
	case token.LONG:
		pos := p.expect(token.LONG)
		return p.actions.PrimitiveType(pos, types.Long)
	case token.FLOAT_KW:
		pos := p.expect(token.FLOAT_KW)
		return p.actions.PrimitiveType(pos, types.Float)
	case token.DOUBLE:
		pos := p.expect(token.DOUBLE)
		return p.actions.PrimitiveType(pos, types.Double)
	case token.STRUCT:
		return p.parseStructSpec()
	default:
		p.errorf(p.val.Pos, "expected a type, found %s", p.tok.String())
		panic(errPanicMode)
	}
}

// skipQualifiers consumes any leading run of "const"/"volatile" keywords.
// Nothing downstream of the parser models type qualifiers (no Qualif
// field anywhere in lang/ast or lang/codegen), so they are recognized
// only so "const int x" parses, never threaded through.
func (p *parser) skipQualifiers() {
	for p.at(token.CONST) || p.at(token.VOLATILE) {
		p.advance()
	}
}

func (p *parser) parseStructSpec() ast.TypeSpec {
	pos := p.expect(token.STRUCT)
	name, namePos := p.expectIdent()
	if p.at(token.LBRACE) {
		p.advance()
		var members []*ast.FieldDecl
		for !p.at(token.RBRACE) && !p.at(token.EOF) {
			members = append(members, p.parseFieldDecl())
		}
		end := p.expect(token.RBRACE)
		return p.actions.StructSpecifier(pos, name, members, end)
	}
	return p.actions.StructReference(pos, name, namePos+token.Pos(len(name)))
}

func (p *parser) parseFieldDecl() *ast.FieldDecl {
	base := p.parseBaseType()
	level, starPos := p.parsePointerStars()
	name, namePos := p.expectIdent()
	typ := base
	if level > 0 {
		typ = p.actions.PointerType(base, starPos, level)
	}
	field := p.actions.Field(typ, name, namePos)
	p.expect(token.SEMI)
	return field
}

// parsePointerStars consumes zero or more "*" and reports how many, along
// with the position of the first one (needed only when the caller must
// wrap the base type in a PointerTypeSpec; named declarators carry the
// count directly on Declarator.PointerLevel instead).
func (p *parser) parsePointerStars() (int, token.Pos) {
	var pos token.Pos
	n := 0
	for p.at(token.STAR) {
		if n == 0 {
			pos = p.val.Pos
		}
		p.advance()
		n++
	}
	return n, pos
}

func (p *parser) parseParamList() ([]*ast.Param, bool) {
	p.expect(token.LPAREN)
	var params []*ast.Param

	if p.at(token.RPAREN) {
		p.advance()
		return params, false
	}
	if p.at(token.VOID) && p.peek() == token.RPAREN {
		p.advance()
		p.advance()
		return params, false
	}

	variadic := false
	for {
		if p.at(token.ELLIPSIS) {
			p.advance()
			params = append(params, p.actions.VariadicParameter())
			variadic = true
			break
		}
		params = append(params, p.parseParam())
		if !p.at(token.COMMA) {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)
	return params, variadic
}

// parseParam parses one formal parameter, named or abstract. A named
// parameter's pointer stars live on its Declarator.PointerLevel (matching
// how codegen resolves it: base type first, then the declarator's own
// levels); an abstract parameter has no declarator to hold them, so they
// are folded into a PointerTypeSpec instead.
func (p *parser) parseParam() *ast.Param {
	base := p.parseBaseType()
	level, starPos := p.parsePointerStars()
	if p.at(token.IDENT) {
		name, namePos := p.expectIdent()
		decl := p.actions.Declarator(namePos, name, level)
		decl = p.parseArrayDims(decl)
		return p.actions.Parameter(base, decl)
	}
	typ := base
	if level > 0 {
		typ = p.actions.PointerType(base, starPos, level)
	}
	return p.actions.Parameter(typ, nil)
}

func (p *parser) parseArrayDims(decl *ast.Declarator) *ast.Declarator {
	for p.at(token.LBRACK) {
		p.advance()
		var dim ast.Expr
		if !p.at(token.RBRACK) {
			dim = p.parseAssignment()
		}
		p.expect(token.RBRACK)
		decl = p.actions.ArrayDeclarator(decl, dim)
	}
	return decl
}

// parseDeclaratorTail finishes a declarator whose pointer stars and name
// the caller already consumed (disambiguating it from a function
// declarator first requires seeing past both).
func (p *parser) parseDeclaratorTail(level int, name string, namePos token.Pos) *ast.Declarator {
	decl := p.actions.Declarator(namePos, name, level)
	decl = p.parseArrayDims(decl)
	if p.at(token.ASSIGN) {
		p.advance()
		init := p.parseAssignment()
		decl = p.actions.InitDeclarator(decl, init)
	}
	return decl
}

// parseOneDeclarator parses one declarator in a comma-separated list
// ("int a, *b, c[3];"): each entry may carry its own pointer stars.
func (p *parser) parseOneDeclarator() *ast.Declarator {
	level, _ := p.parsePointerStars()
	name, namePos := p.expectIdent()
	return p.parseDeclaratorTail(level, name, namePos)
}

// parseDeclStmt parses a local variable declaration; it is reachable both
// as an ordinary block statement and as a for-loop's init-clause.
func (p *parser) parseDeclStmt() ast.Stmt {
	start := p.val.Pos
	base := p.parseBaseType()
	first := p.parseOneDeclarator()
	tail := first
	for p.at(token.COMMA) {
		p.advance()
		next := p.parseOneDeclarator()
		tail.Next = next
		tail = next
	}
	end := p.expect(token.SEMI)
	return p.actions.DeclarationStatement(start, base, first, end)
}
