package parser

import (
	"github.com/fatbrother/toyc-go/lang/ast"
	"github.com/fatbrother/toyc-go/lang/token"
)

// binPrec maps each left-associative binary operator to its precedence
// level; higher binds tighter. && and || sit among the others here and
// are split out to Actions.Logical only once an operator is chosen,
// since short-circuit evaluation is a codegen concern, not a parsing one.
var binPrec = map[token.Token]int{
	token.OROR:       1,
	token.ANDAND:     2,
	token.PIPE:       3,
	token.CIRCUMFLEX: 4,
	token.AMPERSAND:  5,
	token.EQEQ:       6,
	token.NEQ:        6,
	token.LT:         7,
	token.GT:         7,
	token.LE:         7,
	token.GE:         7,
	token.LTLT:       8,
	token.GTGT:       8,
	token.PLUS:       9,
	token.MINUS:      9,
	token.STAR:       10,
	token.SLASH:      10,
	token.PERCENT:    10,
}

// parseExpr parses a full comma expression, the widest production: "a, b,
// c" evaluates each for its side effects and yields the last.
func (p *parser) parseExpr() ast.Expr {
	x := p.parseAssignment()
	for p.at(token.COMMA) {
		pos := p.val.Pos
		p.advance()
		r := p.parseAssignment()
		x = p.actions.Comma(x, pos, r)
	}
	return x
}

// parseAssignment parses a conditional-expression optionally followed by
// one assignment operator and another assignment-expression
// (right-associative, so "a = b = c" parses as "a = (b = c)").
func (p *parser) parseAssignment() ast.Expr {
	x := p.parseConditional()
	if token.IsAssignOp(p.tok) {
		op := p.tok
		pos := p.val.Pos
		p.advance()
		r := p.parseAssignment()
		if op == token.ASSIGN {
			return p.actions.Assignment(x, pos, r)
		}
		return p.actions.CompoundAssignment(x, token.BinOpForAssign(op), pos, r)
	}
	return x
}

func (p *parser) parseConditional() ast.Expr {
	cond := p.parseBinary(1)
	if p.at(token.QUESTION) {
		q := p.val.Pos
		p.advance()
		then := p.parseExpr()
		colon := p.expect(token.COLON)
		els := p.parseConditional()
		return p.actions.Conditional(cond, then, els, q, colon)
	}
	return cond
}

// parseBinary implements precedence climbing over binPrec: it only
// descends into parseCast for operands, so every level from || down to
// */% shares one recursive function instead of one per grammar rule.
func (p *parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseCast()
	for {
		prec, ok := binPrec[p.tok]
		if !ok || prec < minPrec {
			return left
		}
		op := p.tok
		opPos := p.val.Pos
		p.advance()
		right := p.parseBinary(prec + 1)
		if op == token.OROR || op == token.ANDAND {
			left = p.actions.Logical(op, opPos, left, right)
		} else {
			left = p.actions.Binary(op, opPos, left, right)
		}
	}
}

// parseCast handles "(type-name)expr", distinguished from a parenthesized
// sub-expression by peeking past the '(' for a type keyword.
func (p *parser) parseCast() ast.Expr {
	if p.at(token.LPAREN) && isTypeStart(p.peek()) {
		lparen := p.val.Pos
		p.advance()
		typ := p.parseTypeName()
		p.expect(token.RPAREN)
		x := p.parseCast()
		return p.actions.Cast(lparen, typ, x)
	}
	return p.parseUnary()
}

// parseTypeName parses a type-specifier with no declarator, the form
// used inside a cast or sizeof(...): any pointer stars are folded into a
// PointerTypeSpec since there is no Declarator.PointerLevel to hold them.
func (p *parser) parseTypeName() ast.TypeSpec {
	base := p.parseBaseType()
	level, starPos := p.parsePointerStars()
	if level > 0 {
		return p.actions.PointerType(base, starPos, level)
	}
	return base
}

func (p *parser) parseUnary() ast.Expr {
	switch p.tok {
	case token.PLUS, token.MINUS, token.BANG, token.TILDE, token.STAR, token.AMPERSAND:
		op := p.tok
		pos := p.val.Pos
		p.advance()
		x := p.parseCast()
		return p.actions.Unary(op, pos, x)
	case token.SIZEOF:
		pos := p.val.Pos
		p.advance()
		if p.at(token.LPAREN) && isTypeStart(p.peek()) {
			p.advance()
			typ := p.parseTypeName()
			rparen := p.expect(token.RPAREN)
			return p.actions.SizeofType(pos, typ, rparen)
		}
		x := p.parseUnary()
		return p.actions.SizeofExpr(pos, x)
	default:
		return p.parsePostfix()
	}
}

// parsePostfix handles everything that can trail a primary expression
// except a call, which parsePrimary builds directly since
// Actions.FunctionCall takes the callee's name rather than an arbitrary
// base expression (ToyC has no function pointers, §6.2).
func (p *parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.tok {
		case token.LBRACK:
			lbrack := p.val.Pos
			p.advance()
			idx := p.parseExpr()
			rbrack := p.expect(token.RBRACK)
			x = p.actions.ArrayAccess(x, lbrack, idx, rbrack)
		case token.DOT, token.ARROW:
			arrow := p.tok == token.ARROW
			dot := p.val.Pos
			p.advance()
			name, _ := p.expectIdent()
			x = p.actions.MemberAccess(x, dot, name, arrow)
		default:
			return x
		}
	}
}

func (p *parser) parsePrimary() ast.Expr {
	switch p.tok {
	case token.IDENT:
		name := p.val.Raw
		pos := p.val.Pos
		p.advance()
		if p.at(token.LPAREN) {
			return p.parseCallArgs(name, pos)
		}
		return p.actions.Identifier(pos, name)
	case token.INT:
		raw, pos := p.val.Raw, p.val.Pos
		p.advance()
		return p.actions.Integer(pos, raw)
	case token.FLOAT:
		raw, pos := p.val.Raw, p.val.Pos
		p.advance()
		return p.actions.Float(pos, raw)
	case token.STRING:
		// the scanner's token text includes the surrounding quotes;
		// Actions.String expects them stripped.
		raw, pos := stripQuotes(p.val.Raw), p.val.Pos
		p.advance()
		return p.actions.String(pos, raw)
	case token.CHAR:
		raw, pos := stripQuotes(p.val.Raw), p.val.Pos
		p.advance()
		return p.actions.CharConstant(pos, raw)
	case token.LPAREN:
		p.advance()
		x := p.parseExpr()
		p.expect(token.RPAREN)
		return x
	case token.LBRACE:
		return p.parseInitializerList()
	default:
		pos := p.val.Pos
		p.errorf(pos, "expected expression, found %s", p.tok.String())
		panic(errPanicMode)
	}
}

func (p *parser) parseCallArgs(name string, namePos token.Pos) ast.Expr {
	p.expect(token.LPAREN)
	var args []ast.Expr
	if !p.at(token.RPAREN) {
		args = append(args, p.parseAssignment())
		for p.at(token.COMMA) {
			p.advance()
			args = append(args, p.parseAssignment())
		}
	}
	rparen := p.expect(token.RPAREN)
	return p.actions.FunctionCall(name, namePos, args, rparen)
}

func (p *parser) parseInitializerList() ast.Expr {
	lbrace := p.expect(token.LBRACE)
	var items []ast.Expr
	if !p.at(token.RBRACE) {
		items = append(items, p.parseInitItem())
		for p.at(token.COMMA) {
			p.advance()
			if p.at(token.RBRACE) {
				break
			}
			items = append(items, p.parseInitItem())
		}
	}
	rbrace := p.expect(token.RBRACE)
	return p.actions.InitializerList(lbrace, items, rbrace)
}

func (p *parser) parseInitItem() ast.Expr {
	if p.at(token.LBRACE) {
		return p.parseInitializerList()
	}
	return p.parseAssignment()
}

// stripQuotes removes the leading and trailing quote byte the scanner
// leaves on string and char token text.
func stripQuotes(raw string) string {
	if len(raw) >= 2 {
		return raw[1 : len(raw)-1]
	}
	return raw
}
