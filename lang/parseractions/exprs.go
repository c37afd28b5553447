package parseractions

import (
	"strconv"
	"strings"

	"github.com/fatbrother/toyc-go/lang/ast"
	"github.com/fatbrother/toyc-go/lang/token"
)

func (b *Builder) Binary(op token.Token, opPos token.Pos, l, r ast.Expr) ast.Expr {
	return &ast.BinaryExpr{Left: l, Op: op, OpPos: opPos, Right: r}
}

func (b *Builder) Unary(op token.Token, opPos token.Pos, x ast.Expr) ast.Expr {
	return &ast.UnaryExpr{Op: op, OpPos: opPos, X: x}
}

func (b *Builder) Logical(op token.Token, opPos token.Pos, l, r ast.Expr) ast.Expr {
	return &ast.LogicalExpr{Left: l, Op: op, OpPos: opPos, Right: r}
}

func (b *Builder) Assignment(l ast.Expr, assign token.Pos, r ast.Expr) ast.Expr {
	if !ast.IsAssignable(l) {
		b.Error(b.at(assign), "left-hand side of assignment is not assignable")
	}
	return &ast.AssignExpr{Left: l, Assign: assign, Right: r}
}

func (b *Builder) CompoundAssignment(l ast.Expr, op token.Token, opPos token.Pos, r ast.Expr) ast.Expr {
	if !ast.IsAssignable(l) {
		b.Error(b.at(opPos), "left-hand side of compound assignment is not assignable")
	}
	return &ast.CompoundAssignExpr{Left: l, Op: op, OpPos: opPos, Right: r}
}

func (b *Builder) Conditional(cond, then, els ast.Expr, question, colon token.Pos) ast.Expr {
	return &ast.ConditionalExpr{Cond: cond, Then: then, Else: els, Question: question, Colon: colon}
}

func (b *Builder) Comma(l ast.Expr, comma token.Pos, r ast.Expr) ast.Expr {
	return &ast.CommaExpr{Left: l, Right: r, Comma: comma}
}

func (b *Builder) FunctionCall(name string, namePos token.Pos, args []ast.Expr, rparen token.Pos) ast.Expr {
	return &ast.CallExpr{Name: name, NamePos: namePos, Args: args, Rparen: rparen}
}

func (b *Builder) ArrayAccess(base ast.Expr, lbrack token.Pos, index ast.Expr, rbrack token.Pos) ast.Expr {
	return &ast.IndexExpr{Base: base, Lbrack: lbrack, Index: index, Rbrack: rbrack}
}

func (b *Builder) MemberAccess(base ast.Expr, dot token.Pos, name string, isArrow bool) ast.Expr {
	return &ast.MemberExpr{Base: base, Name: name, Dot: dot, Arrow: isArrow}
}

func (b *Builder) Cast(lparen token.Pos, typ ast.TypeSpec, x ast.Expr) ast.Expr {
	return &ast.CastExpr{Lparen: lparen, Type: typ, X: x}
}

func (b *Builder) SizeofType(pos token.Pos, typ ast.TypeSpec, rparen token.Pos) ast.Expr {
	return &ast.SizeofTypeExpr{Pos: pos, Type: typ, Rparen: rparen}
}

func (b *Builder) SizeofExpr(pos token.Pos, x ast.Expr) ast.Expr {
	return &ast.SizeofExprExpr{Pos: pos, X: x}
}

func (b *Builder) InitializerList(lbrace token.Pos, items []ast.Expr, rbrace token.Pos) ast.Expr {
	return &ast.InitializerListExpr{Lbrace: lbrace, Items: items, Rbrace: rbrace}
}

func (b *Builder) Identifier(pos token.Pos, name string) ast.Expr {
	return &ast.IdentExpr{Pos: pos, Name: name}
}

func (b *Builder) Integer(pos token.Pos, raw string) ast.Expr {
	v, err := parseIntLiteral(raw)
	if err != nil {
		b.Error(b.at(pos), "invalid integer literal "+strconv.Quote(raw))
	}
	return &ast.IntegerExpr{Pos: pos, Raw: raw, Value: v}
}

func (b *Builder) Float(pos token.Pos, raw string) ast.Expr {
	v, err := strconv.ParseFloat(strings.TrimRight(raw, "fF"), 64)
	if err != nil {
		b.Error(b.at(pos), "invalid float literal "+strconv.Quote(raw))
	}
	return &ast.FloatExpr{Pos: pos, Raw: raw, Value: v}
}

func (b *Builder) String(pos token.Pos, raw string) ast.Expr {
	return &ast.StringExpr{Pos: pos, Value: unescapeString(raw)}
}

func (b *Builder) CharConstant(pos token.Pos, raw string) ast.Expr {
	v := unescapeChar(raw)
	return &ast.CharExpr{Pos: pos, Raw: raw, Value: v}
}

// parseIntLiteral accepts decimal, 0x/0X hex and leading-zero octal forms
// plus an optional u/U/l/L/ll/LL integer-suffix, stripped before parsing
// since ToyC's type table - not the literal's own spelling - determines
// its width and signedness.
func parseIntLiteral(raw string) (int64, error) {
	s := strings.TrimRight(raw, "uUlL")
	base := 10
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		base = 16
		s = s[2:]
	case len(s) > 1 && s[0] == '0':
		base = 8
	}
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, base, 64)
}

// unescapeString resolves the C backslash escapes this project supports
// inside a double-quoted string literal body (raw excludes the quotes).
func unescapeString(raw string) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
			sb.WriteByte(escapeByte(raw[i]))
			continue
		}
		sb.WriteByte(raw[i])
	}
	return sb.String()
}

func unescapeChar(raw string) int64 {
	// raw excludes the surrounding single quotes.
	if len(raw) >= 2 && raw[0] == '\\' {
		return int64(escapeByte(raw[1]))
	}
	if len(raw) == 0 {
		return 0
	}
	return int64(raw[0])
}

func escapeByte(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	case '\\':
		return '\\'
	case '\'':
		return '\''
	case '"':
		return '"'
	default:
		return c
	}
}
