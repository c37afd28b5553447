package ast

import (
	"fmt"

	"github.com/fatbrother/toyc-go/lang/token"
	"github.com/fatbrother/toyc-go/lang/types"
)

// Unwrap strips nothing today (ToyC's grammar has no ParenExpr node since
// parenthesization is resolved by parser precedence, not retained in the
// tree). Nothing in this module calls it; it is kept as a hook in case a
// future grammar revision reintroduces a wrapping node.
func Unwrap(e Expr) Expr { return e }

// IsAssignable reports whether e may appear as the left-hand side of an
// assignment: an identifier, a member access, an array subscript, or a
// unary expression. Any unary operator passes here; codegen's Alloc then
// accepts only the '*' dereference form.
func IsAssignable(e Expr) bool {
	switch e.(type) {
	case *IdentExpr, *MemberExpr, *IndexExpr, *UnaryExpr:
		return true
	default:
		return false
	}
}

type (
	// IntegerExpr is an integer literal.
	IntegerExpr struct {
		Pos   token.Pos
		Raw   string
		Value int64
		Type  types.Idx
	}

	// FloatExpr is a floating-point literal.
	FloatExpr struct {
		Pos   token.Pos
		Raw   string
		Value float64
		Type  types.Idx
	}

	// StringExpr is a string literal; it lowers to a read-only global
	// holding the bytes plus a nul terminator (§4.3.1).
	StringExpr struct {
		Pos   token.Pos
		Value string
		Type  types.Idx
	}

	// CharExpr is a character constant, e.g. 'a'.
	CharExpr struct {
		Pos   token.Pos
		Raw   string
		Value int64
		Type  types.Idx
	}

	// IdentExpr is an identifier reference, resolved against the scope
	// stack at codegen time.
	IdentExpr struct {
		Pos  token.Pos
		Name string
	}

	// BinaryExpr is a binary operator expression, e.g. x + y.
	BinaryExpr struct {
		Left  Expr
		Op    token.Token
		OpPos token.Pos
		Right Expr
	}

	// UnaryExpr is a prefix unary operator expression, e.g. -x, !x, &x, *x.
	UnaryExpr struct {
		Op    token.Token
		OpPos token.Pos
		X     Expr
	}

	// LogicalExpr is a short-circuit && or || expression, lowered as
	// explicit control flow joined through a stack slot (§4.3.1).
	LogicalExpr struct {
		Left  Expr
		Op    token.Token // ANDAND or OROR
		OpPos token.Pos
		Right Expr
	}

	// ConditionalExpr is the ternary c ? t : f expression.
	ConditionalExpr struct {
		Cond, Then, Else Expr
		Question, Colon  token.Pos
	}

	// AssignExpr is a plain assignment, lhs = rhs.
	AssignExpr struct {
		Left   Expr
		Assign token.Pos
		Right  Expr
	}

	// CompoundAssignExpr is lhs OP= rhs, semantically lhs = lhs OP rhs with
	// lhs evaluated once (§4.3.1).
	CompoundAssignExpr struct {
		Left  Expr
		Op    token.Token // the underlying binary op, e.g. PLUS for PLUSEQ
		OpPos token.Pos
		Right Expr
	}

	// CommaExpr evaluates Left for its side effects, discards it, and
	// yields Right.
	CommaExpr struct {
		Left, Right Expr
		Comma       token.Pos
	}

	// CallExpr is a function call by name.
	CallExpr struct {
		Name    string
		NamePos token.Pos
		Args    []Expr
		Rparen  token.Pos
	}

	// MemberExpr is a.m (Arrow == false) or a->m (Arrow == true).
	MemberExpr struct {
		Base  Expr
		Name  string
		Dot   token.Pos
		Arrow bool
	}

	// IndexExpr is a[i], equivalent to *(a + i) (§4.3.1).
	IndexExpr struct {
		Base   Expr
		Lbrack token.Pos
		Index  Expr
		Rbrack token.Pos
	}

	// CastExpr is (Type)X.
	CastExpr struct {
		Lparen token.Pos
		Type   TypeSpec
		X      Expr
	}

	// SizeofTypeExpr is sizeof(Type); the operand is never evaluated.
	SizeofTypeExpr struct {
		Pos    token.Pos
		Type   TypeSpec
		Rparen token.Pos
	}

	// SizeofExprExpr is sizeof X; X is never evaluated, only its static
	// type matters.
	SizeofExprExpr struct {
		Pos token.Pos
		X   Expr
	}

	// InitializerListExpr is a brace-enclosed initializer, e.g.
	// {1, 2, {3, 4}}, used for array and struct initialization.
	InitializerListExpr struct {
		Lbrace, Rbrace token.Pos
		Items          []Expr
	}
)

func (n *IntegerExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "int "+n.Raw, nil) }
func (n *IntegerExpr) Span() (start, end token.Pos) {
	return n.Pos, n.Pos + token.Pos(len(n.Raw))
}
func (n *IntegerExpr) Walk(v Visitor) {}
func (n *IntegerExpr) expr()          {}

func (n *FloatExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "float "+n.Raw, nil) }
func (n *FloatExpr) Span() (start, end token.Pos) {
	return n.Pos, n.Pos + token.Pos(len(n.Raw))
}
func (n *FloatExpr) Walk(v Visitor) {}
func (n *FloatExpr) expr()          {}

func (n *StringExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "string", nil) }
func (n *StringExpr) Span() (start, end token.Pos) {
	return n.Pos, n.Pos + token.Pos(len(n.Value)+2)
}
func (n *StringExpr) Walk(v Visitor) {}
func (n *StringExpr) expr()          {}

func (n *CharExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "char "+n.Raw, nil) }
func (n *CharExpr) Span() (start, end token.Pos) {
	return n.Pos, n.Pos + token.Pos(len(n.Raw))
}
func (n *CharExpr) Walk(v Visitor) {}
func (n *CharExpr) expr()          {}

func (n *IdentExpr) Format(f fmt.State, verb rune) { format(f, verb, n, n.Name, nil) }
func (n *IdentExpr) Span() (start, end token.Pos) {
	return n.Pos, n.Pos + token.Pos(len(n.Name))
}
func (n *IdentExpr) Walk(v Visitor) {}
func (n *IdentExpr) expr()          {}

func (n *BinaryExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "binary "+n.Op.String(), nil)
}
func (n *BinaryExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *BinaryExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *BinaryExpr) expr() {}

func (n *UnaryExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "unary "+n.Op.String(), nil) }
func (n *UnaryExpr) Span() (start, end token.Pos) {
	_, end = n.X.Span()
	return n.OpPos, end
}
func (n *UnaryExpr) Walk(v Visitor) { Walk(v, n.X) }
func (n *UnaryExpr) expr()          {}

func (n *LogicalExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "logical "+n.Op.String(), nil)
}
func (n *LogicalExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *LogicalExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *LogicalExpr) expr() {}

func (n *ConditionalExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "cond ?:", nil) }
func (n *ConditionalExpr) Span() (start, end token.Pos) {
	start, _ = n.Cond.Span()
	_, end = n.Else.Span()
	return start, end
}
func (n *ConditionalExpr) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	Walk(v, n.Else)
}
func (n *ConditionalExpr) expr() {}

func (n *AssignExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "assign", nil) }
func (n *AssignExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *AssignExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *AssignExpr) expr() {}

func (n *CompoundAssignExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "compound assign "+n.Op.String()+"=", nil)
}
func (n *CompoundAssignExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *CompoundAssignExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *CompoundAssignExpr) expr() {}

func (n *CommaExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "comma", nil) }
func (n *CommaExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *CommaExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *CommaExpr) expr() {}

func (n *CallExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "call "+n.Name, map[string]int{"args": len(n.Args)})
}
func (n *CallExpr) Span() (start, end token.Pos) {
	return n.NamePos, n.Rparen + 1
}
func (n *CallExpr) Walk(v Visitor) {
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (n *CallExpr) expr() {}

func (n *MemberExpr) Format(f fmt.State, verb rune) {
	op := "."
	if n.Arrow {
		op = "->"
	}
	format(f, verb, n, "member "+op+n.Name, nil)
}
func (n *MemberExpr) Span() (start, end token.Pos) {
	start, _ = n.Base.Span()
	return start, n.Dot + token.Pos(len(n.Name))
}
func (n *MemberExpr) Walk(v Visitor) { Walk(v, n.Base) }
func (n *MemberExpr) expr()          {}

func (n *IndexExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "index", nil) }
func (n *IndexExpr) Span() (start, end token.Pos) {
	start, _ = n.Base.Span()
	return start, n.Rbrack + 1
}
func (n *IndexExpr) Walk(v Visitor) {
	Walk(v, n.Base)
	Walk(v, n.Index)
}
func (n *IndexExpr) expr() {}

func (n *CastExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "cast", nil) }
func (n *CastExpr) Span() (start, end token.Pos) {
	_, end = n.X.Span()
	return n.Lparen, end
}
func (n *CastExpr) Walk(v Visitor) {
	Walk(v, n.Type)
	Walk(v, n.X)
}
func (n *CastExpr) expr() {}

func (n *SizeofTypeExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "sizeof type", nil) }
func (n *SizeofTypeExpr) Span() (start, end token.Pos)  { return n.Pos, n.Rparen + 1 }
func (n *SizeofTypeExpr) Walk(v Visitor)                { Walk(v, n.Type) }
func (n *SizeofTypeExpr) expr()                         {}

func (n *SizeofExprExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "sizeof expr", nil) }
func (n *SizeofExprExpr) Span() (start, end token.Pos) {
	_, end = n.X.Span()
	return n.Pos, end
}
func (n *SizeofExprExpr) Walk(v Visitor) { Walk(v, n.X) }
func (n *SizeofExprExpr) expr()          {}

func (n *InitializerListExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "initializer list", map[string]int{"items": len(n.Items)})
}
func (n *InitializerListExpr) Span() (start, end token.Pos) { return n.Lbrace, n.Rbrace + 1 }
func (n *InitializerListExpr) Walk(v Visitor) {
	for _, it := range n.Items {
		Walk(v, it)
	}
}
func (n *InitializerListExpr) expr() {}
