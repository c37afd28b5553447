package ast

import (
	"fmt"

	"github.com/fatbrother/toyc-go/lang/token"
)

type (
	// ExprStmt is an expression evaluated for its side effects.
	ExprStmt struct {
		X     Expr
		Start token.Pos
		End   token.Pos
	}

	// DeclStmt declares one or more local variables, e.g. "int a, b = 1;".
	DeclStmt struct {
		Type       TypeSpec
		First      *Declarator
		Start, End token.Pos
	}

	// ReturnStmt returns from the enclosing function, with or without a
	// value.
	ReturnStmt struct {
		Return token.Pos
		X      Expr // nil for a bare "return;"
		End    token.Pos
	}

	// IfStmt is an if/else statement. Else is nil when there is no else
	// branch.
	IfStmt struct {
		If         token.Pos
		Cond       Expr
		Then       Stmt
		Else       Stmt
		Start, End token.Pos
	}

	// WhileStmt is a pretest loop: while (Cond) Body.
	WhileStmt struct {
		While      token.Pos
		Cond       Expr
		Body       Stmt
		Start, End token.Pos
	}

	// DoWhileStmt is a posttest loop: do Body while (Cond);.
	DoWhileStmt struct {
		Do         token.Pos
		Body       Stmt
		Cond       Expr
		Start, End token.Pos
	}

	// ForStmt is a C-style three-clause for loop; Init, Cond and Post may
	// each be nil.
	ForStmt struct {
		For        token.Pos
		Init       Stmt
		Cond       Expr
		Post       Stmt
		Body       Stmt
		Start, End token.Pos
	}

	// BreakStmt exits the innermost loop or switch.
	BreakStmt struct {
		Pos token.Pos
	}

	// ContinueStmt jumps to the innermost enclosing loop's continue target.
	ContinueStmt struct {
		Pos token.Pos
	}

	// LabelStmt introduces a named target for goto, immediately followed
	// by the statement it labels.
	LabelStmt struct {
		Name string
		Pos  token.Pos
		Stmt Stmt
	}

	// GotoStmt transfers control to a (possibly not-yet-seen) label in the
	// same function.
	GotoStmt struct {
		Goto token.Pos
		Name string
		End  token.Pos
	}

	// SwitchStmt evaluates Tag and dispatches to the Case/Default children
	// of Body, falling through between cases (§3.3, §4.3.2).
	SwitchStmt struct {
		Switch     token.Pos
		Tag        Expr
		Body       *Block
		Start, End token.Pos
	}

	// CaseStmt is one "case Value:" label inside a switch body.
	CaseStmt struct {
		Case  token.Pos
		Value Expr // must be an integer constant expression
		Colon token.Pos
	}

	// DefaultStmt is the "default:" label inside a switch body.
	DefaultStmt struct {
		Default token.Pos
		Colon   token.Pos
	}
)

func (n *ExprStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "expr stmt", nil) }
func (n *ExprStmt) Span() (start, end token.Pos)  { return n.Start, n.End }
func (n *ExprStmt) Walk(v Visitor)    { Walk(v, n.X) }
func (n *ExprStmt) BlockEnding() bool { return false }

func (n *DeclStmt) Format(f fmt.State, verb rune) {
	count := 0
	for d := n.First; d != nil; d = d.Next {
		count++
	}
	format(f, verb, n, "decl stmt", map[string]int{"declarators": count})
}
func (n *DeclStmt) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *DeclStmt) Walk(v Visitor) {
	Walk(v, n.Type)
	for d := n.First; d != nil; d = d.Next {
		Walk(v, d)
	}
}
func (n *DeclStmt) BlockEnding() bool { return false }

func (n *ReturnStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "return", nil) }
func (n *ReturnStmt) Span() (start, end token.Pos)  { return n.Return, n.End }
func (n *ReturnStmt) Walk(v Visitor) {
	if n.X != nil {
		Walk(v, n.X)
	}
}
func (n *ReturnStmt) BlockEnding() bool { return true }

func (n *IfStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "if", map[string]int{"else": boolCount(n.Else != nil)})
}
func (n *IfStmt) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	if n.Else != nil {
		Walk(v, n.Else)
	}
}
func (n *IfStmt) BlockEnding() bool { return false }

func (n *WhileStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "while", nil) }
func (n *WhileStmt) Span() (start, end token.Pos)  { return n.Start, n.End }
func (n *WhileStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Body)
}
func (n *WhileStmt) BlockEnding() bool { return false }

func (n *DoWhileStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "do while", nil) }
func (n *DoWhileStmt) Span() (start, end token.Pos)  { return n.Start, n.End }
func (n *DoWhileStmt) Walk(v Visitor) {
	Walk(v, n.Body)
	Walk(v, n.Cond)
}
func (n *DoWhileStmt) BlockEnding() bool { return false }

func (n *ForStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "for", nil) }
func (n *ForStmt) Span() (start, end token.Pos)  { return n.Start, n.End }
func (n *ForStmt) Walk(v Visitor) {
	if n.Init != nil {
		Walk(v, n.Init)
	}
	if n.Cond != nil {
		Walk(v, n.Cond)
	}
	if n.Post != nil {
		Walk(v, n.Post)
	}
	Walk(v, n.Body)
}
func (n *ForStmt) BlockEnding() bool { return false }

func (n *BreakStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "break", nil) }
func (n *BreakStmt) Span() (start, end token.Pos) {
	return n.Pos, n.Pos + token.Pos(len("break"))
}
func (n *BreakStmt) Walk(v Visitor)    {}
func (n *BreakStmt) BlockEnding() bool { return true }

func (n *ContinueStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "continue", nil) }
func (n *ContinueStmt) Span() (start, end token.Pos) {
	return n.Pos, n.Pos + token.Pos(len("continue"))
}
func (n *ContinueStmt) Walk(v Visitor)    {}
func (n *ContinueStmt) BlockEnding() bool { return true }

func (n *LabelStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "label "+n.Name, nil) }
func (n *LabelStmt) Span() (start, end token.Pos) {
	_, end = n.Stmt.Span()
	return n.Pos, end
}
func (n *LabelStmt) Walk(v Visitor)    { Walk(v, n.Stmt) }
func (n *LabelStmt) BlockEnding() bool { return false }

func (n *GotoStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "goto "+n.Name, nil) }
func (n *GotoStmt) Span() (start, end token.Pos)  { return n.Goto, n.End }
func (n *GotoStmt) Walk(v Visitor)                {}
func (n *GotoStmt) BlockEnding() bool              { return true }

func (n *SwitchStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "switch", nil) }
func (n *SwitchStmt) Span() (start, end token.Pos)  { return n.Start, n.End }
func (n *SwitchStmt) Walk(v Visitor) {
	Walk(v, n.Tag)
	Walk(v, n.Body)
}
func (n *SwitchStmt) BlockEnding() bool { return false }

func (n *CaseStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "case", nil) }
func (n *CaseStmt) Span() (start, end token.Pos)  { return n.Case, n.Colon + 1 }
func (n *CaseStmt) Walk(v Visitor)                { Walk(v, n.Value) }
func (n *CaseStmt) BlockEnding() bool              { return false }

func (n *DefaultStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "default", nil) }
func (n *DefaultStmt) Span() (start, end token.Pos)  { return n.Default, n.Colon + 1 }
func (n *DefaultStmt) Walk(v Visitor)    {}
func (n *DefaultStmt) BlockEnding() bool { return false }

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}
