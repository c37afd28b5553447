package ast

import (
	"fmt"

	"github.com/fatbrother/toyc-go/lang/token"
	"github.com/fatbrother/toyc-go/lang/types"
)

// Declarator names one variable being declared, built up incrementally by
// ParserActions: declarator(name, level) creates the base node,
// array_declarator wraps it with one more dimension (appended in
// left-to-right source order), and init_declarator attaches the
// initializer. Next chains to the following declarator in a comma list
// such as "int a, b, c;" (§3.3 invariant: "optional link to a next
// declarator").
type Declarator struct {
	Pos          token.Pos
	Name         string
	PointerLevel int
	ArrayDims    []Expr // nil entries denote an incomplete/unsized dimension (e.g. int a[])
	Init         Expr   // nil if no initializer
	Next         *Declarator

	// ElementType is filled in by the code generator once the declarator's
	// base TypeSpec, pointer level and array dimensions have been combined
	// into a single concrete type (§4.3.2).
	ElementType types.Idx
}

func (n *Declarator) Format(f fmt.State, verb rune) {
	format(f, verb, n, "declarator "+n.Name, map[string]int{"dims": len(n.ArrayDims)})
}
func (n *Declarator) Span() (start, end token.Pos) {
	end = n.Pos + token.Pos(len(n.Name))
	if n.Init != nil {
		_, end = n.Init.Span()
	}
	return n.Pos, end
}
func (n *Declarator) Walk(v Visitor) {
	for _, d := range n.ArrayDims {
		if d != nil {
			Walk(v, d)
		}
	}
	if n.Init != nil {
		Walk(v, n.Init)
	}
}

// Param is one formal parameter of a function signature.
type Param struct {
	Type       TypeSpec
	Declarator *Declarator // nil for an abstract (unnamed) parameter
}

func (n *Param) Format(f fmt.State, verb rune) { format(f, verb, n, "param", nil) }
func (n *Param) Span() (start, end token.Pos) {
	start, _ = n.Type.Span()
	end = start
	if n.Declarator != nil {
		_, end = n.Declarator.Span()
	}
	return start, end
}
func (n *Param) Walk(v Visitor) {
	Walk(v, n.Type)
	if n.Declarator != nil {
		Walk(v, n.Declarator)
	}
}

// FuncDecl is an external declaration for a function: either a prototype
// (Body == nil) or a full definition.
type FuncDecl struct {
	ReturnType TypeSpec
	Name       string
	Params     []*Param
	Variadic   bool
	Body       *Block // nil for a prototype-only declaration
	Start      token.Pos
	End        token.Pos

	// Function is filled in by the code generator: the backend callable
	// value, so later calls to this function can be resolved without a
	// second lookup.
	Function any
}

func (n *FuncDecl) Format(f fmt.State, verb rune) {
	kind := "func decl"
	if n.Body != nil {
		kind = "func def"
	}
	format(f, verb, n, kind+" "+n.Name, map[string]int{"params": len(n.Params)})
}
func (n *FuncDecl) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *FuncDecl) Walk(v Visitor) {
	Walk(v, n.ReturnType)
	for _, p := range n.Params {
		Walk(v, p)
	}
	if n.Body != nil {
		Walk(v, n.Body)
	}
}
func (n *FuncDecl) decl() {}

// GlobalDecl is a top-level (non-function) declaration: "int x;" or
// "int x = 1, y;" at file scope.
type GlobalDecl struct {
	Type       TypeSpec
	First      *Declarator
	Start, End token.Pos
}

func (n *GlobalDecl) Format(f fmt.State, verb rune) {
	count := 0
	for d := n.First; d != nil; d = d.Next {
		count++
	}
	format(f, verb, n, "global decl", map[string]int{"declarators": count})
}
func (n *GlobalDecl) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *GlobalDecl) Walk(v Visitor) {
	Walk(v, n.Type)
	for d := n.First; d != nil; d = d.Next {
		Walk(v, d)
	}
}
func (n *GlobalDecl) decl() {}

// StructDecl is a top-level struct definition or forward declaration
// standing alone as an external declaration (e.g. "struct Point { ... };").
type StructDecl struct {
	Spec       *StructSpecifier
	Start, End token.Pos
}

func (n *StructDecl) Format(f fmt.State, verb rune) { format(f, verb, n, "struct decl", nil) }
func (n *StructDecl) Span() (start, end token.Pos)  { return n.Start, n.End }
func (n *StructDecl) Walk(v Visitor)                { Walk(v, n.Spec) }
func (n *StructDecl) decl()                         {}
