package ast

import (
	"fmt"

	"github.com/fatbrother/toyc-go/lang/token"
	"github.com/fatbrother/toyc-go/lang/types"
)

// TypeSpec is the syntactic description of a type as written by the
// programmer (a primitive keyword, a pointer chain, a struct tag). It is
// distinct from types.Idx: the parser builds a TypeSpec tree, and the code
// generator (via the type table) resolves it to a single TypeIdx the first
// time it is needed. Resolved is cached there so repeated resolution of
// the same node is free and idempotent.
type TypeSpec interface {
	Node
	typeSpec()
}

type (
	// PrimitiveTypeSpec names a builtin primitive kind, e.g. "int" or
	// "double".
	PrimitiveTypeSpec struct {
		Pos      token.Pos
		Kind     types.PrimKind
		Resolved types.Idx
	}

	// PointerTypeSpec represents "Base *…*" with Level stars.
	PointerTypeSpec struct {
		Base     TypeSpec
		Star     token.Pos
		Level    int
		Resolved types.Idx
	}

	// StructSpecifier represents a struct definition or forward
	// declaration: "struct Name { members... }" or "struct Name;".
	// Members is nil for a forward declaration.
	StructSpecifier struct {
		StructPos token.Pos
		Name      string
		Members   []*FieldDecl
		End       token.Pos
		Resolved  types.Idx
	}

	// StructReference represents a bare "struct Name" use where the
	// definition is (or will be) elsewhere.
	StructReference struct {
		StructPos token.Pos
		Name      string
		End       token.Pos
		Resolved  types.Idx
	}

	// FieldDecl is one member of a StructSpecifier's body.
	FieldDecl struct {
		Type TypeSpec
		Name string
		Pos  token.Pos
	}
)

func (n *PrimitiveTypeSpec) Format(f fmt.State, verb rune) { format(f, verb, n, n.Kind.String(), nil) }
func (n *PrimitiveTypeSpec) Span() (start, end token.Pos) {
	return n.Pos, n.Pos + token.Pos(len(n.Kind.String()))
}
func (n *PrimitiveTypeSpec) Walk(v Visitor) {}
func (n *PrimitiveTypeSpec) typeSpec()      {}

func (n *PointerTypeSpec) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("pointer level=%d", n.Level), nil)
}
func (n *PointerTypeSpec) Span() (start, end token.Pos) {
	start, _ = n.Base.Span()
	return start, n.Star + token.Pos(n.Level)
}
func (n *PointerTypeSpec) Walk(v Visitor) { Walk(v, n.Base) }
func (n *PointerTypeSpec) typeSpec()       {}

func (n *StructSpecifier) Format(f fmt.State, verb rune) {
	format(f, verb, n, "struct "+n.Name, map[string]int{"members": len(n.Members)})
}
func (n *StructSpecifier) Span() (start, end token.Pos) { return n.StructPos, n.End }
func (n *StructSpecifier) Walk(v Visitor) {
	for _, m := range n.Members {
		Walk(v, m)
	}
}
func (n *StructSpecifier) typeSpec() {}

func (n *StructReference) Format(f fmt.State, verb rune) {
	format(f, verb, n, "struct ref "+n.Name, nil)
}
func (n *StructReference) Span() (start, end token.Pos) { return n.StructPos, n.End }
func (n *StructReference) Walk(v Visitor)               {}
func (n *StructReference) typeSpec()                    {}

func (n *FieldDecl) Format(f fmt.State, verb rune) { format(f, verb, n, "field "+n.Name, nil) }
func (n *FieldDecl) Span() (start, end token.Pos) {
	start, _ = n.Type.Span()
	return start, n.Pos + token.Pos(len(n.Name))
}
func (n *FieldDecl) Walk(v Visitor) { Walk(v, n.Type) }
