package parseractions

import (
	"github.com/fatbrother/toyc-go/lang/ast"
	"github.com/fatbrother/toyc-go/lang/token"
)

func (b *Builder) Declarator(pos token.Pos, name string, pointerLevel int) *ast.Declarator {
	return &ast.Declarator{Pos: pos, Name: name, PointerLevel: pointerLevel}
}

// ArrayDeclarator appends one more array dimension to decl, in
// left-to-right source order, so "a[2][3]" ends up with ArrayDims ==
// [2, 3] after two calls rather than nested wrapper nodes.
func (b *Builder) ArrayDeclarator(decl *ast.Declarator, dim ast.Expr) *ast.Declarator {
	decl.ArrayDims = append(decl.ArrayDims, dim)
	return decl
}

func (b *Builder) InitDeclarator(decl *ast.Declarator, init ast.Expr) *ast.Declarator {
	decl.Init = init
	return decl
}

// Error records a diagnostic at pos and marks the builder's error flag,
// matching ParserActions::reportError/hasError: the parser checks
// HasError after each production it cannot otherwise recover from.
func (b *Builder) Error(pos token.Position, msg string) {
	b.errorOccurred = true
	if b.Errors != nil {
		b.Errors.Add(pos, msg)
	}
}

func (b *Builder) HasError() bool { return b.errorOccurred }
