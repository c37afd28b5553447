package parseractions

import (
	"github.com/fatbrother/toyc-go/lang/ast"
	"github.com/fatbrother/toyc-go/lang/token"
)

func (b *Builder) FunctionDefinition(pos token.Pos, returnType ast.TypeSpec, name string, params []*ast.Param, variadic bool, body *ast.Block, end token.Pos) ast.Decl {
	return &ast.FuncDecl{
		ReturnType: returnType,
		Name:       name,
		Params:     params,
		Variadic:   variadic,
		Body:       body,
		Start:      pos,
		End:        end,
	}
}

func (b *Builder) FunctionDeclaration(pos token.Pos, returnType ast.TypeSpec, name string, params []*ast.Param, variadic bool, end token.Pos) ast.Decl {
	return &ast.FuncDecl{
		ReturnType: returnType,
		Name:       name,
		Params:     params,
		Variadic:   variadic,
		Body:       nil,
		Start:      pos,
		End:        end,
	}
}

func (b *Builder) GlobalDeclaration(pos token.Pos, typ ast.TypeSpec, first *ast.Declarator, end token.Pos) ast.Decl {
	return &ast.GlobalDecl{Type: typ, First: first, Start: pos, End: end}
}

func (b *Builder) StructDeclaration(pos token.Pos, spec *ast.StructSpecifier, end token.Pos) ast.Decl {
	return &ast.StructDecl{Spec: spec, Start: pos, End: end}
}

func (b *Builder) Chunk(name string, decls []ast.Decl, eof token.Pos) *ast.Chunk {
	return &ast.Chunk{Name: name, Decls: decls, EOF: eof}
}

func (b *Builder) Parameter(typ ast.TypeSpec, decl *ast.Declarator) *ast.Param {
	return &ast.Param{Type: typ, Declarator: decl}
}

// VariadicParameter returns the sentinel parameter representing the
// "..." trailing a function's fixed parameter list. Its Declarator is
// nil, same as an abstract (unnamed) parameter, but callers distinguish
// it by checking FuncDecl.Variadic rather than by inspecting this node,
// since a variadic marker carries no type of its own.
func (b *Builder) VariadicParameter() *ast.Param {
	return &ast.Param{Type: nil, Declarator: nil}
}
