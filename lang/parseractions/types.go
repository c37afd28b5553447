package parseractions

import (
	"github.com/fatbrother/toyc-go/lang/ast"
	"github.com/fatbrother/toyc-go/lang/token"
	"github.com/fatbrother/toyc-go/lang/types"
)

func (b *Builder) PrimitiveType(pos token.Pos, kind types.PrimKind) ast.TypeSpec {
	return &ast.PrimitiveTypeSpec{Pos: pos, Kind: kind}
}

func (b *Builder) PointerType(base ast.TypeSpec, star token.Pos, level int) ast.TypeSpec {
	return &ast.PointerTypeSpec{Base: base, Star: star, Level: level}
}

func (b *Builder) StructSpecifier(pos token.Pos, name string, members []*ast.FieldDecl, end token.Pos) *ast.StructSpecifier {
	return &ast.StructSpecifier{StructPos: pos, Name: name, Members: members, End: end}
}

func (b *Builder) StructReference(pos token.Pos, name string, end token.Pos) ast.TypeSpec {
	return &ast.StructReference{StructPos: pos, Name: name, End: end}
}

func (b *Builder) Field(typ ast.TypeSpec, name string, pos token.Pos) *ast.FieldDecl {
	return &ast.FieldDecl{Type: typ, Name: name, Pos: pos}
}
