// Package parseractions implements the narrow factory surface an external
// parser calls into to assemble ToyC's AST (§6.2): each method takes
// already-constructed child nodes and returns the parent node, with the
// parser supplying source position for every node. Treating parsing as a
// boundary this package sits behind keeps the grammar (whatever drives
// these calls - a hand-written recursive-descent parser, a generated
// LALR parser, anything) decoupled from how the tree gets built and from
// the type table it interns against.
package parseractions

import (
	"github.com/fatbrother/toyc-go/lang/ast"
	"github.com/fatbrother/toyc-go/lang/errs"
	"github.com/fatbrother/toyc-go/lang/token"
	"github.com/fatbrother/toyc-go/lang/types"
)

// Actions is the factory surface a parser drives. Every method name
// matches a construct from the grammar rather than an implementation
// detail of any one parsing technology (no handleXxxList accumulators:
// the parser itself collects children into a slice and passes the
// finished slice, which is the idiomatic Go shape for what a
// shift-reduce grammar would otherwise build through right-recursion).
type Actions interface {
	// Top level

	FunctionDefinition(pos token.Pos, returnType ast.TypeSpec, name string, params []*ast.Param, variadic bool, body *ast.Block, end token.Pos) ast.Decl
	FunctionDeclaration(pos token.Pos, returnType ast.TypeSpec, name string, params []*ast.Param, variadic bool, end token.Pos) ast.Decl
	GlobalDeclaration(pos token.Pos, typ ast.TypeSpec, first *ast.Declarator, end token.Pos) ast.Decl
	StructDeclaration(pos token.Pos, spec *ast.StructSpecifier, end token.Pos) ast.Decl
	Chunk(name string, decls []ast.Decl, eof token.Pos) *ast.Chunk

	// Parameters

	Parameter(typ ast.TypeSpec, decl *ast.Declarator) *ast.Param
	VariadicParameter() *ast.Param

	// Statements

	CompoundStatement(lbrace token.Pos, stmts []ast.Stmt, rbrace token.Pos) *ast.Block
	If(pos token.Pos, cond ast.Expr, then, els ast.Stmt, end token.Pos) ast.Stmt
	For(pos token.Pos, init ast.Stmt, cond ast.Expr, post ast.Stmt, body ast.Stmt, end token.Pos) ast.Stmt
	While(pos token.Pos, cond ast.Expr, body ast.Stmt, end token.Pos) ast.Stmt
	DoWhile(pos token.Pos, body ast.Stmt, cond ast.Expr, end token.Pos) ast.Stmt
	Switch(pos token.Pos, cond ast.Expr, body *ast.Block, end token.Pos) ast.Stmt
	Case(pos token.Pos, value ast.Expr, colon token.Pos) ast.Stmt
	Default(pos token.Pos, colon token.Pos) ast.Stmt
	Label(pos token.Pos, name string, stmt ast.Stmt) ast.Stmt
	Goto(pos token.Pos, name string, end token.Pos) ast.Stmt
	Return(pos token.Pos, expr ast.Expr, end token.Pos) ast.Stmt
	Break(pos token.Pos) ast.Stmt
	Continue(pos token.Pos) ast.Stmt
	DeclarationStatement(pos token.Pos, typ ast.TypeSpec, first *ast.Declarator, end token.Pos) ast.Stmt
	ExpressionStatement(expr ast.Expr, start, end token.Pos) ast.Stmt
	EmptyStatement(pos token.Pos) ast.Stmt

	// Declarators

	Declarator(pos token.Pos, name string, pointerLevel int) *ast.Declarator
	ArrayDeclarator(decl *ast.Declarator, dim ast.Expr) *ast.Declarator
	InitDeclarator(decl *ast.Declarator, init ast.Expr) *ast.Declarator

	// Expressions

	Binary(op token.Token, opPos token.Pos, l, r ast.Expr) ast.Expr
	Unary(op token.Token, opPos token.Pos, x ast.Expr) ast.Expr
	Logical(op token.Token, opPos token.Pos, l, r ast.Expr) ast.Expr
	Assignment(l ast.Expr, assign token.Pos, r ast.Expr) ast.Expr
	CompoundAssignment(l ast.Expr, op token.Token, opPos token.Pos, r ast.Expr) ast.Expr
	Conditional(cond, then, els ast.Expr, question, colon token.Pos) ast.Expr
	Comma(l ast.Expr, comma token.Pos, r ast.Expr) ast.Expr
	FunctionCall(name string, namePos token.Pos, args []ast.Expr, rparen token.Pos) ast.Expr
	ArrayAccess(base ast.Expr, lbrack token.Pos, index ast.Expr, rbrack token.Pos) ast.Expr
	MemberAccess(base ast.Expr, dot token.Pos, name string, isArrow bool) ast.Expr
	Cast(lparen token.Pos, typ ast.TypeSpec, x ast.Expr) ast.Expr
	SizeofType(pos token.Pos, typ ast.TypeSpec, rparen token.Pos) ast.Expr
	SizeofExpr(pos token.Pos, x ast.Expr) ast.Expr
	InitializerList(lbrace token.Pos, items []ast.Expr, rbrace token.Pos) ast.Expr

	// Primary expressions

	Identifier(pos token.Pos, name string) ast.Expr
	Integer(pos token.Pos, raw string) ast.Expr
	Float(pos token.Pos, raw string) ast.Expr
	String(pos token.Pos, raw string) ast.Expr
	CharConstant(pos token.Pos, raw string) ast.Expr

	// Type specifiers

	PrimitiveType(pos token.Pos, kind types.PrimKind) ast.TypeSpec
	PointerType(base ast.TypeSpec, star token.Pos, level int) ast.TypeSpec
	StructSpecifier(pos token.Pos, name string, members []*ast.FieldDecl, end token.Pos) *ast.StructSpecifier
	StructReference(pos token.Pos, name string, end token.Pos) ast.TypeSpec
	Field(typ ast.TypeSpec, name string, pos token.Pos) *ast.FieldDecl

	// Error reporting

	Error(pos token.Position, msg string)
	HasError() bool
}

// Builder is the concrete Actions implementation: a thin, mostly
// stateless factory that stamps out ast nodes and forwards diagnostics to
// an errs.List. It holds the type table only so Error can be called
// consistently with the rest of the compiler's diagnostic plumbing - it
// does not resolve TypeSpecs to types.Idx itself, that is the code
// generator's job (§4.2, §4.3).
type Builder struct {
	Types  *types.Table
	Files  *token.FileSet
	Errors *errs.List

	errorOccurred bool
}

// NewBuilder returns a Builder ready to back a parser. files resolves
// the token.Pos values every factory method receives into the
// file/line/column a diagnostic needs.
func NewBuilder(tab *types.Table, files *token.FileSet, errors *errs.List) *Builder {
	return &Builder{Types: tab, Files: files, Errors: errors}
}

// at resolves pos through the Builder's FileSet for diagnostic reporting.
func (b *Builder) at(pos token.Pos) token.Position {
	if b.Files == nil {
		return token.Position{}
	}
	return b.Files.Position(pos)
}

var _ Actions = (*Builder)(nil)
