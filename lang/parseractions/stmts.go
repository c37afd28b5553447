package parseractions

import (
	"github.com/fatbrother/toyc-go/lang/ast"
	"github.com/fatbrother/toyc-go/lang/token"
)

func (b *Builder) CompoundStatement(lbrace token.Pos, stmts []ast.Stmt, rbrace token.Pos) *ast.Block {
	return &ast.Block{Lbrace: lbrace, Stmts: stmts, Rbrace: rbrace}
}

func (b *Builder) If(pos token.Pos, cond ast.Expr, then, els ast.Stmt, end token.Pos) ast.Stmt {
	return &ast.IfStmt{If: pos, Cond: cond, Then: then, Else: els, Start: pos, End: end}
}

func (b *Builder) For(pos token.Pos, init ast.Stmt, cond ast.Expr, post ast.Stmt, body ast.Stmt, end token.Pos) ast.Stmt {
	return &ast.ForStmt{For: pos, Init: init, Cond: cond, Post: post, Body: body, Start: pos, End: end}
}

func (b *Builder) While(pos token.Pos, cond ast.Expr, body ast.Stmt, end token.Pos) ast.Stmt {
	return &ast.WhileStmt{While: pos, Cond: cond, Body: body, Start: pos, End: end}
}

func (b *Builder) DoWhile(pos token.Pos, body ast.Stmt, cond ast.Expr, end token.Pos) ast.Stmt {
	return &ast.DoWhileStmt{Do: pos, Body: body, Cond: cond, Start: pos, End: end}
}

func (b *Builder) Switch(pos token.Pos, cond ast.Expr, body *ast.Block, end token.Pos) ast.Stmt {
	return &ast.SwitchStmt{Switch: pos, Tag: cond, Body: body, Start: pos, End: end}
}

func (b *Builder) Case(pos token.Pos, value ast.Expr, colon token.Pos) ast.Stmt {
	return &ast.CaseStmt{Case: pos, Value: value, Colon: colon}
}

func (b *Builder) Default(pos token.Pos, colon token.Pos) ast.Stmt {
	return &ast.DefaultStmt{Default: pos, Colon: colon}
}

func (b *Builder) Label(pos token.Pos, name string, stmt ast.Stmt) ast.Stmt {
	return &ast.LabelStmt{Name: name, Pos: pos, Stmt: stmt}
}

func (b *Builder) Goto(pos token.Pos, name string, end token.Pos) ast.Stmt {
	return &ast.GotoStmt{Goto: pos, Name: name, End: end}
}

func (b *Builder) Return(pos token.Pos, expr ast.Expr, end token.Pos) ast.Stmt {
	return &ast.ReturnStmt{Return: pos, X: expr, End: end}
}

func (b *Builder) Break(pos token.Pos) ast.Stmt { return &ast.BreakStmt{Pos: pos} }

func (b *Builder) Continue(pos token.Pos) ast.Stmt { return &ast.ContinueStmt{Pos: pos} }

func (b *Builder) DeclarationStatement(pos token.Pos, typ ast.TypeSpec, first *ast.Declarator, end token.Pos) ast.Stmt {
	return &ast.DeclStmt{Type: typ, First: first, Start: pos, End: end}
}

func (b *Builder) ExpressionStatement(expr ast.Expr, start, end token.Pos) ast.Stmt {
	return &ast.ExprStmt{X: expr, Start: start, End: end}
}

// EmptyStatement handles a bare ";" - an expression statement with no
// expression, legal in C as a no-op (the body of "for (;;);" or a label
// with nothing to label but a terminator).
func (b *Builder) EmptyStatement(pos token.Pos) ast.Stmt {
	return &ast.ExprStmt{X: nil, Start: pos, End: pos + 1}
}
