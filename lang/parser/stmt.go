package parser

import (
	"github.com/fatbrother/toyc-go/lang/ast"
	"github.com/fatbrother/toyc-go/lang/token"
)

// parseBlock parses a brace-delimited statement list, enforcing that a
// block-ending statement (return/break/continue/goto) is only legal as
// the block's last one, or, in a switch body, the last one before the
// next case/default label: further statements after it are reported once
// (endingReported) and then parsed through anyway, so one mistake doesn't
// cascade into a diagnostic per remaining line.
func (p *parser) parseBlock() *ast.Block {
	lbrace := p.expect(token.LBRACE)
	var stmts []ast.Stmt
	var ending ast.Stmt
	endingReported := false
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		start := p.val.Pos
		s := p.parseBlockStmt()
		if s == nil {
			continue
		}
		switch s.(type) {
		case *ast.CaseStmt, *ast.DefaultStmt:
			ending = nil // a switch label is reachable through the jump table
		}
		if ending != nil && !endingReported {
			p.error(start, "statement is unreachable")
			endingReported = true
		}
		stmts = append(stmts, s)
		if s.BlockEnding() {
			ending = s
		}
	}
	rbrace := p.expect(token.RBRACE)
	return p.actions.CompoundStatement(lbrace, stmts, rbrace)
}

// parseBlockStmt parses one statement inside a block, recovering from a
// syntax error by resyncing to the next statement boundary instead of
// failing the whole block. A bare ";" is skipped rather than turned into
// a node, since it carries no meaning in a list nothing else observes.
func (p *parser) parseBlockStmt() (s ast.Stmt) {
	if p.at(token.SEMI) {
		p.advance()
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			if r != errPanicMode {
				panic(r)
			}
			s = nil
			p.syncToStmtBoundary()
		}
	}()
	return p.parseStmt()
}

// syncToStmtBoundary skips tokens until the statement-terminating ";" (or
// the block's closing "}") so the next call to parseBlockStmt starts
// clean.
func (p *parser) syncToStmtBoundary() {
	for !p.at(token.EOF) && !p.at(token.RBRACE) {
		if p.at(token.SEMI) {
			p.advance()
			return
		}
		p.advance()
	}
}

// parseStmt parses exactly one statement and never returns nil; a bare
// ";" here (the body of "for (;;);" or a label with nothing else to
// label) becomes an EmptyStatement rather than being skipped, since the
// caller's AST field (If.Then, While.Body, ...) is not optional.
func (p *parser) parseStmt() ast.Stmt {
	switch {
	case p.at(token.SEMI):
		pos := p.val.Pos
		p.advance()
		return p.actions.EmptyStatement(pos)
	case p.at(token.LBRACE):
		return p.parseBlock()
	case p.at(token.IF):
		return p.parseIf()
	case p.at(token.WHILE):
		return p.parseWhile()
	case p.at(token.DO):
		return p.parseDoWhile()
	case p.at(token.FOR):
		return p.parseFor()
	case p.at(token.SWITCH):
		return p.parseSwitch()
	case p.at(token.CASE):
		return p.parseCase()
	case p.at(token.DEFAULT):
		return p.parseDefault()
	case p.at(token.BREAK):
		pos := p.expect(token.BREAK)
		p.expect(token.SEMI)
		return p.actions.Break(pos)
	case p.at(token.CONTINUE):
		pos := p.expect(token.CONTINUE)
		p.expect(token.SEMI)
		return p.actions.Continue(pos)
	case p.at(token.GOTO):
		pos := p.expect(token.GOTO)
		name, _ := p.expectIdent()
		end := p.expect(token.SEMI)
		return p.actions.Goto(pos, name, end)
	case p.at(token.RETURN):
		pos := p.expect(token.RETURN)
		var x ast.Expr
		if !p.at(token.SEMI) {
			x = p.parseExpr()
		}
		end := p.expect(token.SEMI)
		return p.actions.Return(pos, x, end)
	case p.at(token.IDENT) && p.peek() == token.COLON:
		name, pos := p.expectIdent()
		p.expect(token.COLON)
		target := p.parseStmt()
		return p.actions.Label(pos, name, target)
	case isTypeStart(p.tok):
		return p.parseDeclStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *parser) parseExprStmt() ast.Stmt {
	start := p.val.Pos
	x := p.parseExpr()
	end := p.expect(token.SEMI)
	return p.actions.ExpressionStatement(x, start, end)
}

func (p *parser) parseIf() ast.Stmt {
	pos := p.expect(token.IF)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	then := p.parseStmt()
	var els ast.Stmt
	end := stmtEnd(then)
	if p.at(token.ELSE) {
		p.advance()
		els = p.parseStmt()
		end = stmtEnd(els)
	}
	return p.actions.If(pos, cond, then, els, end)
}

func (p *parser) parseWhile() ast.Stmt {
	pos := p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseStmt()
	return p.actions.While(pos, cond, body, stmtEnd(body))
}

func (p *parser) parseDoWhile() ast.Stmt {
	pos := p.expect(token.DO)
	body := p.parseStmt()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	end := p.expect(token.SEMI)
	return p.actions.DoWhile(pos, body, cond, end)
}

func (p *parser) parseFor() ast.Stmt {
	pos := p.expect(token.FOR)
	p.expect(token.LPAREN)

	var init ast.Stmt
	switch {
	case p.at(token.SEMI):
		p.advance()
	case isTypeStart(p.tok):
		init = p.parseDeclStmt() // consumes its own trailing ";"
	default:
		start := p.val.Pos
		x := p.parseExpr()
		end := p.expect(token.SEMI)
		init = p.actions.ExpressionStatement(x, start, end)
	}

	var cond ast.Expr
	if !p.at(token.SEMI) {
		cond = p.parseExpr()
	}
	p.expect(token.SEMI)

	var post ast.Stmt
	if !p.at(token.RPAREN) {
		start := p.val.Pos
		x := p.parseExpr()
		_, end := x.Span()
		post = p.actions.ExpressionStatement(x, start, end)
	}
	p.expect(token.RPAREN)

	body := p.parseStmt()
	return p.actions.For(pos, init, cond, post, body, stmtEnd(body))
}

func (p *parser) parseSwitch() ast.Stmt {
	pos := p.expect(token.SWITCH)
	p.expect(token.LPAREN)
	tag := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseBlock()
	_, end := body.Span()
	return p.actions.Switch(pos, tag, body, end)
}

// parseCase parses the "case Value:" label found inside a switch's body,
// which is just another statement in the enclosing Block's Stmts
// (§4.3.2's switch lowering scans the block for Case/Default children
// rather than this parser nesting the statements that follow under
// them).
func (p *parser) parseCase() ast.Stmt {
	pos := p.expect(token.CASE)
	value := p.parseConditional() // must be a constant expression, no assignment or comma
	colon := p.expect(token.COLON)
	return p.actions.Case(pos, value, colon)
}

func (p *parser) parseDefault() ast.Stmt {
	pos := p.expect(token.DEFAULT)
	colon := p.expect(token.COLON)
	return p.actions.Default(pos, colon)
}
