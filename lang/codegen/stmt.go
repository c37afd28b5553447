package codegen

import (
	"tinygo.org/x/go-llvm"

	"github.com/fatbrother/toyc-go/lang/ast"
	"github.com/fatbrother/toyc-go/lang/symbols"
	"github.com/fatbrother/toyc-go/lang/types"
)

// Stmt lowers one statement (§4.3.2). It returns an error for the first
// diagnostic encountered; the caller (a block, or a control-flow statement
// lowering its own sub-statements) stops at that point rather than trying
// to recover and keep generating code for a body already known to be
// invalid.
func (c *Context) Stmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.ExprStmt:
		if n.X == nil {
			return nil // empty statement ";"
		}
		_, err := c.Expr(n.X)
		return err
	case *ast.DeclStmt:
		return c.declStmt(n)
	case *ast.ReturnStmt:
		return c.returnStmt(n)
	case *ast.IfStmt:
		return c.ifStmt(n)
	case *ast.WhileStmt:
		return c.whileStmt(n)
	case *ast.DoWhileStmt:
		return c.doWhileStmt(n)
	case *ast.ForStmt:
		return c.forStmt(n)
	case *ast.BreakStmt:
		return c.breakStmt(n)
	case *ast.ContinueStmt:
		return c.continueStmt(n)
	case *ast.LabelStmt:
		return c.labelStmt(n)
	case *ast.GotoStmt:
		return c.gotoStmt(n)
	case *ast.SwitchStmt:
		return c.switchStmt(n)
	case *ast.Block:
		return c.lowerBlock(n)
	case *ast.CaseStmt, *ast.DefaultStmt:
		return c.errorf(0, "case/default label outside of a switch body")
	}
	return c.errorf(0, "codegen: unsupported statement %T", s)
}

// lowerBlock pushes a fresh lexical scope, lowers every statement in
// source order, and pops the scope again (§3.4).
func (c *Context) lowerBlock(n *ast.Block) error {
	c.Scopes.Push()
	defer c.Scopes.Pop()
	for _, s := range n.Stmts {
		if err := c.Stmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) returnStmt(n *ast.ReturnStmt) error {
	if n.X == nil {
		if c.fnReturn != c.Types.Primitive(types.Void) {
			return c.errorf(n.Return, "non-void function must return a value")
		}
		c.Builder.CreateRetVoid()
		return nil
	}
	v, err := c.Expr(n.X)
	if err != nil {
		return err
	}
	casted, err := c.cast(v.Value, v.Type, c.fnReturn, n.Return)
	if err != nil {
		return err
	}
	c.Builder.CreateRet(casted)
	return nil
}

func (c *Context) ifStmt(n *ast.IfStmt) error {
	cond, err := c.Expr(n.Cond)
	if err != nil {
		return err
	}
	bit := c.castToBool(cond.Value, cond.Type)

	thenBlock := c.newBlock("")
	joinBlock := c.newBlock("")
	var elseBlock llvm.BasicBlock
	if n.Else != nil {
		elseBlock = c.newBlock("")
		c.Builder.CreateCondBr(bit, thenBlock, elseBlock)
	} else {
		c.Builder.CreateCondBr(bit, thenBlock, joinBlock)
	}

	c.Builder.SetInsertPointAtEnd(thenBlock)
	if err := c.Stmt(n.Then); err != nil {
		return err
	}
	if !blockTerminated(c.block()) {
		c.Builder.CreateBr(joinBlock)
	}

	if n.Else != nil {
		c.Builder.SetInsertPointAtEnd(elseBlock)
		if err := c.Stmt(n.Else); err != nil {
			return err
		}
		if !blockTerminated(c.block()) {
			c.Builder.CreateBr(joinBlock)
		}
	}

	c.Builder.SetInsertPointAtEnd(joinBlock)
	return nil
}

func (c *Context) whileStmt(n *ast.WhileStmt) error {
	condBlock := c.newBlock("")
	bodyBlock := c.newBlock("")
	afterBlock := c.newBlock("")

	c.Builder.CreateBr(condBlock)
	c.Builder.SetInsertPointAtEnd(condBlock)
	cond, err := c.Expr(n.Cond)
	if err != nil {
		return err
	}
	bit := c.castToBool(cond.Value, cond.Type)
	c.Builder.CreateCondBr(bit, bodyBlock, afterBlock)

	c.Builder.SetInsertPointAtEnd(bodyBlock)
	c.Jumps.Push(symbols.JumpContext{Break: afterBlock, Continue: condBlock, CanContinue: true})
	err = c.Stmt(n.Body)
	c.Jumps.Pop()
	if err != nil {
		return err
	}
	if !blockTerminated(c.block()) {
		c.Builder.CreateBr(condBlock)
	}

	c.Builder.SetInsertPointAtEnd(afterBlock)
	return nil
}

func (c *Context) doWhileStmt(n *ast.DoWhileStmt) error {
	bodyBlock := c.newBlock("")
	condBlock := c.newBlock("")
	afterBlock := c.newBlock("")

	c.Builder.CreateBr(bodyBlock)
	c.Builder.SetInsertPointAtEnd(bodyBlock)
	c.Jumps.Push(symbols.JumpContext{Break: afterBlock, Continue: condBlock, CanContinue: true})
	err := c.Stmt(n.Body)
	c.Jumps.Pop()
	if err != nil {
		return err
	}
	if !blockTerminated(c.block()) {
		c.Builder.CreateBr(condBlock)
	}

	c.Builder.SetInsertPointAtEnd(condBlock)
	cond, err := c.Expr(n.Cond)
	if err != nil {
		return err
	}
	bit := c.castToBool(cond.Value, cond.Type)
	c.Builder.CreateCondBr(bit, bodyBlock, afterBlock)

	c.Builder.SetInsertPointAtEnd(afterBlock)
	return nil
}

// forStmt lowers the C-style three-clause for loop; Init gets its own scope
// so a declaration there ("for (int i = 0; ...)") is only visible to the
// loop, matching C block scoping.
func (c *Context) forStmt(n *ast.ForStmt) error {
	c.Scopes.Push()
	defer c.Scopes.Pop()

	if n.Init != nil {
		if err := c.Stmt(n.Init); err != nil {
			return err
		}
	}

	condBlock := c.newBlock("")
	bodyBlock := c.newBlock("")
	postBlock := c.newBlock("")
	afterBlock := c.newBlock("")

	c.Builder.CreateBr(condBlock)
	c.Builder.SetInsertPointAtEnd(condBlock)
	if n.Cond != nil {
		cond, err := c.Expr(n.Cond)
		if err != nil {
			return err
		}
		bit := c.castToBool(cond.Value, cond.Type)
		c.Builder.CreateCondBr(bit, bodyBlock, afterBlock)
	} else {
		c.Builder.CreateBr(bodyBlock)
	}

	c.Builder.SetInsertPointAtEnd(bodyBlock)
	c.Jumps.Push(symbols.JumpContext{Break: afterBlock, Continue: postBlock, CanContinue: true})
	err := c.Stmt(n.Body)
	c.Jumps.Pop()
	if err != nil {
		return err
	}
	if !blockTerminated(c.block()) {
		c.Builder.CreateBr(postBlock)
	}

	c.Builder.SetInsertPointAtEnd(postBlock)
	if n.Post != nil {
		if err := c.Stmt(n.Post); err != nil {
			return err
		}
	}
	c.Builder.CreateBr(condBlock)

	c.Builder.SetInsertPointAtEnd(afterBlock)
	return nil
}

func (c *Context) breakStmt(n *ast.BreakStmt) error {
	bb, err := c.Jumps.Break()
	if err != nil {
		return c.errorf(n.Pos, "%s", err)
	}
	c.Builder.CreateBr(bb)
	return nil
}

func (c *Context) continueStmt(n *ast.ContinueStmt) error {
	bb, err := c.Jumps.Continue()
	if err != nil {
		return c.errorf(n.Pos, "%s", err)
	}
	c.Builder.CreateBr(bb)
	return nil
}

func (c *Context) labelStmt(n *ast.LabelStmt) error {
	block := c.Labels.Define(n.Name, func() llvm.BasicBlock { return c.newBlock(n.Name) })
	if !blockTerminated(c.block()) {
		c.Builder.CreateBr(block)
	}
	c.Builder.SetInsertPointAtEnd(block)
	return c.Stmt(n.Stmt)
}

func (c *Context) gotoStmt(n *ast.GotoStmt) error {
	block := c.Labels.Goto(n.Name, n.Goto, func() llvm.BasicBlock { return c.newBlock(n.Name) })
	c.Builder.CreateBr(block)
	return nil
}

// switchStmt implements §3.3/§4.3.2's fall-through switch: every case and
// default label becomes its own basic block, found at emission by a first
// pass over the body before any statement is lowered (the LLVM switch
// instruction needs every destination up front), and the body is then
// walked in source order, branching from one label's block into the next
// whenever control falls off the end without an explicit break.
func (c *Context) switchStmt(n *ast.SwitchStmt) error {
	tag, err := c.Expr(n.Tag)
	if err != nil {
		return err
	}

	type caseEntry struct {
		value int64
		block llvm.BasicBlock
	}
	var cases []caseEntry
	var defaultBlock llvm.BasicBlock
	hasDefault := false
	seen := map[int64]bool{}

	for _, s := range n.Body.Stmts {
		switch cs := s.(type) {
		case *ast.CaseStmt:
			v, ok := constInt(cs.Value)
			if !ok {
				return c.errorf(cs.Case, "case label is not an integer constant expression")
			}
			if seen[v] {
				return c.errorf(cs.Case, "duplicate case value %d", v)
			}
			seen[v] = true
			cases = append(cases, caseEntry{value: v, block: c.newBlock("")})
		case *ast.DefaultStmt:
			if hasDefault {
				return c.errorf(cs.Default, "multiple default labels in one switch")
			}
			hasDefault = true
			defaultBlock = c.newBlock("")
		}
	}

	afterBlock := c.newBlock("")
	deadBlock := c.newBlock("")

	dest := afterBlock
	if hasDefault {
		dest = defaultBlock
	}
	tagBT := c.Types.Realize(tag.Type)
	sw := c.Builder.CreateSwitch(tag.Value, dest, len(cases))
	for _, ce := range cases {
		sw.AddCase(llvm.ConstInt(tagBT, uint64(ce.value), true), ce.block)
	}

	c.Builder.SetInsertPointAtEnd(deadBlock)
	c.Jumps.Push(symbols.JumpContext{Break: afterBlock, CanContinue: false})

	caseIdx := 0
	for _, s := range n.Body.Stmts {
		switch cs := s.(type) {
		case *ast.CaseStmt:
			_ = cs
			block := cases[caseIdx].block
			caseIdx++
			if !blockTerminated(c.block()) {
				c.Builder.CreateBr(block)
			}
			c.Builder.SetInsertPointAtEnd(block)
			continue
		case *ast.DefaultStmt:
			if !blockTerminated(c.block()) {
				c.Builder.CreateBr(defaultBlock)
			}
			c.Builder.SetInsertPointAtEnd(defaultBlock)
			continue
		}
		if err := c.Stmt(s); err != nil {
			c.Jumps.Pop()
			return err
		}
	}
	if !blockTerminated(c.block()) {
		c.Builder.CreateBr(afterBlock)
	}
	c.Jumps.Pop()

	c.Builder.SetInsertPointAtEnd(afterBlock)
	return nil
}

// blockTerminated reports whether bb's last instruction is already a
// terminator, so callers know whether an explicit fall-through branch is
// still needed (every path through an if/loop/switch body may already have
// returned, broken, or jumped away).
func blockTerminated(bb llvm.BasicBlock) bool {
	last := bb.LastInstruction()
	if last.IsNil() {
		return false
	}
	return !last.IsATerminatorInst().IsNil()
}
