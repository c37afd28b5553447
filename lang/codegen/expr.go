package codegen

import (
	"tinygo.org/x/go-llvm"

	"github.com/fatbrother/toyc-go/lang/ast"
	"github.com/fatbrother/toyc-go/lang/token"
	"github.com/fatbrother/toyc-go/lang/types"
)

// Expr lowers e for its r-value (§4.3's ExprResult).
func (c *Context) Expr(e ast.Expr) (ExprResult, error) {
	switch n := e.(type) {
	case *ast.IntegerExpr:
		return c.integerLiteral(n)
	case *ast.FloatExpr:
		return c.floatLiteral(n)
	case *ast.CharExpr:
		return c.charLiteral(n)
	case *ast.StringExpr:
		return c.stringLiteral(n)
	case *ast.IdentExpr:
		return c.identExpr(n)
	case *ast.BinaryExpr:
		return c.binaryExpr(n)
	case *ast.UnaryExpr:
		return c.unaryExpr(n)
	case *ast.LogicalExpr:
		return c.logicalExpr(n)
	case *ast.ConditionalExpr:
		return c.conditionalExpr(n)
	case *ast.AssignExpr:
		return c.assignExpr(n)
	case *ast.CompoundAssignExpr:
		return c.compoundAssignExpr(n)
	case *ast.CommaExpr:
		return c.commaExpr(n)
	case *ast.CallExpr:
		return c.callExpr(n)
	case *ast.MemberExpr:
		return c.memberExprValue(n)
	case *ast.IndexExpr:
		return c.indexExprValue(n)
	case *ast.CastExpr:
		return c.castExpr(n)
	case *ast.SizeofTypeExpr:
		return c.sizeofTypeExpr(n)
	case *ast.SizeofExprExpr:
		return c.sizeofExprExpr(n)
	}
	return ExprResult{}, c.errorf(0, "codegen: unsupported expression %T", e)
}

// Alloc lowers e for its l-value: the address to read from or store into
// (§4.3's AllocResult). It covers every assignable expression kind
// ast.IsAssignable recognizes.
func (c *Context) Alloc(e ast.Expr) (AllocResult, error) {
	switch n := e.(type) {
	case *ast.IdentExpr:
		b := c.Scopes.Lookup(n.Name)
		if b == nil {
			return AllocResult{}, c.errorf(n.Pos, "undeclared identifier %q", n.Name)
		}
		return AllocResult{Slot: b.Slot, Type: b.Type}, nil

	case *ast.UnaryExpr:
		if n.Op != token.STAR {
			return AllocResult{}, c.errorf(n.OpPos, "expression is not assignable")
		}
		res, err := c.Expr(n.X)
		if err != nil {
			return AllocResult{}, err
		}
		if !c.isPointer(res.Type) {
			return AllocResult{}, c.errorf(n.OpPos, "cannot dereference non-pointer type %s", c.Types.String(res.Type))
		}
		return AllocResult{Slot: res.Value, Type: c.Types.Pointee(res.Type)}, nil

	case *ast.IndexExpr:
		return c.indexAlloc(n)

	case *ast.MemberExpr:
		return c.memberAlloc(n)
	}
	return AllocResult{}, c.errorf(0, "expression is not assignable")
}

func (c *Context) integerLiteral(n *ast.IntegerExpr) (ExprResult, error) {
	if n.Type == types.Invalid {
		n.Type = c.Types.Primitive(types.Int)
	}
	v := llvm.ConstInt(c.Types.Realize(n.Type), uint64(n.Value), true)
	return ExprResult{Value: v, Type: n.Type}, nil
}

func (c *Context) floatLiteral(n *ast.FloatExpr) (ExprResult, error) {
	if n.Type == types.Invalid {
		n.Type = c.Types.Primitive(types.Double)
	}
	v := llvm.ConstFloat(c.Types.Realize(n.Type), n.Value)
	return ExprResult{Value: v, Type: n.Type}, nil
}

// charLiteral gives a character constant type int, matching C's own rule
// that 'a' has type int rather than char.
func (c *Context) charLiteral(n *ast.CharExpr) (ExprResult, error) {
	if n.Type == types.Invalid {
		n.Type = c.Types.Primitive(types.Int)
	}
	v := llvm.ConstInt(c.Types.Realize(n.Type), uint64(n.Value), true)
	return ExprResult{Value: v, Type: n.Type}, nil
}

func (c *Context) stringLiteral(n *ast.StringExpr) (ExprResult, error) {
	if n.Type == types.Invalid {
		n.Type = c.Types.Pointer(c.Types.Primitive(types.Char), 1)
	}
	g := c.Builder.CreateGlobalStringPtr(n.Value, c.nextStringName())
	return ExprResult{Value: g, Type: n.Type}, nil
}

func (c *Context) identExpr(n *ast.IdentExpr) (ExprResult, error) {
	alloc, err := c.Alloc(n)
	if err != nil {
		return ExprResult{}, err
	}
	v := c.Builder.CreateLoad(alloc.Slot, "")
	return ExprResult{Value: v, Type: alloc.Type}, nil
}

func (c *Context) binaryExpr(n *ast.BinaryExpr) (ExprResult, error) {
	l, err := c.Expr(n.Left)
	if err != nil {
		return ExprResult{}, err
	}
	r, err := c.Expr(n.Right)
	if err != nil {
		return ExprResult{}, err
	}
	return c.applyBinary(n.Op, n.OpPos, l, r)
}

// applyBinary implements §4.3.1's Binary operators (and is reused by
// compound assignment, whose "lhs OP rhs" half is identical once lhs has
// been loaded once).
func (c *Context) applyBinary(op token.Token, pos token.Pos, l, r ExprResult) (ExprResult, error) {
	if c.isPointer(l.Type) || c.isPointer(r.Type) {
		return c.pointerArith(op, pos, l, r)
	}

	common := c.Types.CommonType(l.Type, r.Type)
	lv, err := c.cast(l.Value, l.Type, common, pos)
	if err != nil {
		return ExprResult{}, err
	}
	rv, err := c.cast(r.Value, r.Type, common, pos)
	if err != nil {
		return ExprResult{}, err
	}
	floating := c.isFloating(common)

	if isComparison(op) {
		var bit llvm.Value
		if floating {
			bit = c.Builder.CreateFCmp(floatPredicate(op), lv, rv, "")
		} else {
			bit = c.Builder.CreateICmp(intPredicate(op), lv, rv, "")
		}
		v := c.Builder.CreateZExt(bit, c.llctx.Int32Type(), "")
		return ExprResult{Value: v, Type: c.Types.Primitive(types.Int)}, nil
	}

	if floating && isBitwiseOrShift(op) {
		return ExprResult{}, c.errorf(pos, "bitwise operator %s on floating operand", op.String())
	}

	var v llvm.Value
	switch op {
	case token.PLUS:
		if floating {
			v = c.Builder.CreateFAdd(lv, rv, "")
		} else {
			v = c.Builder.CreateAdd(lv, rv, "")
		}
	case token.MINUS:
		if floating {
			v = c.Builder.CreateFSub(lv, rv, "")
		} else {
			v = c.Builder.CreateSub(lv, rv, "")
		}
	case token.STAR:
		if floating {
			v = c.Builder.CreateFMul(lv, rv, "")
		} else {
			v = c.Builder.CreateMul(lv, rv, "")
		}
	case token.SLASH:
		if floating {
			v = c.Builder.CreateFDiv(lv, rv, "")
		} else {
			v = c.Builder.CreateSDiv(lv, rv, "")
		}
	case token.PERCENT:
		if floating {
			v = c.Builder.CreateFRem(lv, rv, "")
		} else {
			v = c.Builder.CreateSRem(lv, rv, "")
		}
	case token.AMPERSAND:
		v = c.Builder.CreateAnd(lv, rv, "")
	case token.PIPE:
		v = c.Builder.CreateOr(lv, rv, "")
	case token.CIRCUMFLEX:
		v = c.Builder.CreateXor(lv, rv, "")
	case token.LTLT:
		v = c.Builder.CreateShl(lv, rv, "")
	case token.GTGT:
		v = c.Builder.CreateAShr(lv, rv, "")
	default:
		return ExprResult{}, c.errorf(pos, "unsupported binary operator %s", op.String())
	}
	return ExprResult{Value: v, Type: common}, nil
}

func isComparison(op token.Token) bool {
	switch op {
	case token.LT, token.GT, token.LE, token.GE, token.EQEQ, token.NEQ:
		return true
	}
	return false
}

func isBitwiseOrShift(op token.Token) bool {
	switch op {
	case token.AMPERSAND, token.PIPE, token.CIRCUMFLEX, token.LTLT, token.GTGT:
		return true
	}
	return false
}

func intPredicate(op token.Token) llvm.IntPredicate {
	switch op {
	case token.LT:
		return llvm.IntSLT
	case token.GT:
		return llvm.IntSGT
	case token.LE:
		return llvm.IntSLE
	case token.GE:
		return llvm.IntSGE
	case token.EQEQ:
		return llvm.IntEQ
	case token.NEQ:
		return llvm.IntNE
	}
	panic("codegen: not a comparison operator")
}

func floatPredicate(op token.Token) llvm.FloatPredicate {
	switch op {
	case token.LT:
		return llvm.FloatOLT
	case token.GT:
		return llvm.FloatOGT
	case token.LE:
		return llvm.FloatOLE
	case token.GE:
		return llvm.FloatOGE
	case token.EQEQ:
		return llvm.FloatOEQ
	case token.NEQ:
		return llvm.FloatONE
	}
	panic("codegen: not a comparison operator")
}

// pointerArith implements §4.3.1's Pointer arithmetic: "p + n" and "p - n"
// scale n by the pointee's size (which LLVM's GEP already does natively for
// a typed pointer, so no explicit multiply is needed here); "p - q" yields
// the element difference.
func (c *Context) pointerArith(op token.Token, pos token.Pos, l, r ExprResult) (ExprResult, error) {
	switch op {
	case token.PLUS:
		if c.isPointer(l.Type) {
			return c.pointerOffset(l, r, pos, false)
		}
		return c.pointerOffset(r, l, pos, false)
	case token.MINUS:
		if c.isPointer(l.Type) && c.isPointer(r.Type) {
			return c.pointerDiff(l, r, pos)
		}
		return c.pointerOffset(l, r, pos, true)
	}
	return ExprResult{}, c.errorf(pos, "invalid operator %s on pointer operand", op.String())
}

func (c *Context) pointerOffset(ptr, idx ExprResult, pos token.Pos, negate bool) (ExprResult, error) {
	i, err := c.cast(idx.Value, idx.Type, c.Types.Primitive(types.Long), pos)
	if err != nil {
		return ExprResult{}, err
	}
	if negate {
		i = c.Builder.CreateSub(llvm.ConstInt(i.Type(), 0, true), i, "")
	}
	addr := c.Builder.CreateGEP(ptr.Value, []llvm.Value{i}, "")
	return ExprResult{Value: addr, Type: ptr.Type}, nil
}

func (c *Context) pointerDiff(l, r ExprResult, pos token.Pos) (ExprResult, error) {
	longT := c.Types.Primitive(types.Long)
	longBT := c.Types.Realize(longT)
	li := c.Builder.CreatePtrToInt(l.Value, longBT, "")
	ri := c.Builder.CreatePtrToInt(r.Value, longBT, "")
	diff := c.Builder.CreateSub(li, ri, "")
	elemSize := c.Types.ABISize(c.Types.Pointee(l.Type), c.DataLayout)
	if elemSize == 0 {
		elemSize = 1
	}
	sz := llvm.ConstInt(longBT, elemSize, false)
	v := c.Builder.CreateSDiv(diff, sz, "")
	return ExprResult{Value: v, Type: longT}, nil
}

func (c *Context) unaryExpr(n *ast.UnaryExpr) (ExprResult, error) {
	switch n.Op {
	case token.AMPERSAND:
		alloc, err := c.Alloc(n.X)
		if err != nil {
			return ExprResult{}, err
		}
		return ExprResult{Value: alloc.Slot, Type: c.Types.Pointer(alloc.Type, 1)}, nil

	case token.STAR:
		x, err := c.Expr(n.X)
		if err != nil {
			return ExprResult{}, err
		}
		if !c.isPointer(x.Type) {
			return ExprResult{}, c.errorf(n.OpPos, "cannot dereference non-pointer type %s", c.Types.String(x.Type))
		}
		v := c.Builder.CreateLoad(x.Value, "")
		return ExprResult{Value: v, Type: c.Types.Pointee(x.Type)}, nil

	case token.MINUS:
		x, err := c.Expr(n.X)
		if err != nil {
			return ExprResult{}, err
		}
		var v llvm.Value
		if c.isFloating(x.Type) {
			v = c.Builder.CreateFNeg(x.Value, "")
		} else {
			v = c.Builder.CreateNeg(x.Value, "")
		}
		return ExprResult{Value: v, Type: x.Type}, nil

	case token.PLUS:
		return c.Expr(n.X)

	case token.BANG:
		x, err := c.Expr(n.X)
		if err != nil {
			return ExprResult{}, err
		}
		bit := c.castToBool(x.Value, x.Type)
		notBit := c.Builder.CreateNot(bit, "")
		v := c.Builder.CreateZExt(notBit, c.llctx.Int32Type(), "")
		return ExprResult{Value: v, Type: c.Types.Primitive(types.Int)}, nil

	case token.TILDE:
		x, err := c.Expr(n.X)
		if err != nil {
			return ExprResult{}, err
		}
		v := c.Builder.CreateNot(x.Value, "")
		return ExprResult{Value: v, Type: x.Type}, nil
	}
	return ExprResult{}, c.errorf(n.OpPos, "unsupported unary operator %s", n.Op.String())
}

// logicalExpr implements §4.3.1's short-circuit && / ||: left operand,
// right-operand block and a join, with the result threaded across blocks
// through a stack slot rather than a phi (matching how this codebase's
// other cross-block value handoffs - parameters, assignment targets - are
// all alloca-backed). The right operand's block is only entered on the
// path where the left operand did not already decide the result (Scenario
// B).
func (c *Context) logicalExpr(n *ast.LogicalExpr) (ExprResult, error) {
	l, err := c.Expr(n.Left)
	if err != nil {
		return ExprResult{}, err
	}
	lBit := c.castToBool(l.Value, l.Type)

	resultBT := c.llctx.Int32Type()
	slot := c.entryAlloca(resultBT, "")
	shortValue := llvm.ConstInt(resultBT, 0, false)
	if n.Op == token.OROR {
		shortValue = llvm.ConstInt(resultBT, 1, false)
	}
	c.Builder.CreateStore(shortValue, slot)

	rhsBlock := c.newBlock("")
	joinBlock := c.newBlock("")
	if n.Op == token.ANDAND {
		c.Builder.CreateCondBr(lBit, rhsBlock, joinBlock)
	} else {
		c.Builder.CreateCondBr(lBit, joinBlock, rhsBlock)
	}

	c.Builder.SetInsertPointAtEnd(rhsBlock)
	r, err := c.Expr(n.Right)
	if err != nil {
		return ExprResult{}, err
	}
	rBit := c.castToBool(r.Value, r.Type)
	c.Builder.CreateStore(c.Builder.CreateZExt(rBit, resultBT, ""), slot)
	c.Builder.CreateBr(joinBlock)

	c.Builder.SetInsertPointAtEnd(joinBlock)
	v := c.Builder.CreateLoad(slot, "")
	return ExprResult{Value: v, Type: c.Types.Primitive(types.Int)}, nil
}

// conditionalExpr implements §4.3.1's c ? t : f: condition, true-arm,
// false-arm blocks, and a join that reads the usual-converted arm value
// back out of a stack slot each arm stored into.
func (c *Context) conditionalExpr(n *ast.ConditionalExpr) (ExprResult, error) {
	cond, err := c.Expr(n.Cond)
	if err != nil {
		return ExprResult{}, err
	}
	bit := c.castToBool(cond.Value, cond.Type)

	thenBlock := c.newBlock("")
	elseBlock := c.newBlock("")
	joinBlock := c.newBlock("")
	c.Builder.CreateCondBr(bit, thenBlock, elseBlock)

	c.Builder.SetInsertPointAtEnd(thenBlock)
	tv, err := c.Expr(n.Then)
	if err != nil {
		return ExprResult{}, err
	}
	// n.Then may itself contain control flow (a nested ?: or &&/||), which
	// leaves the builder positioned past thenBlock's own terminator; the
	// store and branch below belong at wherever lowering actually ended up,
	// not at the block this function created.
	thenTail := c.block()

	c.Builder.SetInsertPointAtEnd(elseBlock)
	ev, err := c.Expr(n.Else)
	if err != nil {
		return ExprResult{}, err
	}
	elseTail := c.block()

	common := c.Types.CommonType(tv.Type, ev.Type)
	slot := c.entryAlloca(c.Types.Realize(common), "")

	c.Builder.SetInsertPointAtEnd(thenTail)
	tcast, err := c.cast(tv.Value, tv.Type, common, n.Question)
	if err != nil {
		return ExprResult{}, err
	}
	c.Builder.CreateStore(tcast, slot)
	c.Builder.CreateBr(joinBlock)

	c.Builder.SetInsertPointAtEnd(elseTail)
	ecast, err := c.cast(ev.Value, ev.Type, common, n.Colon)
	if err != nil {
		return ExprResult{}, err
	}
	c.Builder.CreateStore(ecast, slot)
	c.Builder.CreateBr(joinBlock)

	c.Builder.SetInsertPointAtEnd(joinBlock)
	v := c.Builder.CreateLoad(slot, "")
	return ExprResult{Value: v, Type: common}, nil
}

func (c *Context) assignExpr(n *ast.AssignExpr) (ExprResult, error) {
	lhs, err := c.Alloc(n.Left)
	if err != nil {
		return ExprResult{}, err
	}
	rhs, err := c.Expr(n.Right)
	if err != nil {
		return ExprResult{}, err
	}
	casted, err := c.cast(rhs.Value, rhs.Type, lhs.Type, n.Assign)
	if err != nil {
		return ExprResult{}, err
	}
	c.Builder.CreateStore(casted, lhs.Slot)
	return ExprResult{Value: casted, Type: lhs.Type}, nil
}

// compoundAssignExpr implements "lhs OP= rhs" as "lhs = lhs OP rhs" with lhs
// evaluated (as an l-value) exactly once (§4.3.1).
func (c *Context) compoundAssignExpr(n *ast.CompoundAssignExpr) (ExprResult, error) {
	lhs, err := c.Alloc(n.Left)
	if err != nil {
		return ExprResult{}, err
	}
	cur := c.Builder.CreateLoad(lhs.Slot, "")
	curRes := ExprResult{Value: cur, Type: lhs.Type}

	rhs, err := c.Expr(n.Right)
	if err != nil {
		return ExprResult{}, err
	}
	result, err := c.applyBinary(n.Op, n.OpPos, curRes, rhs)
	if err != nil {
		return ExprResult{}, err
	}
	casted, err := c.cast(result.Value, result.Type, lhs.Type, n.OpPos)
	if err != nil {
		return ExprResult{}, err
	}
	c.Builder.CreateStore(casted, lhs.Slot)
	return ExprResult{Value: casted, Type: lhs.Type}, nil
}

func (c *Context) commaExpr(n *ast.CommaExpr) (ExprResult, error) {
	if _, err := c.Expr(n.Left); err != nil {
		return ExprResult{}, err
	}
	return c.Expr(n.Right)
}

// callExpr implements §4.3.1's Function call: arguments are evaluated
// left-to-right, cast to the declared parameter types, and - past the fixed
// parameter list of a variadic function - given the default argument
// promotions instead.
func (c *Context) callExpr(n *ast.CallExpr) (ExprResult, error) {
	fn, ok := c.functions[n.Name]
	if !ok {
		return ExprResult{}, c.errorf(n.NamePos, "call to undeclared function %q", n.Name)
	}
	if !fn.Variadic && len(n.Args) != len(fn.Params) {
		return ExprResult{}, c.errorf(n.NamePos, "function %q expects %d argument(s), got %d", n.Name, len(fn.Params), len(n.Args))
	}
	if fn.Variadic && len(n.Args) < len(fn.Params) {
		return ExprResult{}, c.errorf(n.NamePos, "function %q expects at least %d argument(s), got %d", n.Name, len(fn.Params), len(n.Args))
	}

	args := make([]llvm.Value, len(n.Args))
	for i, a := range n.Args {
		av, err := c.Expr(a)
		if err != nil {
			return ExprResult{}, err
		}
		if i < len(fn.Params) {
			cv, err := c.cast(av.Value, av.Type, fn.Params[i], n.NamePos)
			if err != nil {
				return ExprResult{}, err
			}
			args[i] = cv
		} else {
			cv, _, err := c.promoteForVariadic(av.Value, av.Type, n.NamePos)
			if err != nil {
				return ExprResult{}, err
			}
			args[i] = cv
		}
	}
	v := c.Builder.CreateCall(fn.Value, args, "")
	return ExprResult{Value: v, Type: fn.Return}, nil
}

// memberAlloc implements §4.3.1's Member access as an l-value: look up the
// field's index in the struct's metadata and emit a get-element-pointer.
func (c *Context) memberAlloc(n *ast.MemberExpr) (AllocResult, error) {
	var baseAddr llvm.Value
	var baseType types.Idx
	if n.Arrow {
		base, err := c.Expr(n.Base)
		if err != nil {
			return AllocResult{}, err
		}
		if !c.isPointer(base.Type) {
			return AllocResult{}, c.errorf(n.Dot, "-> on non-pointer type %s", c.Types.String(base.Type))
		}
		baseAddr = base.Value
		baseType = c.Types.Pointee(base.Type)
	} else {
		alloc, err := c.Alloc(n.Base)
		if err != nil {
			return AllocResult{}, err
		}
		baseAddr = alloc.Slot
		baseType = alloc.Type
	}

	meta := c.Types.StructMeta(c.Types.Unqualify(baseType))
	if meta == nil {
		return AllocResult{}, c.errorf(n.Dot, "type %s is not a (complete) struct", c.Types.String(baseType))
	}
	idx := meta.Index(n.Name)
	if idx < 0 {
		return AllocResult{}, c.errorf(n.Dot, "struct %s has no member %q", meta.Name, n.Name)
	}
	addr := c.Builder.CreateStructGEP(baseAddr, idx, "")
	return AllocResult{Slot: addr, Type: meta.Members[idx].Type}, nil
}

func (c *Context) memberExprValue(n *ast.MemberExpr) (ExprResult, error) {
	alloc, err := c.memberAlloc(n)
	if err != nil {
		return ExprResult{}, err
	}
	v := c.Builder.CreateLoad(alloc.Slot, "")
	return ExprResult{Value: v, Type: alloc.Type}, nil
}

// indexAlloc implements §4.3.1's "a[i] is equivalent to *(a + i)" as an
// l-value: decay an array base to its first element's address, or take a
// pointer base as-is, then GEP by the index.
func (c *Context) indexAlloc(n *ast.IndexExpr) (AllocResult, error) {
	base, err := c.arrayOrPointerBase(n.Base)
	if err != nil {
		return AllocResult{}, err
	}
	idx, err := c.Expr(n.Index)
	if err != nil {
		return AllocResult{}, err
	}
	addr := c.Builder.CreateGEP(base.Value, []llvm.Value{idx.Value}, "")
	return AllocResult{Slot: addr, Type: c.Types.Pointee(base.Type)}, nil
}

func (c *Context) indexExprValue(n *ast.IndexExpr) (ExprResult, error) {
	alloc, err := c.indexAlloc(n)
	if err != nil {
		return ExprResult{}, err
	}
	v := c.Builder.CreateLoad(alloc.Slot, "")
	return ExprResult{Value: v, Type: alloc.Type}, nil
}

// arrayOrPointerBase resolves the base of a[i] to a pointer-typed r-value
// pointing at the element type: an array-typed l-value decays to a pointer
// to its first element (the GEP-by-[0,0] idiom), while anything else is
// simply evaluated as a normal r-value (which, for a pointer-typed
// expression, already is the pointer to index from).
func (c *Context) arrayOrPointerBase(e ast.Expr) (ExprResult, error) {
	if isLValueNode(e) {
		alloc, err := c.Alloc(e)
		if err != nil {
			return ExprResult{}, err
		}
		if c.Types.Kind(c.Types.Unqualify(alloc.Type)) == types.KindArray {
			zero := llvm.ConstInt(c.llctx.Int32Type(), 0, false)
			elemPtr := c.Builder.CreateGEP(alloc.Slot, []llvm.Value{zero, zero}, "")
			return ExprResult{Value: elemPtr, Type: c.Types.Pointer(c.Types.Element(alloc.Type), 1)}, nil
		}
		v := c.Builder.CreateLoad(alloc.Slot, "")
		return ExprResult{Value: v, Type: alloc.Type}, nil
	}
	return c.Expr(e)
}

func isLValueNode(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.IdentExpr, *ast.IndexExpr, *ast.MemberExpr:
		return true
	case *ast.UnaryExpr:
		return n.Op == token.STAR
	}
	return false
}

func (c *Context) castExpr(n *ast.CastExpr) (ExprResult, error) {
	target, err := c.resolveType(n.Type)
	if err != nil {
		return ExprResult{}, err
	}
	x, err := c.Expr(n.X)
	if err != nil {
		return ExprResult{}, err
	}
	v, err := c.cast(x.Value, x.Type, target, n.Lparen)
	if err != nil {
		return ExprResult{}, err
	}
	return ExprResult{Value: v, Type: target}, nil
}

// sizeofTypeExpr implements §4.3.1's Sizeof over a named type: a constant
// equal to abi_size(realize(type)), never touching the builder.
func (c *Context) sizeofTypeExpr(n *ast.SizeofTypeExpr) (ExprResult, error) {
	t, err := c.resolveType(n.Type)
	if err != nil {
		return ExprResult{}, err
	}
	return c.sizeofConst(t), nil
}

// sizeofExprExpr implements §4.3.1's Sizeof over an expression: its static
// type is determined without evaluating it.
func (c *Context) sizeofExprExpr(n *ast.SizeofExprExpr) (ExprResult, error) {
	t, err := c.staticType(n.X)
	if err != nil {
		return ExprResult{}, err
	}
	return c.sizeofConst(t), nil
}

func (c *Context) sizeofConst(t types.Idx) ExprResult {
	size := c.Types.ABISize(t, c.DataLayout)
	longT := c.Types.Primitive(types.Long)
	v := llvm.ConstInt(c.Types.Realize(longT), size, false)
	return ExprResult{Value: v, Type: longT}
}
