package codegen

import (
	"tinygo.org/x/go-llvm"

	"github.com/fatbrother/toyc-go/lang/ast"
	"github.com/fatbrother/toyc-go/lang/symbols"
	"github.com/fatbrother/toyc-go/lang/types"
)

// declareFunction registers n's signature (§4.3.3: materialize the
// function's signature through the Type Table, including its variadic
// flag) without lowering a body, so every call site - including ones that
// textually precede the definition - resolves against the same backend
// function value. A second declaration of the same name is accepted only
// if it repeats an identical signature (a prototype followed later by its
// definition, §4.4); anything else is a conflicting-declaration error.
func (c *Context) declareFunction(n *ast.FuncDecl) error {
	ret, err := c.resolveType(n.ReturnType)
	if err != nil {
		return err
	}
	fixed := n.Params
	if n.Variadic && len(fixed) > 0 && fixed[len(fixed)-1].Type == nil {
		// the parser's trailing "..." marker carries no type of its own
		fixed = fixed[:len(fixed)-1]
	}
	params := make([]types.Idx, len(fixed))
	paramBT := make([]llvm.Type, len(fixed))
	for i, p := range fixed {
		pt, err := c.resolveType(p.Type)
		if err != nil {
			return err
		}
		if p.Declarator != nil {
			pt, _, err = c.declaratorType(pt, p.Declarator)
			if err != nil {
				return err
			}
		}
		params[i] = pt
		paramBT[i] = c.Types.Realize(pt)
	}

	if existing, ok := c.functions[n.Name]; ok {
		if !signatureEquals(existing, params, n.Variadic, ret) {
			return c.errorf(n.Start, "conflicting declaration of function %q", n.Name)
		}
		if n.Body != nil {
			if existing.Defined {
				return c.errorf(n.Start, "redefinition of function %q", n.Name)
			}
			existing.Defined = true
		}
		return nil
	}

	fnType := llvm.FunctionType(c.Types.Realize(ret), paramBT, n.Variadic)
	fn := llvm.AddFunction(c.Module, n.Name, fnType)
	c.functions[n.Name] = &function{
		Value:    fn,
		Params:   params,
		Variadic: n.Variadic,
		Return:   ret,
		Defined:  n.Body != nil,
	}
	return nil
}

func signatureEquals(fn *function, params []types.Idx, variadic bool, ret types.Idx) bool {
	if fn.Variadic != variadic || fn.Return != ret || len(fn.Params) != len(params) {
		return false
	}
	for i, p := range fn.Params {
		if p != params[i] {
			return false
		}
	}
	return true
}

// defineFunction lowers n's body (§4.3.3): an entry block, one alloca per
// named parameter (so a parameter can be reassigned like any other local),
// the body's statements, and - once the body is fully lowered - a check
// that every goto resolved to a defined label.
func (c *Context) defineFunction(n *ast.FuncDecl) error {
	if n.Body == nil {
		return nil
	}
	fn := c.functions[n.Name]
	c.fn = fn.Value
	c.fnReturn = fn.Return
	c.Labels = symbols.NewLabelTable()

	entry := llvm.AddBasicBlock(fn.Value, "entry")
	c.Builder.SetInsertPointAtEnd(entry)

	c.Scopes.Push()
	for i, p := range n.Params {
		if p.Declarator == nil || p.Declarator.Name == "" {
			continue
		}
		pt := fn.Params[i]
		slot := c.entryAlloca(c.Types.Realize(pt), p.Declarator.Name)
		c.Builder.CreateStore(fn.Value.Param(i), slot)
		if err := c.Scopes.Declare(p.Declarator.Name, &symbols.Binding{Slot: slot, Type: pt}); err != nil {
			return c.errorf(p.Declarator.Pos, "%s", err)
		}
	}

	err := c.lowerBlock(n.Body)
	c.Scopes.Pop()
	if err != nil {
		return err
	}

	if !blockTerminated(c.block()) {
		if fn.Return == c.Types.Primitive(types.Void) {
			c.Builder.CreateRetVoid()
		} else {
			// Falling off the end of a non-void function is undefined
			// behavior in C; marking the block unreachable rather than
			// synthesizing a bogus return value matches how an optimizing C
			// compiler treats the same case.
			c.Builder.CreateUnreachable()
		}
	}

	if pending := c.Labels.Pending(); len(pending) > 0 {
		for name, pos := range pending {
			c.errorf(pos, "label %q is never defined", name)
		}
		return c.errorf(n.Start, "function %q has an unresolved goto target", n.Name)
	}

	n.Function = fn.Value
	c.fn = llvm.Value{}
	c.fnReturn = types.Invalid
	c.Labels = nil
	return nil
}

// lowerGlobal implements §4.3.4's top-level (non-function) declaration:
// one backend global per declarator, zero-initialized unless a constant
// initializer is given.
func (c *Context) lowerGlobal(n *ast.GlobalDecl) error {
	base, err := c.resolveType(n.Type)
	if err != nil {
		return err
	}
	for d := n.First; d != nil; d = d.Next {
		elemType, isVLA, err := c.declaratorType(base, d)
		if err != nil {
			return err
		}
		if isVLA {
			return c.errorf(d.Pos, "global %q cannot be a variable-length array", d.Name)
		}
		d.ElementType = elemType

		g := llvm.AddGlobal(c.Module, c.Types.Realize(elemType), d.Name)
		if d.Init != nil {
			init, err := c.constFold(d.Init, elemType)
			if err != nil {
				return err
			}
			g.SetInitializer(init)
		} else {
			g.SetInitializer(llvm.ConstNull(c.Types.Realize(elemType)))
		}

		if err := c.Scopes.Declare(d.Name, &symbols.Binding{Slot: g, Type: elemType}); err != nil {
			return c.errorf(d.Pos, "%s", err)
		}
	}
	return nil
}

// constFold evaluates a global initializer to an LLVM constant without
// emitting any instructions: a global's initial value must itself be a
// constant expression (§4.3.4), unlike a local's, which may run arbitrary
// code at its point of declaration.
func (c *Context) constFold(e ast.Expr, typ types.Idx) (llvm.Value, error) {
	switch n := e.(type) {
	case *ast.IntegerExpr, *ast.CharExpr, *ast.UnaryExpr, *ast.BinaryExpr:
		if v, ok := constInt(n); ok {
			return llvm.ConstInt(c.Types.Realize(typ), uint64(v), true), nil
		}
	case *ast.FloatExpr:
		return llvm.ConstFloat(c.Types.Realize(typ), n.Value), nil
	}
	_, pos := e.Span()
	return llvm.Value{}, c.errorf(pos, "global initializer must be a constant expression")
}

// lowerStruct implements a standalone top-level struct definition or
// forward declaration (§4.3.4).
func (c *Context) lowerStruct(n *ast.StructDecl) error {
	_, err := c.resolveStructSpecifier(n.Spec)
	return err
}
