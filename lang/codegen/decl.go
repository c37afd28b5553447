package codegen

import (
	"tinygo.org/x/go-llvm"

	"github.com/fatbrother/toyc-go/lang/ast"
	"github.com/fatbrother/toyc-go/lang/symbols"
	"github.com/fatbrother/toyc-go/lang/types"
)

// declStmt lowers a local declaration statement, e.g. "int a, b = 1;": one
// base TypeSpec shared by a linked list of declarators, each combined with
// its own pointer level and array dimensions into a concrete type (§4.3.2
// Declaration).
func (c *Context) declStmt(n *ast.DeclStmt) error {
	base, err := c.resolveType(n.Type)
	if err != nil {
		return err
	}
	for d := n.First; d != nil; d = d.Next {
		if err := c.declareLocal(base, d); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) declareLocal(base types.Idx, d *ast.Declarator) error {
	elemType, isVLA, err := c.declaratorType(base, d)
	if err != nil {
		return err
	}
	d.ElementType = elemType

	if isVLA {
		return c.declareVLA(elemType, d)
	}

	slot := c.entryAlloca(c.Types.Realize(elemType), d.Name)
	if err := c.Scopes.Declare(d.Name, &symbols.Binding{Slot: slot, Type: elemType}); err != nil {
		return c.errorf(d.Pos, "%s", err)
	}
	if d.Init != nil {
		if err := c.initSlot(slot, elemType, d.Init); err != nil {
			return err
		}
	}
	return nil
}

// declareVLA implements a variable-length array's storage: the element
// count is only known at this point in the function, so - unlike every
// other local - its backing memory is allocated here rather than in the
// entry block (§9 Open Question: VLA lifetime lasts until the end of the
// enclosing block; since this codegen never pops a VLA's stack memory
// early, that reduces to "lives until the function returns", which a plain
// alloca already gives). The variable itself is bound as an ordinary
// pointer to the element type, so every other operation (indexing,
// sizeof-of-expression) treats it exactly like any other pointer.
func (c *Context) declareVLA(arrType types.Idx, d *ast.Declarator) error {
	if d.Init != nil {
		return c.errorf(d.Pos, "variable-length array %q cannot have an initializer", d.Name)
	}
	count, err := c.Expr(d.ArrayDims[0])
	if err != nil {
		return err
	}
	countV, err := c.cast(count.Value, count.Type, c.Types.Primitive(types.Long), d.Pos)
	if err != nil {
		return err
	}

	elemType := c.Types.Element(arrType)
	elemBT := c.Types.Realize(elemType)
	arrAddr := c.Builder.CreateArrayAlloca(elemBT, countV, d.Name)

	ptrType := c.Types.Pointer(elemType, 1)
	slot := c.entryAlloca(c.Types.Realize(ptrType), d.Name+".addr")
	c.Builder.CreateStore(arrAddr, slot)

	if err := c.Scopes.Declare(d.Name, &symbols.Binding{Slot: slot, Type: ptrType}); err != nil {
		return c.errorf(d.Pos, "%s", err)
	}
	return nil
}

// initSlot lowers an initializer into slot, recursing through nested
// brace-initializer lists for arrays and structs positionally (§4.3.2: "an
// array or struct initializer-list assigns its items positionally").
func (c *Context) initSlot(slot llvm.Value, typ types.Idx, init ast.Expr) error {
	list, ok := init.(*ast.InitializerListExpr)
	if !ok {
		v, err := c.Expr(init)
		if err != nil {
			return err
		}
		_, pos := init.Span()
		casted, err := c.cast(v.Value, v.Type, typ, pos)
		if err != nil {
			return err
		}
		c.Builder.CreateStore(casted, slot)
		return nil
	}

	u := c.Types.Unqualify(typ)
	switch c.Types.Kind(u) {
	case types.KindArray:
		elemType := c.Types.Element(u)
		zero := llvm.ConstInt(c.llctx.Int32Type(), 0, false)
		for i, item := range list.Items {
			idx := llvm.ConstInt(c.llctx.Int32Type(), uint64(i), false)
			addr := c.Builder.CreateGEP(slot, []llvm.Value{zero, idx}, "")
			if err := c.initSlot(addr, elemType, item); err != nil {
				return err
			}
		}
		return nil

	case types.KindStruct:
		meta := c.Types.StructMeta(u)
		if meta == nil {
			return c.errorf(list.Lbrace, "type %s is not a struct", c.Types.String(typ))
		}
		for i, item := range list.Items {
			if i >= len(meta.Members) {
				return c.errorf(list.Lbrace, "too many initializers for struct %s", meta.Name)
			}
			addr := c.Builder.CreateStructGEP(slot, i, "")
			if err := c.initSlot(addr, meta.Members[i].Type, item); err != nil {
				return err
			}
		}
		return nil
	}
	return c.errorf(list.Lbrace, "type %s cannot be brace-initialized", c.Types.String(typ))
}
