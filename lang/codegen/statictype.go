package codegen

import (
	"github.com/fatbrother/toyc-go/lang/ast"
	"github.com/fatbrother/toyc-go/lang/token"
	"github.com/fatbrother/toyc-go/lang/types"
)

// staticType determines e's type without lowering it to IR: sizeof's
// expression form must never evaluate its operand (§4.3.1 Sizeof), so this
// mirrors Expr's dispatch but only ever computes a types.Idx.
func (c *Context) staticType(e ast.Expr) (types.Idx, error) {
	switch n := e.(type) {
	case *ast.IntegerExpr:
		if n.Type == types.Invalid {
			n.Type = c.Types.Primitive(types.Int)
		}
		return n.Type, nil

	case *ast.FloatExpr:
		if n.Type == types.Invalid {
			n.Type = c.Types.Primitive(types.Double)
		}
		return n.Type, nil

	case *ast.CharExpr:
		if n.Type == types.Invalid {
			n.Type = c.Types.Primitive(types.Int)
		}
		return n.Type, nil

	case *ast.StringExpr:
		if n.Type == types.Invalid {
			n.Type = c.Types.Pointer(c.Types.Primitive(types.Char), 1)
		}
		return n.Type, nil

	case *ast.IdentExpr:
		b := c.Scopes.Lookup(n.Name)
		if b == nil {
			return types.Invalid, c.errorf(n.Pos, "undeclared identifier %q", n.Name)
		}
		return b.Type, nil

	case *ast.UnaryExpr:
		xt, err := c.staticType(n.X)
		if err != nil {
			return types.Invalid, err
		}
		switch n.Op {
		case token.BANG:
			return c.Types.Primitive(types.Int), nil
		case token.AMPERSAND:
			return c.Types.Pointer(xt, 1), nil
		case token.STAR:
			if !c.isPointer(xt) {
				return types.Invalid, c.errorf(n.OpPos, "cannot dereference non-pointer type %s", c.Types.String(xt))
			}
			return c.Types.Pointee(xt), nil
		default:
			return xt, nil
		}

	case *ast.BinaryExpr:
		lt, err := c.staticType(n.Left)
		if err != nil {
			return types.Invalid, err
		}
		rt, err := c.staticType(n.Right)
		if err != nil {
			return types.Invalid, err
		}
		if c.isPointer(lt) && c.isPointer(rt) && n.Op == token.MINUS {
			return c.Types.Primitive(types.Long), nil
		}
		if c.isPointer(lt) {
			return lt, nil
		}
		if c.isPointer(rt) {
			return rt, nil
		}
		if isComparison(n.Op) {
			return c.Types.Primitive(types.Int), nil
		}
		return c.Types.CommonType(lt, rt), nil

	case *ast.LogicalExpr:
		return c.Types.Primitive(types.Int), nil

	case *ast.AssignExpr:
		return c.staticType(n.Left)

	case *ast.CompoundAssignExpr:
		return c.staticType(n.Left)

	case *ast.ConditionalExpr:
		tt, err := c.staticType(n.Then)
		if err != nil {
			return types.Invalid, err
		}
		et, err := c.staticType(n.Else)
		if err != nil {
			return types.Invalid, err
		}
		return c.Types.CommonType(tt, et), nil

	case *ast.CommaExpr:
		return c.staticType(n.Right)

	case *ast.CallExpr:
		fn, ok := c.functions[n.Name]
		if !ok {
			return types.Invalid, c.errorf(n.NamePos, "call to undeclared function %q", n.Name)
		}
		return fn.Return, nil

	case *ast.MemberExpr:
		var baseType types.Idx
		if n.Arrow {
			bt, err := c.staticType(n.Base)
			if err != nil {
				return types.Invalid, err
			}
			if !c.isPointer(bt) {
				return types.Invalid, c.errorf(n.Dot, "-> on non-pointer type %s", c.Types.String(bt))
			}
			baseType = c.Types.Pointee(bt)
		} else {
			bt, err := c.staticType(n.Base)
			if err != nil {
				return types.Invalid, err
			}
			baseType = bt
		}
		meta := c.Types.StructMeta(c.Types.Unqualify(baseType))
		if meta == nil {
			return types.Invalid, c.errorf(n.Dot, "type %s is not a (complete) struct", c.Types.String(baseType))
		}
		idx := meta.Index(n.Name)
		if idx < 0 {
			return types.Invalid, c.errorf(n.Dot, "struct %s has no member %q", meta.Name, n.Name)
		}
		return meta.Members[idx].Type, nil

	case *ast.IndexExpr:
		bt, err := c.staticType(n.Base)
		if err != nil {
			return types.Invalid, err
		}
		if c.Types.Kind(c.Types.Unqualify(bt)) == types.KindArray {
			return c.Types.Element(bt), nil
		}
		if c.isPointer(bt) {
			return c.Types.Pointee(bt), nil
		}
		return types.Invalid, c.errorf(0, "cannot index non-array, non-pointer type %s", c.Types.String(bt))

	case *ast.CastExpr:
		return c.resolveType(n.Type)

	case *ast.SizeofTypeExpr, *ast.SizeofExprExpr:
		return c.Types.Primitive(types.Long), nil
	}
	return types.Invalid, c.errorf(0, "cannot determine the static type of %T", e)
}
