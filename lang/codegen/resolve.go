package codegen

import (
	"github.com/fatbrother/toyc-go/lang/ast"
	"github.com/fatbrother/toyc-go/lang/token"
	"github.com/fatbrother/toyc-go/lang/types"
)

// resolveType turns the syntactic TypeSpec the parser built into a single
// TypeIdx, interning through the Type Table and caching the result on the
// node so repeated resolution of the same TypeSpec (e.g. a parameter's type
// consulted once for the signature and again for each use) is free (§9:
// "Realization ... the first time it is needed").
func (c *Context) resolveType(spec ast.TypeSpec) (types.Idx, error) {
	switch n := spec.(type) {
	case *ast.PrimitiveTypeSpec:
		if n.Resolved == types.Invalid {
			n.Resolved = c.Types.Primitive(n.Kind)
		}
		return n.Resolved, nil

	case *ast.PointerTypeSpec:
		if n.Resolved == types.Invalid {
			base, err := c.resolveType(n.Base)
			if err != nil {
				return types.Invalid, err
			}
			n.Resolved = c.Types.Pointer(base, n.Level)
		}
		return n.Resolved, nil

	case *ast.StructSpecifier:
		return c.resolveStructSpecifier(n)

	case *ast.StructReference:
		if n.Resolved == types.Invalid {
			idx, err := c.Types.Struct(n.Name, nil)
			if err != nil {
				return types.Invalid, c.errorf(n.StructPos, "%s", err)
			}
			n.Resolved = idx
		}
		return n.Resolved, nil
	}
	return types.Invalid, c.errorf(0, "unknown type specifier %T", spec)
}

// resolveStructSpecifier handles both a forward declaration ("struct N;")
// and a full definition ("struct N { ... }"), creating the opaque entry
// before resolving member types so a self-referential member (e.g. "struct
// N *next" inside struct N itself, Scenario F) resolves against the same
// index the struct as a whole will complete at (§4.2, invariant 2).
func (c *Context) resolveStructSpecifier(n *ast.StructSpecifier) (types.Idx, error) {
	if n.Resolved != types.Invalid {
		return n.Resolved, nil
	}
	opaque, err := c.Types.Struct(n.Name, nil)
	if err != nil {
		return types.Invalid, c.errorf(n.StructPos, "%s", err)
	}
	n.Resolved = opaque
	if n.Members == nil {
		return opaque, nil
	}

	members := make([]types.Member, len(n.Members))
	for i, f := range n.Members {
		ft, err := c.resolveType(f.Type)
		if err != nil {
			return types.Invalid, err
		}
		members[i] = types.Member{Name: f.Name, Type: ft}
	}
	completed, err := c.Types.Struct(n.Name, members)
	if err != nil {
		return types.Invalid, c.errorf(n.StructPos, "%s", err)
	}
	n.Resolved = completed
	return completed, nil
}

// declaratorType combines a declarator's base type with its pointer level
// and array dimensions into the single concrete type it declares (§4.3.2
// Declaration: "compute its element type (base type ± pointer level ±
// array dimensions ± qualifiers)"). The returned bool reports whether the
// outermost dimension is a variable-length array, in which case dims[0] is
// the VLADim sentinel and the caller (decl.go) is responsible for lowering
// the runtime size expression itself.
func (c *Context) declaratorType(base types.Idx, d *ast.Declarator) (types.Idx, bool, error) {
	t := base
	if d.PointerLevel > 0 {
		t = c.Types.Pointer(t, d.PointerLevel)
	}
	if len(d.ArrayDims) == 0 {
		return t, false, nil
	}

	dims := make([]int, len(d.ArrayDims))
	isVLA := false
	for i, e := range d.ArrayDims {
		if e == nil {
			return types.Invalid, false, c.errorf(d.Pos, "array %q has an incomplete dimension", d.Name)
		}
		n, ok := constInt(e)
		if !ok {
			if i != 0 {
				return types.Invalid, false, c.errorf(d.Pos, "only the outermost array dimension may be variable")
			}
			dims[i] = types.VLADim
			isVLA = true
			continue
		}
		if n <= 0 {
			return types.Invalid, false, c.errorf(d.Pos, "array dimension must be positive")
		}
		dims[i] = int(n)
	}
	return c.Types.Array(t, dims), isVLA, nil
}

// constInt folds the small subset of constant integer expressions - literals
// and +,-,*,/ combinations of them - needed to size a fixed array dimension
// without ever lowering that expression to IR (array bounds, like sizeof's
// operand, are a compile-time-only computation, §4.3.1).
func constInt(e ast.Expr) (int64, bool) {
	switch n := e.(type) {
	case *ast.IntegerExpr:
		return n.Value, true
	case *ast.CharExpr:
		return n.Value, true
	case *ast.UnaryExpr:
		v, ok := constInt(n.X)
		if !ok {
			return 0, false
		}
		switch n.Op {
		case token.MINUS:
			return -v, true
		case token.PLUS:
			return v, true
		}
		return 0, false
	case *ast.BinaryExpr:
		l, ok := constInt(n.Left)
		if !ok {
			return 0, false
		}
		r, ok := constInt(n.Right)
		if !ok {
			return 0, false
		}
		switch n.Op {
		case token.PLUS:
			return l + r, true
		case token.MINUS:
			return l - r, true
		case token.STAR:
			return l * r, true
		case token.SLASH:
			if r == 0 {
				return 0, false
			}
			return l / r, true
		}
	}
	return 0, false
}
