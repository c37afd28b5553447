package codegen

import (
	"tinygo.org/x/go-llvm"

	"github.com/fatbrother/toyc-go/lang/token"
	"github.com/fatbrother/toyc-go/lang/types"
)

func (c *Context) isPointer(idx types.Idx) bool {
	return c.Types.Kind(c.Types.Unqualify(idx)) == types.KindPointer
}

func (c *Context) isFloating(idx types.Idx) bool {
	u := c.Types.Unqualify(idx)
	if c.Types.Kind(u) != types.KindPrimitive {
		return false
	}
	k := c.Types.PrimitiveKind(u)
	return k == types.Float || k == types.Double
}

func (c *Context) isBool(idx types.Idx) bool {
	u := c.Types.Unqualify(idx)
	return c.Types.Kind(u) == types.KindPrimitive && c.Types.PrimitiveKind(u) == types.Bool
}

func (c *Context) isInteger(idx types.Idx) bool {
	u := c.Types.Unqualify(idx)
	if c.Types.Kind(u) != types.KindPrimitive {
		return false
	}
	k := c.Types.PrimitiveKind(u)
	return k != types.Float && k != types.Double && k != types.Void
}

// cast converts v of type from to type to, dispatching on the source and
// target kinds (§4.3.1 Cast): int<->int (sign-extend/truncate), int<->float
// (signed conversions), float<->float (precision change), anything<->pointer
// (bit-cast or int-to-ptr/ptr-to-int), X<->bool (compare-against-zero in one
// direction, zero-extend in the other).
func (c *Context) cast(v llvm.Value, from, to types.Idx, pos token.Pos) (llvm.Value, error) {
	if from == to {
		return v, nil
	}
	fromBT := c.Types.Realize(from)
	toBT := c.Types.Realize(to)

	switch {
	case c.isBool(to):
		return c.castToBool(v, from), nil
	case c.isBool(from):
		return c.castFromBool(v, to, toBT), nil

	case c.isPointer(from) && c.isPointer(to):
		return c.Builder.CreateBitCast(v, toBT, ""), nil
	case c.isPointer(to) && c.isInteger(from):
		return c.Builder.CreateIntToPtr(v, toBT, ""), nil
	case c.isPointer(from) && c.isInteger(to):
		return c.Builder.CreatePtrToInt(v, toBT, ""), nil

	case c.isInteger(from) && c.isInteger(to):
		fromW := fromBT.IntTypeWidth()
		toW := toBT.IntTypeWidth()
		switch {
		case toW > fromW:
			return c.Builder.CreateSExt(v, toBT, ""), nil
		case toW < fromW:
			return c.Builder.CreateTrunc(v, toBT, ""), nil
		default:
			return v, nil
		}

	case c.isInteger(from) && c.isFloating(to):
		return c.Builder.CreateSIToFP(v, toBT, ""), nil
	case c.isFloating(from) && c.isInteger(to):
		return c.Builder.CreateFPToSI(v, toBT, ""), nil

	case c.isFloating(from) && c.isFloating(to):
		if c.Types.PrimitiveKind(c.Types.Unqualify(to)) == types.Double {
			return c.Builder.CreateFPExt(v, toBT, ""), nil
		}
		return c.Builder.CreateFPTrunc(v, toBT, ""), nil
	}
	return llvm.Value{}, c.errorf(pos, "no conversion from %s to %s", c.Types.String(from), c.Types.String(to))
}

// castToBool compares against zero, producing an i1 (§4.3.1: "X->bool
// (compare-against-zero in one direction ...)").
func (c *Context) castToBool(v llvm.Value, from types.Idx) llvm.Value {
	if c.isFloating(from) {
		zero := llvm.ConstFloat(c.Types.Realize(from), 0)
		return c.Builder.CreateFCmp(llvm.FloatONE, v, zero, "")
	}
	zero := llvm.ConstInt(c.Types.Realize(from), 0, false)
	return c.Builder.CreateICmp(llvm.IntNE, v, zero, "")
}

// castFromBool zero-extends (or, for a float target, converts) an i1 to the
// target type (§4.3.1: "... zero-extend in the other").
func (c *Context) castFromBool(v llvm.Value, to types.Idx, toBT llvm.Type) llvm.Value {
	if c.isFloating(to) {
		return c.Builder.CreateUIToFP(v, toBT, "")
	}
	return c.Builder.CreateZExt(v, toBT, "")
}

// promoteForVariadic applies C's default argument promotions to a variadic
// call's trailing arguments (§4.3.1 Function call): char/short -> int,
// float -> double.
func (c *Context) promoteForVariadic(v llvm.Value, typ types.Idx, pos token.Pos) (llvm.Value, types.Idx, error) {
	u := c.Types.Unqualify(typ)
	if c.Types.Kind(u) != types.KindPrimitive {
		return v, typ, nil
	}
	switch c.Types.PrimitiveKind(u) {
	case types.Bool, types.Char, types.Short:
		target := c.Types.Primitive(types.Int)
		nv, err := c.cast(v, typ, target, pos)
		return nv, target, err
	case types.Float:
		target := c.Types.Primitive(types.Double)
		nv, err := c.cast(v, typ, target, pos)
		return nv, target, err
	}
	return v, typ, nil
}
