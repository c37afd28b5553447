package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatbrother/toyc-go/lang/types"
)

func TestPrimitiveHashConsing(t *testing.T) {
	tab := types.NewTable()
	a := tab.Primitive(types.Int)
	b := tab.Primitive(types.Int)
	require.Equal(t, a, b)
	require.NotEqual(t, a, tab.Primitive(types.Long))
}

func TestPointerCollapse(t *testing.T) {
	tab := types.NewTable()
	intT := tab.Primitive(types.Int)

	p1 := tab.Pointer(intT, 1)
	p2 := tab.Pointer(p1, 1) // pointer to (pointer to int, level 1), level 1
	p3 := tab.Pointer(intT, 2)
	require.Equal(t, p3, p2, "pointer(pointer(T,1),1) must equal pointer(T,2)")
}

func TestArrayDimensionChaining(t *testing.T) {
	tab := types.NewTable()
	intT := tab.Primitive(types.Int)

	a := tab.Array(intT, []int{3, 4})
	inner := tab.Array(intT, []int{4})
	b := tab.Array(inner, []int{3})
	require.Equal(t, b, a)
	require.Equal(t, inner, tab.Element(a))
}

func TestQualifiedNoneReturnsBase(t *testing.T) {
	tab := types.NewTable()
	intT := tab.Primitive(types.Int)
	require.Equal(t, intT, tab.Qualified(intT, types.QualNone))
}

func TestUnqualifyRoundTrip(t *testing.T) {
	tab := types.NewTable()
	intT := tab.Primitive(types.Int)
	for _, q := range []types.Qualifier{types.QualConst, types.QualVolatile, types.QualConst | types.QualVolatile} {
		qt := tab.Qualified(intT, q)
		require.Equal(t, intT, tab.Unqualify(qt))
	}
}

func TestStructForwardDeclarationPreservesIdx(t *testing.T) {
	tab := types.NewTable()
	opaque, err := tab.Struct("N", nil)
	require.NoError(t, err)
	require.Nil(t, tab.StructMeta(opaque))

	intT := tab.Primitive(types.Int)
	ptrN := tab.Pointer(opaque, 1)

	complete, err := tab.Struct("N", []types.Member{
		{Name: "v", Type: intT},
		{Name: "next", Type: ptrN},
	})
	require.NoError(t, err)
	require.Equal(t, opaque, complete, "completing a forward-declared struct must preserve its Idx")

	meta := tab.StructMeta(complete)
	require.NotNil(t, meta)
	require.Equal(t, 1, meta.Index("next"))
	require.Equal(t, -1, meta.Index("nope"))
}

func TestStructRedefinitionWithDifferentMembersErrors(t *testing.T) {
	tab := types.NewTable()
	intT := tab.Primitive(types.Int)
	floatT := tab.Primitive(types.Float)

	_, err := tab.Struct("S", []types.Member{{Name: "x", Type: intT}})
	require.NoError(t, err)

	_, err = tab.Struct("S", []types.Member{{Name: "x", Type: floatT}})
	require.Error(t, err)
}

func TestCommonType(t *testing.T) {
	tab := types.NewTable()
	intT := tab.Primitive(types.Int)
	longT := tab.Primitive(types.Long)
	floatT := tab.Primitive(types.Float)
	doubleT := tab.Primitive(types.Double)

	require.Equal(t, longT, tab.CommonType(intT, longT))
	require.Equal(t, floatT, tab.CommonType(intT, floatT))
	require.Equal(t, doubleT, tab.CommonType(floatT, doubleT))
	require.Equal(t, intT, tab.CommonType(intT, intT))
}
