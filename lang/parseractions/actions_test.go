package parseractions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatbrother/toyc-go/lang/ast"
	"github.com/fatbrother/toyc-go/lang/errs"
	"github.com/fatbrother/toyc-go/lang/parseractions"
	"github.com/fatbrother/toyc-go/lang/token"
	"github.com/fatbrother/toyc-go/lang/types"
)

func newBuilder() (*parseractions.Builder, *errs.List) {
	var el errs.List
	fs := token.NewFileSet()
	return parseractions.NewBuilder(types.NewTable(), fs, &el), &el
}

func TestFunctionDefinitionBuildsFuncDecl(t *testing.T) {
	b, _ := newBuilder()
	ret := b.PrimitiveType(1, types.Int)
	body := b.CompoundStatement(10, nil, 11)
	decl := b.FunctionDefinition(0, ret, "main", nil, false, body, 12)

	fd, ok := decl.(*ast.FuncDecl)
	require.True(t, ok)
	require.Equal(t, "main", fd.Name)
	require.Same(t, body, fd.Body)
	require.False(t, fd.Variadic)
}

func TestFunctionDeclarationHasNilBody(t *testing.T) {
	b, _ := newBuilder()
	ret := b.PrimitiveType(0, types.Void)
	decl := b.FunctionDeclaration(0, ret, "f", nil, true, 5)
	fd := decl.(*ast.FuncDecl)
	require.Nil(t, fd.Body)
	require.True(t, fd.Variadic)
}

func TestArrayDeclaratorAccumulatesDimsInOrder(t *testing.T) {
	b, _ := newBuilder()
	d := b.Declarator(0, "a", 0)
	dim1 := b.Integer(0, "2")
	dim2 := b.Integer(0, "3")
	d = b.ArrayDeclarator(d, dim1)
	d = b.ArrayDeclarator(d, dim2)

	require.Len(t, d.ArrayDims, 2)
	require.Same(t, dim1, d.ArrayDims[0])
	require.Same(t, dim2, d.ArrayDims[1])
}

func TestAssignmentToNonAssignableRecordsError(t *testing.T) {
	b, el := newBuilder()
	lit := b.Integer(0, "1")
	b.Assignment(lit, 0, b.Integer(0, "2"))
	require.Equal(t, 1, el.Len())
}

func TestAssignmentToIdentifierIsFine(t *testing.T) {
	b, el := newBuilder()
	id := b.Identifier(0, "x")
	b.Assignment(id, 0, b.Integer(0, "1"))
	require.Equal(t, 0, el.Len())
}

func TestIntegerLiteralParsesHexAndOctalAndSuffix(t *testing.T) {
	b, _ := newBuilder()
	hex := b.Integer(0, "0x1F").(*ast.IntegerExpr)
	require.Equal(t, int64(31), hex.Value)

	oct := b.Integer(0, "017").(*ast.IntegerExpr)
	require.Equal(t, int64(15), oct.Value)

	suffixed := b.Integer(0, "10UL").(*ast.IntegerExpr)
	require.Equal(t, int64(10), suffixed.Value)
}

func TestStringLiteralUnescapes(t *testing.T) {
	b, _ := newBuilder()
	s := b.String(0, `a\nb`).(*ast.StringExpr)
	require.Equal(t, "a\nb", s.Value)
}

func TestCharConstantUnescapes(t *testing.T) {
	b, _ := newBuilder()
	c := b.CharConstant(0, `\n`).(*ast.CharExpr)
	require.Equal(t, int64('\n'), c.Value)

	plain := b.CharConstant(0, "a").(*ast.CharExpr)
	require.Equal(t, int64('a'), plain.Value)
}

func TestVariadicParameterHasNilDeclarator(t *testing.T) {
	b, _ := newBuilder()
	p := b.VariadicParameter()
	require.Nil(t, p.Declarator)
}

func TestChunkWrapsDeclsInOrder(t *testing.T) {
	b, _ := newBuilder()
	d1 := b.GlobalDeclaration(0, b.PrimitiveType(0, types.Int), b.Declarator(0, "x", 0), 1)
	d2 := b.GlobalDeclaration(2, b.PrimitiveType(2, types.Int), b.Declarator(2, "y", 0), 3)
	chunk := b.Chunk("f.c", []ast.Decl{d1, d2}, 4)
	require.Equal(t, []ast.Decl{d1, d2}, chunk.Decls)
}
