package ast_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatbrother/toyc-go/lang/ast"
	"github.com/fatbrother/toyc-go/lang/token"
	"github.com/fatbrother/toyc-go/lang/types"
)

// intAdd builds "1 + 2" as a *ast.BinaryExpr, the shape codegen tests build
// by hand since there is no parser under test here.
func intAdd() *ast.BinaryExpr {
	return &ast.BinaryExpr{
		Left:  &ast.IntegerExpr{Pos: 1, Raw: "1", Value: 1},
		Op:    token.PLUS,
		OpPos: 3,
		Right: &ast.IntegerExpr{Pos: 5, Raw: "2", Value: 2},
	}
}

func TestBinaryExprSpan(t *testing.T) {
	n := intAdd()
	start, end := n.Span()
	require.Equal(t, token.Pos(1), start)
	require.Equal(t, token.Pos(6), end)
}

func TestWalkVisitsEveryChild(t *testing.T) {
	ret := &ast.ReturnStmt{Return: 0, X: intAdd(), End: 10}
	var seen []string
	ast.Walk(ast.VisitorFunc(func(n ast.Node) bool {
		seen = append(seen, label(n))
		return true
	}), ret)

	require.Equal(t, []string{"return", "binary", "int", "int"}, seen)
}

func TestWalkEnterReturningNilSkipsChildren(t *testing.T) {
	ret := &ast.ReturnStmt{X: intAdd()}
	count := 0
	var v ast.VisitorFunc
	v = func(n ast.Node) bool {
		count++
		// abort as soon as we see the BinaryExpr: its children must not be
		// visited.
		_, isBinary := n.(*ast.BinaryExpr)
		return !isBinary
	}
	ast.Walk(v, ret)
	require.Equal(t, 2, count) // return, binary — not either int literal
}

func TestChunkSpanUsesFirstDeclAndEOF(t *testing.T) {
	fn := &ast.FuncDecl{
		Name:  "main",
		Start: 5,
		End:   20,
	}
	chunk := &ast.Chunk{Decls: []ast.Decl{fn}, EOF: 25}
	start, end := chunk.Span()
	require.Equal(t, token.Pos(5), start)
	require.Equal(t, token.Pos(25), end)
}

func TestDeclaratorChainWalksNext(t *testing.T) {
	c := &ast.Declarator{Name: "c"}
	b := &ast.Declarator{Name: "b", Next: c}
	a := &ast.Declarator{Name: "a", Next: b}
	decl := &ast.DeclStmt{First: a, Type: &ast.PrimitiveTypeSpec{Kind: types.Int}}

	var names []string
	ast.Walk(ast.VisitorFunc(func(n ast.Node) bool {
		if d, ok := n.(*ast.Declarator); ok {
			names = append(names, d.Name)
		}
		return true
	}), decl)
	require.Equal(t, []string{"a", "b", "c"}, names)
}

func TestIsAssignable(t *testing.T) {
	require.True(t, ast.IsAssignable(&ast.IdentExpr{Name: "x"}))
	require.True(t, ast.IsAssignable(&ast.MemberExpr{Name: "m"}))
	require.True(t, ast.IsAssignable(&ast.IndexExpr{}))
	require.False(t, ast.IsAssignable(&ast.IntegerExpr{}))
}

func TestFormatWidthAndFlags(t *testing.T) {
	n := &ast.IdentExpr{Name: "foo"}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%8v", n)
	require.Equal(t, "     foo", buf.String())

	buf.Reset()
	fmt.Fprintf(&buf, "%-8v", n)
	require.Equal(t, "foo     ", buf.String())

	buf.Reset()
	fmt.Fprintf(&buf, "%2v", n)
	require.Equal(t, "fo", buf.String())
}

func label(n ast.Node) string {
	switch n.(type) {
	case *ast.ReturnStmt:
		return "return"
	case *ast.BinaryExpr:
		return "binary"
	case *ast.IntegerExpr:
		return "int"
	default:
		return "?"
	}
}
