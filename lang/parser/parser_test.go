package parser_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatbrother/toyc-go/lang/ast"
	"github.com/fatbrother/toyc-go/lang/errs"
	"github.com/fatbrother/toyc-go/lang/parser"
	"github.com/fatbrother/toyc-go/lang/parseractions"
	"github.com/fatbrother/toyc-go/lang/token"
	"github.com/fatbrother/toyc-go/lang/types"
)

// newBuilder wires a fresh Actions the way a real compile does: one type
// table and one diagnostic sink shared across every ParseChunk call.
func newBuilder() (*parseractions.Builder, *errs.List) {
	tab := types.NewTable()
	files := token.NewFileSet()
	errList := &errs.List{}
	return parseractions.NewBuilder(tab, files, errList), errList
}

func parse(t *testing.T, src string) (*ast.Chunk, *errs.List) {
	t.Helper()
	b, errList := newBuilder()
	fset := token.NewFileSet()
	ch, err := parser.ParseChunk(context.Background(), b, fset, "test.c", []byte(src))
	require.NoError(t, err)
	require.False(t, b.HasError())
	return ch, errList
}

func TestParseFunctionDefinitionArithmetic(t *testing.T) {
	ch, _ := parse(t, `
int main(void) {
    int a = 1 + 2 * 3;
    return a;
}
`)
	require.Len(t, ch.Decls, 1)
	fn, ok := ch.Decls[0].(*ast.FuncDecl)
	require.True(t, ok)
	require.Equal(t, "main", fn.Name)
	require.False(t, fn.Variadic)
	require.NotNil(t, fn.Body)
	require.Len(t, fn.Body.Stmts, 2)

	decl, ok := fn.Body.Stmts[0].(*ast.DeclStmt)
	require.True(t, ok)
	require.Equal(t, "a", decl.First.Name)
	bin, ok := decl.First.Init.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, token.PLUS, bin.Op)
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, token.STAR, rhs.Op)

	ret, ok := fn.Body.Stmts[1].(*ast.ReturnStmt)
	require.True(t, ok)
	require.NotNil(t, ret.X)
}

func TestParseGlobalsAndPointers(t *testing.T) {
	ch, _ := parse(t, `
int counter = 0;
int *p, q;
`)
	require.Len(t, ch.Decls, 2)

	g1, ok := ch.Decls[0].(*ast.GlobalDecl)
	require.True(t, ok)
	require.Equal(t, "counter", g1.First.Name)
	require.NotNil(t, g1.First.Init)

	g2, ok := ch.Decls[1].(*ast.GlobalDecl)
	require.True(t, ok)
	require.Equal(t, "p", g2.First.Name)
	require.Equal(t, 1, g2.First.PointerLevel)
	require.NotNil(t, g2.First.Next)
	require.Equal(t, "q", g2.First.Next.Name)
	require.Equal(t, 0, g2.First.Next.PointerLevel)
}

func TestParseStructDeclarationAndFieldAccess(t *testing.T) {
	ch, _ := parse(t, `
struct Point {
    int x;
    int y;
};

int sum(struct Point *p) {
    return p->x + p->y;
}
`)
	require.Len(t, ch.Decls, 2)

	sd, ok := ch.Decls[0].(*ast.StructDecl)
	require.True(t, ok)
	require.Equal(t, "Point", sd.Spec.Name)
	require.Len(t, sd.Spec.Members, 2)

	fn, ok := ch.Decls[1].(*ast.FuncDecl)
	require.True(t, ok)
	require.Len(t, fn.Params, 1)
	require.Equal(t, 1, fn.Params[0].Declarator.PointerLevel)

	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	bin, ok := ret.X.(*ast.BinaryExpr)
	require.True(t, ok)
	lhs, ok := bin.Left.(*ast.MemberExpr)
	require.True(t, ok)
	require.True(t, lhs.Arrow)
	require.Equal(t, "x", lhs.Name)
}

func TestParseIfWhileForAndControlFlow(t *testing.T) {
	ch, _ := parse(t, `
int classify(int n) {
    if (n < 0) {
        return -1;
    } else if (n == 0) {
        return 0;
    }

    int total = 0;
    for (int i = 0; i < n; i = i + 1) {
        if (i == 3) {
            continue;
        }
        total = total + i;
    }

    while (total > 100) {
        total = total - 100;
    }

    return total;
}
`)
	fn := ch.Decls[0].(*ast.FuncDecl)
	_, ok := fn.Body.Stmts[0].(*ast.IfStmt)
	require.True(t, ok)

	var forStmt *ast.ForStmt
	for _, s := range fn.Body.Stmts {
		if f, ok := s.(*ast.ForStmt); ok {
			forStmt = f
		}
	}
	require.NotNil(t, forStmt)
	require.NotNil(t, forStmt.Init)
	require.NotNil(t, forStmt.Cond)
	require.NotNil(t, forStmt.Post)
}

func TestParseSwitchCaseDefault(t *testing.T) {
	ch, _ := parse(t, `
int weekday(int n) {
    switch (n) {
    case 0:
        return 1;
    case 1:
    case 2:
        return 2;
    default:
        return 0;
    }
}
`)
	fn := ch.Decls[0].(*ast.FuncDecl)
	sw, ok := fn.Body.Stmts[0].(*ast.SwitchStmt)
	require.True(t, ok)

	var cases, defaults int
	for _, s := range sw.Body.Stmts {
		switch s.(type) {
		case *ast.CaseStmt:
			cases++
		case *ast.DefaultStmt:
			defaults++
		}
	}
	require.Equal(t, 3, cases)
	require.Equal(t, 1, defaults)
}

func TestParseGotoAndLabel(t *testing.T) {
	ch, _ := parse(t, `
int loopy(void) {
    int i = 0;
top:
    i = i + 1;
    if (i < 10) {
        goto top;
    }
    return i;
}
`)
	fn := ch.Decls[0].(*ast.FuncDecl)
	label, ok := fn.Body.Stmts[1].(*ast.LabelStmt)
	require.True(t, ok)
	require.Equal(t, "top", label.Name)
	_, ok = label.Stmt.(*ast.ExprStmt)
	require.True(t, ok)
}

func TestParseCastSizeofAndInitializerList(t *testing.T) {
	ch, _ := parse(t, `
int main(void) {
    double d = (double)3;
    int n = sizeof(int);
    int arr[3] = {1, 2, 3};
    return n;
}
`)
	fn := ch.Decls[0].(*ast.FuncDecl)

	decl := fn.Body.Stmts[0].(*ast.DeclStmt)
	cast, ok := decl.First.Init.(*ast.CastExpr)
	require.True(t, ok)
	_, ok = cast.Type.(*ast.PrimitiveTypeSpec)
	require.True(t, ok)

	decl2 := fn.Body.Stmts[1].(*ast.DeclStmt)
	_, ok = decl2.First.Init.(*ast.SizeofTypeExpr)
	require.True(t, ok)

	decl3 := fn.Body.Stmts[2].(*ast.DeclStmt)
	require.Len(t, decl3.First.ArrayDims, 1)
	initList, ok := decl3.First.Init.(*ast.InitializerListExpr)
	require.True(t, ok)
	require.Len(t, initList.Items, 3)
}

func TestParseVariadicFunction(t *testing.T) {
	ch, _ := parse(t, `
int sum(int count, ...) {
    return count;
}
`)
	fn := ch.Decls[0].(*ast.FuncDecl)
	require.True(t, fn.Variadic)
	require.Len(t, fn.Params, 2)
	require.Nil(t, fn.Params[1].Declarator)
}

func TestParseSyntaxErrorIsReported(t *testing.T) {
	b, _ := newBuilder()
	fset := token.NewFileSet()
	_, err := parser.ParseChunk(context.Background(), b, fset, "bad.c", []byte(`
int main(void) {
    int a = ;
    return a;
}
`))
	require.Error(t, err)
	require.True(t, b.HasError())
}
