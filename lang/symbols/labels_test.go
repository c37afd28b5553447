package symbols_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"tinygo.org/x/go-llvm"

	"github.com/fatbrother/toyc-go/lang/symbols"
	"github.com/fatbrother/toyc-go/lang/token"
)

func TestGotoBeforeDefinitionIsPending(t *testing.T) {
	lt := symbols.NewLabelTable()
	calls := 0
	lt.Goto("retry", token.Pos(5), func() llvm.BasicBlock {
		calls++
		return llvm.BasicBlock{}
	})

	pending := lt.Pending()
	require.Contains(t, pending, "retry")
	require.Equal(t, token.Pos(5), pending["retry"])
	require.Equal(t, 1, calls)
}

func TestDefineAfterGotoClearsPending(t *testing.T) {
	lt := symbols.NewLabelTable()
	lt.Goto("retry", token.Pos(5), func() llvm.BasicBlock { return llvm.BasicBlock{} })
	require.Contains(t, lt.Pending(), "retry")

	lt.Define("retry", func() llvm.BasicBlock {
		t.Fatal("Define must reuse the goto's placeholder block, not create a new one")
		return llvm.BasicBlock{}
	})
	require.NotContains(t, lt.Pending(), "retry")
}

func TestDefineThenGotoReusesBlockWithoutPending(t *testing.T) {
	lt := symbols.NewLabelTable()
	lt.Define("done", func() llvm.BasicBlock { return llvm.BasicBlock{} })

	calls := 0
	lt.Goto("done", token.Pos(9), func() llvm.BasicBlock {
		calls++
		return llvm.BasicBlock{}
	})
	require.Equal(t, 0, calls, "goto to an already-defined label must not allocate a new block")
	require.NotContains(t, lt.Pending(), "done")
}

func TestMultipleUnresolvedGotosAllReportPending(t *testing.T) {
	lt := symbols.NewLabelTable()
	lt.Goto("a", token.Pos(1), func() llvm.BasicBlock { return llvm.BasicBlock{} })
	lt.Goto("b", token.Pos(2), func() llvm.BasicBlock { return llvm.BasicBlock{} })
	require.Len(t, lt.Pending(), 2)
}
