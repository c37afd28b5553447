package symbols_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatbrother/toyc-go/lang/symbols"
	"github.com/fatbrother/toyc-go/lang/types"
)

func TestLookupWalksInnermostFirst(t *testing.T) {
	s := symbols.NewScopeStack()
	tab := types.NewTable()
	intT := tab.Primitive(types.Int)

	require.NoError(t, s.Declare("x", &symbols.Binding{Type: intT}))

	s.Push()
	shadow := &symbols.Binding{Type: tab.Primitive(types.Float)}
	require.NoError(t, s.Declare("x", shadow))
	require.Same(t, shadow, s.Lookup("x"))
	s.Pop()

	require.NotSame(t, shadow, s.Lookup("x"))
}

func TestDeclareSameScopeRedeclarationErrors(t *testing.T) {
	s := symbols.NewScopeStack()
	require.NoError(t, s.Declare("x", &symbols.Binding{}))
	require.Error(t, s.Declare("x", &symbols.Binding{}))
}

func TestDeclareShadowingInChildScopeIsFine(t *testing.T) {
	s := symbols.NewScopeStack()
	require.NoError(t, s.Declare("x", &symbols.Binding{}))
	s.Push()
	require.NoError(t, s.Declare("x", &symbols.Binding{}))
	s.Pop()
}

func TestPopGlobalScopePanics(t *testing.T) {
	s := symbols.NewScopeStack()
	require.Panics(t, func() { s.Pop() })
}

func TestLookupLocalOnlyChecksInnermost(t *testing.T) {
	s := symbols.NewScopeStack()
	require.NoError(t, s.Declare("x", &symbols.Binding{}))
	s.Push()
	require.Nil(t, s.LookupLocal("x"))
	require.NotNil(t, s.Lookup("x"))
}

func TestLookupUndeclaredReturnsNil(t *testing.T) {
	s := symbols.NewScopeStack()
	require.Nil(t, s.Lookup("nope"))
}
