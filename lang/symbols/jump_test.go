package symbols_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatbrother/toyc-go/lang/symbols"
)

func TestBreakOutsideAnyContextErrors(t *testing.T) {
	var s symbols.JumpStack
	_, err := s.Break()
	require.Error(t, err)
}

func TestContinueOutsideAnyContextErrors(t *testing.T) {
	var s symbols.JumpStack
	_, err := s.Continue()
	require.Error(t, err)
}

func TestContinueSkipsSwitchContext(t *testing.T) {
	var s symbols.JumpStack
	s.Push(symbols.JumpContext{CanContinue: true})
	s.Push(symbols.JumpContext{CanContinue: false}) // switch: continue disabled

	_, err := s.Continue()
	require.NoError(t, err, "continue must walk outward past the switch context to the loop")
}

func TestPushPopTracksDepth(t *testing.T) {
	var s symbols.JumpStack
	s.Push(symbols.JumpContext{CanContinue: true})
	s.Push(symbols.JumpContext{CanContinue: false})
	require.Equal(t, 2, s.Depth())

	s.Pop()
	require.Equal(t, 1, s.Depth())
}
