package symbols

import (
	"fmt"

	"tinygo.org/x/go-llvm"
)

// JumpContext is one entry of the jump-target stack (§3.5): the basic
// blocks that break and continue should branch to from here. Loops push a
// context with both targets set; switch statements push one with
// CanContinue false (only break is meaningful inside a switch body).
type JumpContext struct {
	Break       llvm.BasicBlock
	Continue    llvm.BasicBlock
	CanContinue bool
}

// JumpStack resolves break/continue targets by walking outward from the
// innermost active loop or switch.
type JumpStack struct {
	contexts []JumpContext
}

// Push opens a new innermost jump context.
func (s *JumpStack) Push(ctx JumpContext) {
	s.contexts = append(s.contexts, ctx)
}

// Pop closes the innermost jump context.
func (s *JumpStack) Pop() {
	s.contexts = s.contexts[:len(s.contexts)-1]
}

// Break returns the innermost context's break target. An error is
// returned if the stack is empty (break outside a loop or switch, §7).
func (s *JumpStack) Break() (llvm.BasicBlock, error) {
	if len(s.contexts) == 0 {
		return llvm.BasicBlock{}, fmt.Errorf("break outside of a loop or switch")
	}
	return s.contexts[len(s.contexts)-1].Break, nil
}

// Continue walks contexts outward from the innermost until one supports
// continue (skipping switch contexts, which disable it) and returns its
// continue target. An error is returned if none is found (§7).
func (s *JumpStack) Continue() (llvm.BasicBlock, error) {
	for i := len(s.contexts) - 1; i >= 0; i-- {
		if s.contexts[i].CanContinue {
			return s.contexts[i].Continue, nil
		}
	}
	return llvm.BasicBlock{}, fmt.Errorf("continue outside of a loop")
}

// Depth reports how many jump contexts are currently pushed.
func (s *JumpStack) Depth() int { return len(s.contexts) }
