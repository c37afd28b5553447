// Package symbols implements the three lexical bookkeeping stacks the
// code generator owns while walking a function body: the scope stack
// (name -> storage slot/type), the jump-target stack (break/continue
// resolution) and the per-function label table (goto resolution). All
// three are described in spec §3.4-3.6 as simple stack/map structures
// over backend basic-block and value handles, so they are built directly
// against tinygo.org/x/go-llvm's BasicBlock/Value types rather than
// behind a generic abstraction the code generator would have to unwrap
// immediately anyway.
//
// The scoping rules (innermost-first lookup, insertion always targets the
// innermost scope, redeclaration in the same scope is an error) mirror
// the teacher's resolver package's block/Binding push/pop discipline,
// generalized from the teacher's closures-and-labels model (which tracks
// free variables and defer/catch frontiers) down to this project's
// simpler lexical-block-only scoping.
package symbols

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/fatbrother/toyc-go/lang/types"
)

// Binding is what a scope maps a name to: the storage slot (an alloca)
// backing the variable, and its resolved type.
type Binding struct {
	Slot llvm.Value
	Type types.Idx
}

// scope is one lexical block's name -> Binding mapping.
type scope struct {
	bindings map[string]*Binding
}

// ScopeStack is the parallel stack of scopes described in §3.4. The
// global scope lives at the bottom and is never popped during a
// function's lowering.
type ScopeStack struct {
	scopes []*scope
}

// NewScopeStack creates a stack with the global scope already pushed.
func NewScopeStack() *ScopeStack {
	s := &ScopeStack{}
	s.Push()
	return s
}

// Push opens a new, empty innermost scope.
func (s *ScopeStack) Push() {
	s.scopes = append(s.scopes, &scope{bindings: make(map[string]*Binding)})
}

// Pop closes the innermost scope. It panics if called with only the
// global scope remaining, since that scope's lifetime is the whole
// compilation (§3.4: "the global scope lives at the bottom").
func (s *ScopeStack) Pop() {
	if len(s.scopes) <= 1 {
		panic("symbols: cannot pop the global scope")
	}
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// Declare inserts name into the innermost scope. It returns an error if
// name is already bound in that same scope (§4.4: "redeclaration in the
// same scope is an error, except when the new declaration completes a
// previous forward function declaration" — the forward-declaration
// exception is handled by the caller, which is expected to check for it
// before calling Declare).
func (s *ScopeStack) Declare(name string, b *Binding) error {
	top := s.scopes[len(s.scopes)-1]
	if _, ok := top.bindings[name]; ok {
		return fmt.Errorf("redeclaration of %q in the same scope", name)
	}
	top.bindings[name] = b
	return nil
}

// Lookup searches scopes from innermost to outermost and returns the
// first binding found, or nil if name is undeclared.
func (s *ScopeStack) Lookup(name string) *Binding {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if b, ok := s.scopes[i].bindings[name]; ok {
			return b
		}
	}
	return nil
}

// LookupLocal returns the binding for name in the innermost scope only,
// or nil — used to detect same-scope redeclaration before Declare fails.
func (s *ScopeStack) LookupLocal(name string) *Binding {
	top := s.scopes[len(s.scopes)-1]
	return top.bindings[name]
}

// Depth reports how many scopes are currently pushed, including the
// global scope.
func (s *ScopeStack) Depth() int { return len(s.scopes) }
