// Package codegen lowers a ToyC translation unit (the AST built by
// lang/parseractions) to LLVM IR via tinygo.org/x/go-llvm. Every AST node
// is lowered by a small codegen operation that returns either success or an
// error (§4.3's Result shapes ExprResult/AllocResult/StmtResult are
// rendered here as ordinary Go (T, error) returns - a dedicated StmtResult
// struct would just rebox the same ok/error_message pair under a new name,
// and Go's multi-value return already is the idiomatic way to carry that).
//
// The three lexical stacks a function body needs while lowering - scope,
// jump targets, labels - are package symbols; this package only ever reads
// and mutates them through that package's narrow API, never the backend
// types directly, mirroring how the teacher's compiler package treats its
// resolver's Binding/Scope types as opaque inputs rather than reimplementing
// scoping itself.
package codegen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/fatbrother/toyc-go/lang/errs"
	"github.com/fatbrother/toyc-go/lang/symbols"
	"github.com/fatbrother/toyc-go/lang/token"
	"github.com/fatbrother/toyc-go/lang/types"
)

// function is the whole-translation-unit table entry used to resolve calls
// and to recognize the one redeclaration exception spec §4.4 allows: a
// later declaration that merely completes an earlier prototype with the
// same signature.
type function struct {
	Value    llvm.Value
	Params   []types.Idx
	Variadic bool
	Return   types.Idx
	Defined  bool
}

// Context is the single mutable state threaded through every codegen call
// (§9: "From global mutable state ... to explicit context"). It owns the
// backend module/builder pair for one translation unit, the shared Type
// Table, the three lexical stacks from package symbols, and the diagnostic
// sink every phase of this compiler reports into (lang/errs).
type Context struct {
	llctx   llvm.Context
	Module  llvm.Module
	Builder llvm.Builder

	Types  *types.Table
	Files  *token.FileSet
	Errors *errs.List

	// DataLayout answers sizeof (§4.3.1) during codegen itself, not only at
	// final object emission; it comes from the target machine lang/backend
	// creates up front; see DESIGN.md for why triple detection has to
	// happen before codegen rather than after it, ahead of spec §4.5's
	// listed order.
	DataLayout llvm.TargetData

	Scopes *symbols.ScopeStack
	Jumps  *symbols.JumpStack
	Labels *symbols.LabelTable

	functions map[string]*function
	strings   int

	fn       llvm.Value
	fnReturn types.Idx
}

// NewContext creates a Context ready to lower one translation unit into a
// freshly created module named name.
func NewContext(name string, dataLayout llvm.TargetData, tab *types.Table, files *token.FileSet, errors *errs.List) *Context {
	c := &Context{
		Types:      tab,
		Files:      files,
		Errors:     errors,
		DataLayout: dataLayout,
		Scopes:     symbols.NewScopeStack(),
		Jumps:      &symbols.JumpStack{},
		functions:  make(map[string]*function),
	}
	c.llctx = llvm.NewContext()
	c.Module = c.llctx.NewModule(name)
	c.Builder = c.llctx.NewBuilder()
	c.Types.SetContext(&c.llctx)
	return c
}

// Dispose releases the backend objects owned by this Context (§5: "Backend
// objects ... live for the compilation's duration and are released together
// at the end").
func (c *Context) Dispose() {
	c.Builder.Dispose()
	c.llctx.Dispose()
}

// errorf records a diagnostic at pos and returns it as a Go error so the
// caller can return immediately; every codegen operation's error path goes
// through here so there is exactly one place that touches c.Errors.
func (c *Context) errorf(pos token.Pos, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	c.Errors.Add(c.Files.Position(pos), msg)
	return fmt.Errorf("%s", msg)
}

// block returns the builder's current insertion block.
func (c *Context) block() llvm.BasicBlock { return c.Builder.GetInsertBlock() }

// newBlock appends a new basic block to the function currently being
// lowered, named for readability when the module is dumped with -l.
func (c *Context) newBlock(name string) llvm.BasicBlock {
	return llvm.AddBasicBlock(c.fn, name)
}

// entryAlloca creates a stack slot for typ in the current function's entry
// block rather than at the current insertion point, so every fixed-size
// local lives in one place regardless of how deeply the declaring scope is
// nested. VLAs are the one exception (decl.go allocates those at their
// point of declaration, since their size is only known there).
func (c *Context) entryAlloca(typ llvm.Type, name string) llvm.Value {
	saved := c.block()
	entry := c.fn.EntryBasicBlock()
	if first := entry.FirstInstruction(); !first.IsNil() {
		c.Builder.SetInsertPointBefore(first)
	} else {
		c.Builder.SetInsertPointAtEnd(entry)
	}
	alloca := c.Builder.CreateAlloca(typ, name)
	c.Builder.SetInsertPointAtEnd(saved)
	return alloca
}

// nextStringName returns a fresh, unique name for a string literal's
// backing global constant.
func (c *Context) nextStringName() string {
	c.strings++
	return fmt.Sprintf(".str.%d", c.strings)
}

// ExprResult is the value produced by lowering an expression for its
// r-value: a backend value plus the ToyC type it carries (§4.3's
// ExprResult).
type ExprResult struct {
	Value llvm.Value
	Type  types.Idx
}

// AllocResult is the address produced by lowering an expression as an
// l-value: the slot's address plus the type stored there (§4.3's
// AllocResult).
type AllocResult struct {
	Slot llvm.Value
	Type types.Idx
}
