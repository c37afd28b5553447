package symbols

import (
	"tinygo.org/x/go-llvm"

	"github.com/fatbrother/toyc-go/lang/token"
)

// LabelTable is the per-function label-name -> basic-block map described
// in §3.6, plus the set of labels referenced by a goto before their
// definition was seen. Resolve reports every name still pending once the
// function body has been fully lowered (§4.3.2 Goto: "at function end,
// any remaining pending-goto is an error").
type LabelTable struct {
	blocks  map[string]llvm.BasicBlock
	pending map[string]token.Pos
}

// NewLabelTable creates an empty label table, ready for one function.
func NewLabelTable() *LabelTable {
	return &LabelTable{
		blocks:  make(map[string]llvm.BasicBlock),
		pending: make(map[string]token.Pos),
	}
}

// Goto resolves the basic block a `goto name` should branch to. If the
// label has not been seen yet, make is called to create a placeholder
// block and the label is recorded as pending until Define is called for
// it.
func (t *LabelTable) Goto(name string, pos token.Pos, make_ func() llvm.BasicBlock) llvm.BasicBlock {
	if bb, ok := t.blocks[name]; ok {
		return bb
	}
	bb := make_()
	t.blocks[name] = bb
	t.pending[name] = pos
	return bb
}

// Define resolves the basic block backing a `name:` label statement. If a
// goto already created a placeholder for this name, that same block is
// reused (and the name is cleared from pending) so every branch that
// targeted it lands correctly; otherwise make is called to create it.
func (t *LabelTable) Define(name string, make_ func() llvm.BasicBlock) llvm.BasicBlock {
	if bb, ok := t.blocks[name]; ok {
		delete(t.pending, name)
		return bb
	}
	bb := make_()
	t.blocks[name] = bb
	return bb
}

// Pending returns the source positions of every goto whose target label
// was never defined, keyed by label name. An empty result means every
// goto in the function resolved.
func (t *LabelTable) Pending() map[string]token.Pos {
	return t.pending
}
