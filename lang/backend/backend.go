// Package backend wraps tinygo.org/x/go-llvm's target machine and object
// emission API behind the two calls the rest of the compiler needs (§4.5
// Backend wrapper): a target machine stood up before code generation
// starts (lang/codegen needs its TargetData to answer sizeof while it
// lowers, ahead of where spec §4.5 lists this step), and a final call that
// stamps the finished module with that target's data layout/triple and
// writes it out.
package backend

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"tinygo.org/x/go-llvm"
)

var initTargets sync.Once

// Machine owns the target machine and data layout for one compilation; it
// is created once, before lang/codegen.NewContext, and disposed once the
// module has been emitted.
type Machine struct {
	triple string
	target llvm.TargetMachine
	layout llvm.TargetData
}

// NewHostMachine detects the host triple (§4.5: "detect the host triple")
// and creates a target machine for it: default CPU, no extra features,
// position-independent code (§4.5 names PIC specifically, unlike the
// RelocDefault of the go-vslc example file DESIGN.md cites).
func NewHostMachine() (*Machine, error) {
	return NewMachine(llvm.DefaultTargetTriple())
}

// NewMachine creates a target machine for an explicit triple, so a
// cross-compiling caller (not currently exposed by the CLI, but not
// precluded by it either) can bypass host detection.
func NewMachine(triple string) (*Machine, error) {
	initTargets.Do(func() {
		llvm.InitializeAllTargetInfos()
		llvm.InitializeAllTargets()
		llvm.InitializeAllTargetMCs()
		llvm.InitializeAllAsmParsers()
		llvm.InitializeAllAsmPrinters()
	})

	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return nil, fmt.Errorf("backend: %s: %w", triple, err)
	}
	tm := target.CreateTargetMachine(triple, "generic", "",
		llvm.CodeGenLevelDefault, llvm.RelocPIC, llvm.CodeModelDefault)

	return &Machine{
		triple: triple,
		target: tm,
		layout: tm.CreateTargetData(),
	}, nil
}

// DataLayout is the TargetData lang/codegen needs to answer sizeof
// (§4.3.1) while lowering, before the module as a whole is finished.
func (m *Machine) DataLayout() llvm.TargetData { return m.layout }

// Dispose releases the target machine and its data layout.
func (m *Machine) Dispose() {
	m.layout.Dispose()
	m.target.Dispose()
}

// Stamp sets mod's data layout and target triple to this machine's (§4.5:
// "set the module's data layout and triple"), done once code generation
// has finished building the module.
func (m *Machine) Stamp(mod llvm.Module) {
	mod.SetDataLayout(m.layout.String())
	mod.SetTarget(m.triple)
}

// EmitObject runs the object-emission pass manager over mod and writes the
// result to path (§4.5: "run a pass manager configured for object-file
// emission, close the file").
func (m *Machine) EmitObject(mod llvm.Module, path string) error {
	return m.emit(mod, path, llvm.ObjectFile)
}

// EmitAssembly writes mod's target assembly instead of an object file,
// backing the CLI's -S-equivalent needs if ever exposed; EmitIR (textual
// LLVM IR, for -l) does not go through the target machine at all since it
// isn't target-specific.
func (m *Machine) EmitAssembly(mod llvm.Module, path string) error {
	return m.emit(mod, path, llvm.AssemblyFile)
}

func (m *Machine) emit(mod llvm.Module, path string, ft llvm.CodeGenFileType) error {
	buf, err := m.target.EmitToMemoryBuffer(mod, ft)
	if err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	if buf.IsNil() {
		return errors.New("backend: emitted memory buffer is nil")
	}
	defer buf.Dispose()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("backend: writing %s: %w", path, err)
	}
	return nil
}

// EmitIR writes mod's textual LLVM IR representation to path (§6.1's -l
// flag), independent of any target machine.
func EmitIR(mod llvm.Module, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(mod.String()); err != nil {
		return fmt.Errorf("backend: writing %s: %w", path, err)
	}
	return nil
}
