// Package token defines source positions and the lexical tokens of the
// ToyC language, along with a FileSet that tracks line boundaries across
// one or more source files so positions can be resolved to file:line:col
// for diagnostics.
//
// The FileSet/File/Pos trio mirrors the standard library's go/token
// package, the same model the original compiler's error handler used
// (file, 1-based line, 1-based column).
package token

import (
	"fmt"
	"sort"
	"sync"
)

// Pos is an opaque source position: a byte offset into the concatenated
// space of all files registered in a FileSet. The zero value means "no
// position".
type Pos int

// NoPos is the zero value of Pos; it is never a valid position.
const NoPos Pos = 0

// IsValid reports whether p is a valid position.
func (p Pos) IsValid() bool { return p != NoPos }

// Position describes a resolved, human-readable source location.
type Position struct {
	Filename string
	Line     int // 1-based
	Column   int // 1-based
}

// IsValid reports whether the position contains usable line information.
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// File tracks line-start offsets for a single source file registered in a
// FileSet, so that a Pos can be resolved back to a line and column.
type File struct {
	name  string
	base  int // offset of this file's first byte in the FileSet's address space
	size  int
	mu    sync.Mutex
	lines []int  // byte offsets of the start of each line, lines[0] == 0
	src   []byte // optional: full content, set by SetContent, used to render diagnostics
}

// SetContent attaches the file's raw bytes so that LineText can render the
// source line for a diagnostic. Scanning a file already computes line
// boundaries via AddLine; SetContent is only needed for error display.
func (f *File) SetContent(src []byte) { f.src = src }

// LineText returns the raw text of the given 1-based line number, without
// its trailing newline, or "" if unknown.
func (f *File) LineText(line int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.src == nil || line < 1 || line > len(f.lines) {
		return ""
	}
	start := f.lines[line-1]
	end := f.size
	if line < len(f.lines) {
		end = f.lines[line]
	}
	text := f.src[start:end]
	text = trimEOL(text)
	return string(text)
}

func trimEOL(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

// Name returns the file's name as registered with the FileSet.
func (f *File) Name() string { return f.name }

// Size returns the file's size in bytes.
func (f *File) Size() int { return f.size }

// Pos returns the Pos corresponding to the given byte offset in this file.
func (f *File) Pos(offset int) Pos {
	if offset > f.size {
		offset = f.size
	}
	return Pos(f.base + offset)
}

// Offset returns the byte offset of p within this file.
func (f *File) Offset(p Pos) int {
	off := int(p) - f.base
	if off < 0 {
		off = 0
	}
	if off > f.size {
		off = f.size
	}
	return off
}

// AddLine records the start of a new line at the given byte offset. Offsets
// must be added in increasing order; out-of-order or duplicate offsets are
// ignored.
func (f *File) AddLine(offset int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n := len(f.lines); (n == 0 || f.lines[n-1] < offset) && offset < f.size+1 {
		f.lines = append(f.lines, offset)
	}
}

// Position resolves p, which must belong to this file, to a line and column.
func (f *File) Position(p Pos) Position {
	off := f.Offset(p)
	f.mu.Lock()
	i := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > off }) - 1
	f.mu.Unlock()
	if i < 0 {
		i = 0
	}
	lineStart := 0
	if i < len(f.lines) {
		lineStart = f.lines[i]
	}
	return Position{Filename: f.name, Line: i + 1, Column: off - lineStart + 1}
}

// FileSet is a mutable registry of source files sharing one Pos address
// space, so that Pos values from different files never collide and can be
// resolved back to the right file.
type FileSet struct {
	mu    sync.Mutex
	base  int
	files []*File
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{base: 1}
}

// AddFile registers a new file of the given size (in bytes) and returns its
// handle. Every subsequent Pos for bytes in this file must be obtained via
// File.Pos on the returned *File.
func (s *FileSet) AddFile(name string, size int) *File {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := &File{name: name, base: s.base, size: size, lines: []int{0}}
	s.files = append(s.files, f)
	s.base += size + 1 // +1 so consecutive files never share a Pos
	return f
}

// File returns the file that contains p, or nil if no registered file
// contains it.
func (s *FileSet) File(p Pos) *File {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := sort.Search(len(s.files), func(i int) bool { return s.files[i].base > int(p) }) - 1
	if i < 0 || i >= len(s.files) {
		return nil
	}
	return s.files[i]
}

// Position resolves p using whichever registered file contains it.
func (s *FileSet) Position(p Pos) Position {
	if f := s.File(p); f != nil {
		return f.Position(p)
	}
	return Position{}
}

// PosMode controls how FormatPos renders a Position.
type PosMode int

const (
	// PosNone omits position information entirely.
	PosNone PosMode = iota
	// PosShort prints only line:column.
	PosShort
	// PosLong prints file:line:column.
	PosLong
)

// FormatPos formats p according to mode, optionally including the
// filename (the long form used for diagnostics, per the error reporter's
// "<file>:<line>:<column>:" prefix).
func FormatPos(mode PosMode, p Position) string {
	switch mode {
	case PosNone:
		return ""
	case PosShort:
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	default:
		return p.String()
	}
}
