// Package errs implements the compiler's shared diagnostic collection and
// the error-reporting pretty printer described in the specification: a
// message tagged with a file/line/column, formatted with the source line
// and a caret pointing at the offending column.
//
// This mirrors how the teacher's scanner package leaned on go/scanner's
// ErrorList (sorted, deduplicated, implementing Unwrap() []error) rather
// than inventing a bespoke error type; every phase of this compiler
// (preprocessor, scanner, parser, codegen) accumulates into the same List
// type so the CLI driver has one shape of error to print.
package errs

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatbrother/toyc-go/lang/token"
)

// Error is a single diagnostic at a resolved source position.
type Error struct {
	Pos token.Position
	Msg string
}

func (e Error) Error() string {
	if !e.Pos.IsValid() {
		return e.Msg
	}
	return fmt.Sprintf("%s: error: %s", token.FormatPos(token.PosLong, e.Pos), e.Msg)
}

// List collects diagnostics from a compiler phase. Its zero value is ready
// to use. At most one diagnostic per originating source location survives
// a call to Dedup, so cascading errors at the same position don't pile up.
type List struct {
	errs []Error
}

// Add appends a diagnostic at the given position.
func (p *List) Add(pos token.Position, msg string) {
	p.errs = append(p.errs, Error{Pos: pos, Msg: msg})
}

// Addf appends a formatted diagnostic.
func (p *List) Addf(pos token.Position, format string, args ...any) {
	p.Add(pos, fmt.Sprintf(format, args...))
}

// Len reports how many diagnostics have been collected.
func (p *List) Len() int { return len(p.errs) }

// Sort orders diagnostics by filename then position.
func (p *List) Sort() {
	sort.SliceStable(p.errs, func(i, j int) bool {
		a, b := p.errs[i].Pos, p.errs[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// Dedup removes diagnostics that share the exact same position as a
// previous one in the list, keeping only the first (per §7: "at most one
// diagnostic per originating source location; cascades are suppressed").
func (p *List) Dedup() {
	if len(p.errs) == 0 {
		return
	}
	seen := make(map[token.Position]bool, len(p.errs))
	out := p.errs[:0]
	for _, e := range p.errs {
		if seen[e.Pos] {
			continue
		}
		seen[e.Pos] = true
		out = append(out, e)
	}
	p.errs = out
}

// Err returns nil if the list is empty, the single error if it has exactly
// one, or the list itself (which implements Unwrap() []error) otherwise.
func (p *List) Err() error {
	switch len(p.errs) {
	case 0:
		return nil
	case 1:
		return p.errs[0]
	default:
		return p
	}
}

func (p *List) Error() string {
	var sb strings.Builder
	for i, e := range p.errs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Unwrap exposes every collected diagnostic so errors.Is/As can traverse
// them, matching the teacher's go/scanner.ErrorList contract.
func (p *List) Unwrap() []error {
	out := make([]error, len(p.errs))
	for i, e := range p.errs {
		out[i] = e
	}
	return out
}

// PrintError renders err (a single Error, a *List, or any error) to w using
// the compiler's diagnostic format:
//
//	<file>:<line>:<column>: error: <message>
//	<source line text>
//	<spaces/tabs aligned to column>^
//
// Tabs in the source line are copied verbatim into the indicator line so
// that terminal tab stops line the caret up with the offending column,
// per §6.3.
func PrintError(w io.Writer, err error, lineText func(token.Position) string) {
	if err == nil {
		return
	}
	var list []Error
	switch e := err.(type) {
	case *List:
		list = e.errs
	case Error:
		list = []Error{e}
	default:
		fmt.Fprintln(w, err)
		return
	}
	for _, e := range list {
		fmt.Fprintln(w, e.Error())
		if lineText == nil || !e.Pos.IsValid() {
			continue
		}
		src := lineText(e.Pos)
		if src == "" {
			continue
		}
		fmt.Fprintln(w, src)
		fmt.Fprintln(w, caretLine(src, e.Pos.Column))
	}
}

// caretLine builds the indicator line: runes before column-1 are replaced
// with a copy of themselves if they are tabs (to preserve terminal tab
// alignment) or a space otherwise, followed by '^'.
func caretLine(src string, col int) string {
	runes := []rune(src)
	n := col - 1
	if n > len(runes) {
		n = len(runes)
	}
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if runes[i] == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	sb.WriteByte('^')
	return sb.String()
}
