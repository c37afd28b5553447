package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatbrother/toyc-go/lang/token"
)

// Printer controls pretty-printing of AST nodes, one indented line per
// node in Walk order, for debug dumps that want a readable tree instead
// of reflect.DeepEqual diffs. The CLI's -E flag does not use it; it
// prints the preprocessed source text.
type Printer struct {
	// Output is the io.Writer to print to.
	Output io.Writer

	// Pos indicates the position printing mode. Defaults to PosNone.
	Pos token.PosMode

	// NodeFmt is the format string used to print each node. The verb must
	// be 's' or 'v'; the '#' and '-' flags and a width are supported.
	// Defaults to "%v".
	NodeFmt string
}

// Print pretty-prints the AST rooted at n. file is required whenever
// p.Pos != token.PosNone, since positions are resolved through it.
func (p *Printer) Print(n Node, file *token.File) error {
	if file == nil && p.Pos != token.PosNone {
		return fmt.Errorf("ast: file must be provided to print positions")
	}

	pp := &printer{w: p.Output, pos: p.Pos, nodeFmt: p.NodeFmt, file: file}
	if pp.nodeFmt == "" {
		pp.nodeFmt = "%v"
	}
	Walk(pp, n)
	return pp.err
}

type printer struct {
	w       io.Writer
	pos     token.PosMode
	nodeFmt string
	file    *token.File
	depth   int
	err     error
}

func (p *printer) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitExit || p.err != nil {
		p.depth--
		return nil
	}
	p.depth++
	p.printNode(n, p.depth-1)
	return p
}

func (p *printer) printNode(n Node, indent int) {
	if p.err != nil {
		return
	}

	format := "%s"
	args := []interface{}{strings.Repeat(". ", indent)}
	if p.pos != token.PosNone {
		format += "[%s] "
		start, _ := n.Span()
		args = append(args, token.FormatPos(p.pos, p.file.Position(start)))
	}
	format += p.nodeFmt + "\n"
	args = append(args, n)

	_, p.err = fmt.Fprintf(p.w, format, args...)
}
