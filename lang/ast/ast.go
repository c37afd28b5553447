// Package ast defines the tagged tree of expression and statement nodes
// built by the parser's ParserActions implementation. Every node owns its
// children (the tree has no cycles); a node's only non-owning references
// are TypeIdx handles into the type table, filled in as the parser (or,
// for inferred types, the code generator) resolves them.
//
// The node set and the Node/Visitor/Walk/Format machinery mirror the
// teacher's own ast package: a flat family of concrete structs rather than
// a class hierarchy, each implementing Span/Walk/Format, driven by an
// enter-exit Visitor instead of a virtual codegen() dispatch.
package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatbrother/toyc-go/lang/token"
	"github.com/fatbrother/toyc-go/lang/types"
)

// Node represents any node in the AST.
type Node interface {
	// Every Node implements fmt.Formatter so it can print a description of
	// itself. The only supported verbs are 'v' and 's'. The '#' flag prints
	// count information about child nodes. A width truncates or pads the
	// description; '-' pads on the right instead of the left, and '+'
	// disables padding (only truncation still applies).
	fmt.Formatter

	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)

	// Walk visits every direct child of the node.
	Walk(v Visitor)
}

// Expr represents an expression node.
type Expr interface {
	Node
	expr()
}

// Stmt represents a statement node.
type Stmt interface {
	Node

	// BlockEnding reports whether the statement must only appear as the
	// last statement of a block (return, break, continue, goto), or, in a
	// switch body, as the last one before the next case/default label.
	BlockEnding() bool
}

// Decl represents a top-level external declaration: a function definition
// or a global declaration (prototype or global variable).
type Decl interface {
	Node
	decl()
}

// Chunk is the root of a translation unit: a singly-linked list of
// external declarations, modeled here as a slice for idiomatic iteration.
type Chunk struct {
	Name  string // source file name, may be empty
	Decls []Decl
	EOF   token.Pos
}

func (n *Chunk) Format(f fmt.State, verb rune) {
	lbl := "chunk"
	if n.Name != "" {
		lbl += " " + n.Name
	}
	format(f, verb, n, lbl, map[string]int{"decls": len(n.Decls)})
}
func (n *Chunk) Span() (start, end token.Pos) {
	if len(n.Decls) == 0 {
		return n.EOF, n.EOF
	}
	start, _ = n.Decls[0].Span()
	return start, n.EOF
}
func (n *Chunk) Walk(v Visitor) {
	for _, d := range n.Decls {
		Walk(v, d)
	}
}

// Block represents a brace-delimited statement list, pushing one lexical
// scope.
type Block struct {
	Lbrace token.Pos
	Stmts  []Stmt
	Rbrace token.Pos
}

func (n *Block) Format(f fmt.State, verb rune) {
	format(f, verb, n, "block", map[string]int{"stmts": len(n.Stmts)})
}
func (n *Block) Span() (start, end token.Pos) { return n.Lbrace, n.Rbrace }
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}
func (n *Block) BlockEnding() bool { return false }

// format implements the shared Formatter body used by every node, matching
// the label-truncation/padding behavior described on Node.
func format(f fmt.State, verb rune, n Node, label string, counts map[string]int) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(%T)", verb, n)
		return
	}

	label = strings.ReplaceAll(label, "\r\n", "⏎")
	label = strings.ReplaceAll(label, "\n", "⏎")
	label = strings.ReplaceAll(label, "\t", "⭾")

	if w, ok := f.Width(); ok {
		minus, plus := f.Flag('-'), f.Flag('+')
		runes := []rune(label)
		if len(runes) >= w {
			runes = runes[:w]
		} else if minus {
			runes = append(runes, []rune(strings.Repeat(" ", w-len(runes)))...)
		} else if !plus {
			runes = append([]rune(strings.Repeat(" ", w-len(runes))), runes...)
		}
		label = string(runes)
	}

	fmt.Fprint(f, label)
	if f.Flag('#') && len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprint(f, " {")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(f, ", ")
			}
			fmt.Fprintf(f, "%s=%d", k, counts[k])
		}
		fmt.Fprint(f, "}")
	}
}

// typeString renders a TypeIdx for diagnostics when a *types.Table is
// available; nodes only store the index, never the table itself.
func typeString(tab *types.Table, idx types.Idx) string {
	if tab == nil || idx == types.Invalid {
		return ""
	}
	return tab.String(idx)
}
