// Package preprocessor implements a from-scratch, text-level C
// preprocessor: line continuation joining, object and function macro
// expansion, conditional compilation (#if/#ifdef/#ifndef/#elif/#else/
// #endif), and #include resolution against a configurable search path.
//
// It never builds a token stream or AST; every transformation operates
// on whole lines of text, the same granularity the system it is
// modeled on uses.
package preprocessor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatbrother/toyc-go/lang/errs"
	"github.com/fatbrother/toyc-go/lang/token"
)

// Preprocessor holds the macro table, include search path, and
// conditional-compilation state needed to expand one translation unit.
// It is not safe for concurrent use, and is meant to be constructed
// once per translation unit via New.
type Preprocessor struct {
	macros       map[string]Macro
	includePaths []string
	including    map[string]bool // cycle guard: files currently being included

	condStack []conditionalState

	currentFile string
	currentLine int

	errs errs.List
}

// New returns a Preprocessor seeded with the predefined macros and
// system include paths every translation unit gets regardless of
// command-line flags.
func New() *Preprocessor {
	p := &Preprocessor{
		macros:       make(map[string]Macro),
		includePaths: []string{"/usr/include", "/usr/local/include"},
		including:    make(map[string]bool),
	}
	p.macros["__STDC__"] = Macro{Name: "__STDC__", Body: "1"}
	p.macros["__STDC_VERSION__"] = Macro{Name: "__STDC_VERSION__", Body: "199901L"}
	return p
}

// AddIncludePath registers a user search directory (-I). It is
// prepended so that, once New() has seeded the two predefined system
// paths, user-supplied paths are still searched first.
func (p *Preprocessor) AddIncludePath(dir string) {
	p.includePaths = append([]string{dir}, p.includePaths...)
}

// Define seeds an object macro from the command line (-Dname or
// -Dname=value), with value defaulting to "1" when omitted.
func (p *Preprocessor) Define(name, value string) {
	if value == "" {
		value = "1"
	}
	p.macros[name] = Macro{Name: name, Body: value}
}

// Errors returns the diagnostics accumulated across all Preprocess
// calls made with this Preprocessor so far.
func (p *Preprocessor) Errors() *errs.List { return &p.errs }

func (p *Preprocessor) errorf(format string, args ...any) {
	p.errs.Addf(token.Position{Filename: p.currentFile, Line: p.currentLine, Column: 1}, format, args...)
}

// Preprocess reads filename from disk and returns its fully expanded
// text. Diagnostics are accumulated on p.Errors(); a non-nil error is
// only returned for an unreadable root file, since downstream
// diagnostics (bad directives, missing includes, macro errors) are
// reported rather than treated as fatal, matching the main compiler's
// convention of collecting every diagnostic before giving up.
func (p *Preprocessor) Preprocess(filename string) (string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("preprocessor: %w", err)
	}

	// The root file is deliberately not registered in the cycle guard,
	// matching the original: only #include'd files ever enter
	// p.including, so a header that (directly or transitively) includes
	// the root file back will re-emit the root's content once more
	// before the cycle is caught one level deeper.
	out := p.preprocessContent(string(content), filename)
	if len(p.condStack) > 0 {
		p.errorf("missing #endif at end of file")
	}
	return out, nil
}

// preprocessContent expands the text of one file already read into
// memory, used both for the root file and recursively for #include.
func (p *Preprocessor) preprocessContent(content, filename string) string {
	prevFile, prevLine := p.currentFile, p.currentLine
	p.currentFile = filename
	defer func() { p.currentFile, p.currentLine = prevFile, prevLine }()

	lines := joinContinuations(strings.Split(content, "\n"))

	var out strings.Builder
	for i, line := range lines {
		p.currentLine = i + 1
		p.processLine(&out, line, filepath.Dir(filename))
	}
	return out.String()
}

// joinContinuations merges any line ending in a bare backslash with the
// line that follows it, the textual join C source performs before any
// other preprocessing step.
func joinContinuations(lines []string) []string {
	var out []string
	var pending string
	for _, l := range lines {
		if strings.HasSuffix(l, "\\") {
			pending += strings.TrimSuffix(l, "\\")
			continue
		}
		out = append(out, pending+l)
		pending = ""
	}
	if pending != "" {
		out = append(out, pending)
	}
	return out
}

// processLine dispatches one logical (continuation-joined) line: a
// line whose first non-blank character is '#' is a directive, handled
// regardless of the current activeness so that #else/#elif/#endif can
// still observe and pop the conditional stack; every other line is
// macro-expanded and emitted only when shouldIncludeCode() is true.
func (p *Preprocessor) processLine(out *strings.Builder, line, dir string) {
	trimmed := trimSpace(line)
	if strings.HasPrefix(trimmed, "#") {
		p.processDirective(out, trimmed, dir)
		return
	}
	if !p.shouldIncludeCode() {
		return
	}
	out.WriteString(p.expandMacros(line))
	out.WriteByte('\n')
}

func (p *Preprocessor) processDirective(out *strings.Builder, line, dir string) {
	name, rest := splitDirective(line)
	switch name {
	case "define":
		if p.shouldIncludeCode() {
			p.handleDefine(rest)
		}
	case "undef":
		if p.shouldIncludeCode() {
			delete(p.macros, trimSpace(rest))
		}
	case "include":
		if p.shouldIncludeCode() {
			p.handleInclude(out, rest, dir)
		}
	case "ifdef":
		cond := p.isDefined(trimSpace(rest))
		p.condStack = append(p.condStack, conditionalState{
			condition: cond,
			isActive:  p.parentActive() && cond,
		})
	case "ifndef":
		cond := !p.isDefined(trimSpace(rest))
		p.condStack = append(p.condStack, conditionalState{
			condition: cond,
			isActive:  p.parentActive() && cond,
		})
	case "if":
		cond := p.evaluateCondition(rest)
		p.condStack = append(p.condStack, conditionalState{
			condition: cond,
			isActive:  p.parentActive() && cond,
		})
	case "elif":
		p.handleElif(rest)
	case "else":
		p.handleElse()
	case "endif":
		p.handleEndif()
	default:
		// Unknown directives (e.g. #pragma, #error, #line) are left
		// unrecognized by this preprocessor; they are dropped silently
		// (nothing is written to the output), matching the "every other
		// directive is ignored" behavior of the original, rather than
		// rejected.
	}
}

func (p *Preprocessor) handleDefine(rest string) {
	rest = trimSpace(rest)
	if rest == "" {
		return
	}
	name := rest
	body := ""
	paramsStr := ""
	isFunction := false

	end := strings.IndexFunc(rest, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '('
	})
	if end < 0 {
		name = rest
	} else {
		name = rest[:end]
		if rest[end] == '(' {
			isFunction = true
			closeIdx := strings.Index(rest[end:], ")")
			if closeIdx < 0 {
				return
			}
			paramsStr = rest[end+1 : end+closeIdx]
			body = trimSpace(rest[end+closeIdx+1:])
		} else {
			body = trimSpace(rest[end:])
		}
	}
	if !isValidIdentifier(name) {
		p.errorf("invalid macro name %q", name)
		return
	}

	var params []string
	if isFunction && trimSpace(paramsStr) != "" {
		for _, part := range strings.Split(paramsStr, ",") {
			params = append(params, trimSpace(part))
		}
	}

	p.macros[name] = Macro{Name: name, Params: params, Body: body, IsFunction: isFunction}
}

func (p *Preprocessor) handleInclude(out *strings.Builder, rest string, dir string) {
	rest = trimSpace(rest)
	if len(rest) < 2 {
		p.errorf("malformed #include directive")
		return
	}
	local := rest[0] == '"'
	var name string
	if local {
		end := strings.LastIndex(rest, "\"")
		if end <= 0 {
			p.errorf("malformed #include directive")
			return
		}
		name = rest[1:end]
	} else if rest[0] == '<' {
		end := strings.LastIndex(rest, ">")
		if end <= 0 {
			p.errorf("malformed #include directive")
			return
		}
		name = rest[1:end]
	} else {
		p.errorf("malformed #include directive")
		return
	}

	path := p.findIncludeFile(name, local, dir)
	if path == "" {
		p.errorf("cannot find include file %q", name)
		return
	}

	abs, _ := filepath.Abs(path)
	if p.including[abs] {
		// Include cycle: silently contributes nothing, matching the
		// original rather than erroring, since a defensive #ifndef
		// header guard pattern is expected to make this the common case.
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		p.errorf("cannot read include file %q: %v", name, err)
		return
	}

	p.including[abs] = true
	out.WriteString(p.preprocessContent(string(content), path))
	delete(p.including, abs)
}

func (p *Preprocessor) handleElif(rest string) {
	if len(p.condStack) == 0 {
		p.errorf("#elif without #if")
		return
	}
	top := &p.condStack[len(p.condStack)-1]
	if top.hasElse {
		p.errorf("#elif after #else")
		return
	}
	if top.condition {
		top.isActive = false
		return
	}
	cond := p.evaluateCondition(rest)
	top.condition = cond
	top.isActive = p.parentActive() && cond
}

func (p *Preprocessor) handleElse() {
	if len(p.condStack) == 0 {
		p.errorf("#else without #if")
		return
	}
	top := &p.condStack[len(p.condStack)-1]
	if top.hasElse {
		p.errorf("duplicate #else")
		return
	}
	top.hasElse = true
	top.isActive = p.parentActive() && !top.condition
}

func (p *Preprocessor) handleEndif() {
	if len(p.condStack) == 0 {
		p.errorf("#endif without #if")
		return
	}
	p.condStack = p.condStack[:len(p.condStack)-1]
}
