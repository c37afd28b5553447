// Package cli implements the toyc command: a single-pass driver that
// preprocesses, parses, and lowers one C translation unit to LLVM IR or a
// native object file (§6.1). It is built on the teacher's own
// github.com/mna/mainer, the same flag-tagged Cmd/Validate/Main shape
// internal/maincmd used for the Lua tool this one replaces.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mna/mainer"

	"github.com/fatbrother/toyc-go/lang/backend"
	"github.com/fatbrother/toyc-go/lang/codegen"
	"github.com/fatbrother/toyc-go/lang/config"
	"github.com/fatbrother/toyc-go/lang/errs"
	"github.com/fatbrother/toyc-go/lang/parser"
	"github.com/fatbrother/toyc-go/lang/parseractions"
	"github.com/fatbrother/toyc-go/lang/preprocessor"
	"github.com/fatbrother/toyc-go/lang/token"
	"github.com/fatbrother/toyc-go/lang/types"
)

const binName = "toyc"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <input-file>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <input-file>
       %[1]s -h|--help

Compiles one ToyC (C89/C99-flavored) translation unit to a native object
file or, with -l, to textual LLVM IR.

Valid flag options are:
       -h --help                 Show this help and exit.
       -o <path>                 Write output to <path> instead of the
                                 input file's name with its extension
                                 replaced.
       -l                        Emit textual LLVM IR (-o defaults to
                                 replacing the extension with .ll)
                                 instead of an object file.
       -E                        Run the preprocessor only and print the
                                 expanded source; implies -o writes text,
                                 not an object.
       -D <name>[=<value>]       Define a macro before preprocessing,
                                 as if by "#define <name> <value>".
                                 May be repeated.
       -I <path>                 Add <path> to the #include search path,
                                 searched before the predefined system
                                 paths. May be repeated.
`, binName)
)

// Cmd is the toyc entry point. Help, Output, EmitIR and PreprocessOnly are
// ordinary mainer flag-tagged fields; Defines and Includes are repeatable
// and so are parsed by hand out of the raw argument list before mainer
// ever sees them (mainer's own flag tags, like the teacher's own Cmd,
// only ever cover single-valued flags).
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help           bool   `flag:"h,help"`
	Output         string `flag:"o"`
	EmitIR         bool   `flag:"l"`
	PreprocessOnly bool   `flag:"E"`

	Defines  []string
	Includes []string

	args  []string
	flags map[string]bool
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(flags map[string]bool) {
	c.flags = flags
}

func (c *Cmd) Validate() error {
	if c.Help {
		return nil
	}
	if len(c.args) != 1 {
		return errors.New("exactly one input file must be provided")
	}
	if c.EmitIR && c.PreprocessOnly {
		return errors.New("-l and -E are mutually exclusive")
	}
	return nil
}

// Main parses args by hand for the repeatable -D/-I flags, hands the rest
// to mainer.Parser the way the teacher's own maincmd.Cmd does, then runs
// the compile pipeline.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	rest, defines, includes := extractRepeatable(args[1:])
	c.Defines = defines
	c.Includes = includes

	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: strings.ToUpper(binName) + "_",
	}
	if err := p.Parse(append([]string{args[0]}, rest...), c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	if c.Help {
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.compile(ctx, stdio); err != nil {
		return mainer.Failure
	}
	return mainer.Success
}

// extractRepeatable pulls every "-Dname[=value]"/"-D name[=value]" and
// "-Ipath"/"-I path" out of args, returning what remains for mainer's own
// (single-valued) flag parser along with the accumulated values in
// left-to-right order.
func extractRepeatable(args []string) (rest, defines, includes []string) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-D" || a == "--define":
			if i+1 < len(args) {
				i++
				defines = append(defines, args[i])
			}
		case strings.HasPrefix(a, "-D"):
			defines = append(defines, strings.TrimPrefix(a, "-D"))
		case a == "-I" || a == "--include":
			if i+1 < len(args) {
				i++
				includes = append(includes, args[i])
			}
		case strings.HasPrefix(a, "-I"):
			includes = append(includes, strings.TrimPrefix(a, "-I"))
		default:
			rest = append(rest, a)
		}
	}
	return rest, defines, includes
}

// compile runs the whole pipeline: preprocess, parse, lower to LLVM IR,
// emit. Every phase's diagnostics are printed through lang/errs.PrintError
// before returning, so the caller only needs to turn a non-nil error into
// an exit code.
func (c *Cmd) compile(ctx context.Context, stdio mainer.Stdio) error {
	input := c.args[0]

	env, err := config.Load()
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	includes, defines := env.Merge(c.Includes, c.Defines)

	expanded, ppErrs, err := preprocess(input, defines, includes)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	if ppErrs.Len() > 0 {
		errs.PrintError(stdio.Stderr, ppErrs.Err(), sourceLineText)
		return ppErrs.Err()
	}

	if c.PreprocessOnly {
		out := stdio.Stdout
		if c.Output != "" {
			f, err := os.Create(c.Output)
			if err != nil {
				fmt.Fprintln(stdio.Stderr, err)
				return err
			}
			defer f.Close()
			out = f
		}
		fmt.Fprint(out, expanded)
		return nil
	}

	tab := types.NewTable()
	fset := token.NewFileSet()
	errList := &errs.List{}
	builder := parseractions.NewBuilder(tab, fset, errList)

	chunk, perr := parser.ParseChunk(ctx, builder, fset, input, []byte(expanded))
	if perr != nil {
		errs.PrintError(stdio.Stderr, errList.Err(), sourceLineText)
		return perr
	}

	machine, err := backend.NewHostMachine()
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	defer machine.Dispose()

	cctx := codegen.NewContext(moduleName(input), machine.DataLayout(), tab, fset, errList)
	defer cctx.Dispose()

	if err := cctx.Program(chunk); err != nil {
		errs.PrintError(stdio.Stderr, errList.Err(), sourceLineText)
		return err
	}
	machine.Stamp(cctx.Module)

	if c.EmitIR {
		out := c.Output
		if out == "" {
			out = replaceExt(input, ".ll")
		}
		if err := backend.EmitIR(cctx.Module, out); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
		return nil
	}

	out := c.Output
	if out == "" {
		out = replaceExt(input, ".o")
	}
	if err := machine.EmitObject(cctx.Module, out); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	return nil
}

// preprocess expands input through lang/preprocessor with the given -D/-I
// settings applied, returning its diagnostics alongside the expanded text
// so callers (compile, and the golden-file tests) share one code path for
// turning flags into a configured Preprocessor.
func preprocess(input string, defines, includes []string) (string, *errs.List, error) {
	pp := preprocessor.New()
	for _, inc := range includes {
		pp.AddIncludePath(inc)
	}
	for _, def := range defines {
		name, value, _ := strings.Cut(def, "=")
		pp.Define(name, value)
	}
	expanded, err := pp.Preprocess(input)
	return expanded, pp.Errors(), err
}

// moduleName derives the LLVM module identifier from the input file's base
// name, stripping its extension, so a dumped .ll file names its module
// after the source rather than a full path.
func moduleName(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// replaceExt swaps path's extension for ext ("." included).
func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// sourceLineText is the errs.PrintError line-source callback: it reads
// straight from disk rather than through a token.FileSet, since a
// diagnostic may originate from a preprocessor pass over an #include'd
// file lang/parser never registers a *token.File for.
func sourceLineText(pos token.Position) string {
	data, err := os.ReadFile(pos.Filename)
	if err != nil {
		return ""
	}
	lines := strings.Split(string(data), "\n")
	if pos.Line < 1 || pos.Line > len(lines) {
		return ""
	}
	return lines[pos.Line-1]
}
