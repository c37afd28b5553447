package preprocessor

import (
	"regexp"
	"strconv"
	"strings"
)

const maxExpansionIterations = 10

// expandMacros repeatedly substitutes object and function macros into
// line until a fixed point is reached or the iteration cap is hit,
// mirroring the original's do/while(result != lastResult) loop capped at
// maxExpansionIterations rather than looping to true convergence, which
// guards against a macro body that expands into itself indirectly.
func (p *Preprocessor) expandMacros(line string) string {
	result := line
	for iter := 0; iter < maxExpansionIterations; iter++ {
		last := result
		result = p.substituteBuiltins(result)
		result = p.expandObjectMacrosOnly(result)
		result = p.expandFunctionMacrosOnly(result)
		if result == last {
			break
		}
	}
	return result
}

// substituteBuiltins replaces __LINE__ and __FILE__ with the current
// position, which is tracked separately from the ordinary macro table
// since their value changes per source line rather than per #define.
func (p *Preprocessor) substituteBuiltins(text string) string {
	text = replaceIdentifier(text, "__LINE__", strconv.Itoa(p.currentLine))
	text = replaceIdentifier(text, "__FILE__", strconv.Quote(p.currentFile))
	return text
}

func (p *Preprocessor) expandObjectMacrosOnly(text string) string {
	for name, m := range p.macros {
		if m.IsFunction || name == "__LINE__" || name == "__FILE__" {
			continue
		}
		text = replaceIdentifier(text, name, m.Body)
	}
	return text
}

func (p *Preprocessor) expandFunctionMacrosOnly(text string) string {
	for name, m := range p.macros {
		if !m.IsFunction {
			continue
		}
		text = p.expandOneFunctionMacro(text, name, m)
	}
	return text
}

// expandOneFunctionMacro matches `name(...)` up to the first closing
// paren only — not nesting-aware — the same looseness as the original,
// which uses an equivalent "[^)]*" regex and splits the captured
// argument list on plain commas. A call like FOO(bar(1,2)) therefore
// mis-splits into two arguments; this is a known, intentionally
// preserved limitation rather than an oversight.
func (p *Preprocessor) expandOneFunctionMacro(text, name string, m Macro) string {
	re := regexp.MustCompile(regexp.QuoteMeta(name) + `\s*\(\s*([^)]*)\s*\)`)
	pos := 0
	for pos < len(text) {
		loc := re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		full0, full1 := pos+loc[0], pos+loc[1]
		argGroup := ""
		if loc[2] >= 0 {
			argGroup = text[pos+loc[2] : pos+loc[3]]
		}
		if argGroup == "/* parameter mismatch */" {
			// already replaced by the mismatch sentinel in an earlier pass
			pos = full1
			continue
		}

		var args []string
		if trimSpace(argGroup) != "" {
			for _, a := range strings.Split(argGroup, ",") {
				args = append(args, trimSpace(a))
			}
		}

		expanded := p.expandFunctionMacro(m, args)
		text = text[:full0] + expanded + text[full1:]
		pos = full0 + len(expanded)
	}
	return text
}

// expandFunctionMacro substitutes args into m.Body positionally. A
// parameter-count mismatch leaves a sentinel in place of the call and
// records a diagnostic — per the error-handling rule that a
// mismatched invocation is an error but must not abort expansion of the
// rest of the line.
func (p *Preprocessor) expandFunctionMacro(m Macro, args []string) string {
	if len(args) != len(m.Params) {
		p.errorf("argument count mismatch for function-like macro %q: expected %d, got %d", m.Name, len(m.Params), len(args))
		return m.Name + "(/* parameter mismatch */)"
	}

	result := m.Body
	for i, param := range m.Params {
		argValue := p.expandObjectMacrosOnly(args[i])
		result = replaceIdentifier(result, param, argValue)
	}
	return result
}
