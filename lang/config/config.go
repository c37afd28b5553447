// Package config overlays environment-variable defaults onto the toyc
// CLI's -D/-I flags, using github.com/caarlos0/env/v6 the way the
// teacher's go.mod already carried it as an indirect dependency without
// ever giving it a package of its own to populate.
package config

import "github.com/caarlos0/env/v6"

// Env holds the environment-derived defaults applied before -D/-I flags
// are parsed, so a flag of the same name always wins over its
// environment-supplied default (see Merge).
type Env struct {
	// IncludePath lists directories from TOYC_INCLUDE_PATH, colon-
	// separated like the C compilers' own INCLUDE/CPATH variables.
	IncludePath []string `env:"TOYC_INCLUDE_PATH" envSeparator:":"`

	// Defines lists "NAME" or "NAME=VALUE" entries from TOYC_DEFINE,
	// comma-separated.
	Defines []string `env:"TOYC_DEFINE" envSeparator:","`
}

// Load reads Env from the process environment. A zero Env (every field
// nil) is returned, not an error, when none of the recognized variables
// are set.
func Load() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, err
	}
	return e, nil
}

// Merge prepends e's environment-derived include paths and macro
// definitions ahead of the command line's, so a later, more specific
// -D/-I of the same name still overrides it the way lang/preprocessor's
// own AddIncludePath/Define already prioritize the most recently applied
// setting.
func (e Env) Merge(includes, defines []string) (mergedIncludes, mergedDefines []string) {
	mergedIncludes = append(append([]string(nil), e.IncludePath...), includes...)
	mergedDefines = append(append([]string(nil), e.Defines...), defines...)
	return mergedIncludes, mergedDefines
}
