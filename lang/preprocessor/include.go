package preprocessor

import (
	"os"
	"path/filepath"
)

// findIncludeFile resolves a #include argument to a filesystem path: for
// a "local" (quoted) include, the directory of the including file is
// tried first; for both forms, the configured search paths (user -I
// paths first, then the two predefined system paths) are tried in
// order. Returns "" if nothing exists.
func (p *Preprocessor) findIncludeFile(name string, local bool, fromDir string) string {
	if local {
		candidate := filepath.Join(fromDir, name)
		if fileExists(candidate) {
			return candidate
		}
	}
	for _, dir := range p.includePaths {
		candidate := filepath.Join(dir, name)
		if fileExists(candidate) {
			return candidate
		}
	}
	if !local && fileExists(name) {
		return name
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
