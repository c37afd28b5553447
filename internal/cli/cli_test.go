package cli

import (
	"flag"
	"path/filepath"
	"testing"

	"github.com/fatbrother/toyc-go/internal/filetest"
)

var testUpdatePreprocessTests = flag.Bool("test.update-preprocess-tests", false,
	"If set, replace expected preprocessor golden results with actual results.")

// TestPreprocessGolden runs every testdata/in/*.c file through the same
// preprocess helper compile uses and diffs the expanded text against its
// testdata/out/*.c.want golden file, the way the teacher's own parser and
// scanner tests compare against golden files via internal/filetest.
func TestPreprocessGolden(t *testing.T) {
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")
	for _, fi := range filetest.SourceFiles(t, srcDir, ".c") {
		fi := fi
		t.Run(fi.Name(), func(t *testing.T) {
			expanded, errList, err := preprocess(filepath.Join(srcDir, fi.Name()), nil, nil)
			if err != nil {
				t.Fatalf("preprocess: %v", err)
			}
			if errList.Len() > 0 {
				t.Fatalf("unexpected preprocessor diagnostics: %s", errList.Error())
			}
			filetest.DiffOutput(t, fi, expanded, resultDir, testUpdatePreprocessTests)
		})
	}
}
