package parser

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inn-lang/inn/internal/ast"
)

var update = flag.Bool("update", false, "rewrite testdata/*.golden from the current parser")

// TestGoldenFiles parses every testdata/*.inn program and compares the tree
// dump against the matching .golden file.
func TestGoldenFiles(t *testing.T) {
	sources, err := filepath.Glob(filepath.Join("testdata", "*.inn"))
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) == 0 {
		t.Fatal("no golden sources in testdata")
	}

	for _, source := range sources {
		name := strings.TrimSuffix(filepath.Base(source), ".inn")
		t.Run(name, func(t *testing.T) {
			src, err := os.ReadFile(source)
			if err != nil {
				t.Fatal(err)
			}
			prog, err := ParseString(string(src))
			if err != nil {
				t.Fatalf("ParseString failed: %v", err)
			}
			got := ast.Dump(prog) + "\n"

			golden := strings.TrimSuffix(source, ".inn") + ".golden"
			if *update {
				if err := os.WriteFile(golden, []byte(got), 0o644); err != nil {
					t.Fatal(err)
				}
				return
			}
			want, err := os.ReadFile(golden)
			if err != nil {
				t.Fatalf("missing golden file (run with -update): %v", err)
			}
			if got != string(want) {
				t.Errorf("dump mismatch for %s\n got: %s\nwant: %s", source, got, want)
			}
		})
	}
}
