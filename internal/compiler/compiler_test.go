package compiler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"avrc/internal/ast"
)

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("pass\n"), 0644); err != nil {
		t.Fatalf("WriteFile %s: %v", name, err)
	}
}

// fixtureParser returns a fixed AST regardless of src, so Compile can be exercised without a real
// front end: `x = 1\nprint(x)`.
type fixtureParser struct{}

func (fixtureParser) Parse(src []byte) (*ast.Node, error) {
	return &ast.Node{
		Typ: ast.PROGRAM,
		Children: []*ast.Node{
			{Typ: ast.ASSIGN_STATEMENT, Children: []*ast.Node{
				{Typ: ast.IDENTIFIER, Data: "x"},
				{Typ: ast.INTEGER_LITERAL, Data: int64(1)},
			}},
			{Typ: ast.EXPRESSION_STATEMENT, Children: []*ast.Node{
				{Typ: ast.CALL, Children: []*ast.Node{
					{Typ: ast.IDENTIFIER, Data: "print"},
					{Typ: ast.ARGUMENT_LIST, Children: []*ast.Node{
						{Typ: ast.IDENTIFIER, Data: "x"},
					}},
				}},
			}},
		},
	}, nil
}

func TestCompileProducesDataLayoutAndTriple(t *testing.T) {
	res, err := Compile(fixtureParser{}, []byte("unused"), "test.ll", Options{OptLevel: 0})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(res.IR, dataLayout) {
		t.Error("expected the AVR data layout string in the emitted IR")
	}
	if !strings.Contains(res.IR, `target triple = "avr"`) {
		t.Error("expected the avr target triple in the emitted IR")
	}
	if !strings.Contains(res.IR, "@print__i__") {
		t.Error("expected a call to the mangled print prototype")
	}
}

func TestCompileRejectsOutOfRangeOptLevel(t *testing.T) {
	if _, err := Compile(fixtureParser{}, []byte("unused"), "test.ll", Options{OptLevel: 7}); err == nil {
		t.Fatal("expected an error for an out-of-range optimization level")
	}
}

func TestStdlibPathsSkipsInitAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.py", "a.py", "__init__.py"} {
		writeFile(t, dir, name)
	}
	paths, err := stdlibPaths(dir)
	if err != nil {
		t.Fatalf("stdlibPaths: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 library files, got %d: %v", len(paths), paths)
	}
	if !strings.HasSuffix(paths[0], "a.py") || !strings.HasSuffix(paths[1], "b.py") {
		t.Errorf("expected lexicographic order, got %v", paths)
	}
}
