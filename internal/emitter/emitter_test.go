package emitter

import (
	"strings"
	"testing"

	"tinygo.org/x/go-llvm"

	"avrc/internal/ast"
)

// newTestEmitter builds a fresh Emitter over a throwaway context/module/builder, with the
// prototype table installed, mirroring what compiler.Compile does before calling EmitProgram.
func newTestEmitter(t *testing.T) (*Emitter, llvm.Module) {
	t.Helper()
	ctx := llvm.NewContext()
	t.Cleanup(ctx.Dispose)
	b := ctx.NewBuilder()
	t.Cleanup(b.Dispose)
	m := ctx.NewModule("test")
	t.Cleanup(m.Dispose)

	e := New(ctx, m, b)
	e.InstallPrototypes()
	return e, m
}

func ident(name string) *ast.Node       { return &ast.Node{Typ: ast.IDENTIFIER, Data: name} }
func intLit(v int64) *ast.Node          { return &ast.Node{Typ: ast.INTEGER_LITERAL, Data: v} }
func floatLit(v float64) *ast.Node      { return &ast.Node{Typ: ast.FLOAT_LITERAL, Data: v} }
func argList(args ...*ast.Node) *ast.Node {
	return &ast.Node{Typ: ast.ARGUMENT_LIST, Children: args}
}
func call(name string, args *ast.Node) *ast.Node {
	return &ast.Node{Typ: ast.CALL, Children: []*ast.Node{{Typ: ast.IDENTIFIER, Data: name}, args}}
}
func exprStmt(e *ast.Node) *ast.Node {
	return &ast.Node{Typ: ast.EXPRESSION_STATEMENT, Children: []*ast.Node{e}}
}
func assign(target string, rhs *ast.Node) *ast.Node {
	return &ast.Node{Typ: ast.ASSIGN_STATEMENT, Children: []*ast.Node{ident(target), rhs}}
}
func block(stmts ...*ast.Node) *ast.Node {
	return &ast.Node{Typ: ast.BLOCK, Children: stmts}
}
func typeName(n string) *ast.Node {
	return &ast.Node{Typ: ast.TYPE_NAME, Data: n}
}
func param(name string, typ *ast.Node) *ast.Node {
	return &ast.Node{Typ: ast.IDENTIFIER, Data: name, Children: []*ast.Node{typ}}
}
func params(ps ...*ast.Node) *ast.Node {
	return &ast.Node{Typ: ast.PARAMETER_LIST, Children: ps}
}
func fn(name string, ps *ast.Node, ret *ast.Node, body *ast.Node) *ast.Node {
	children := []*ast.Node{ps}
	if ret != nil {
		children = append(children, ret)
	}
	children = append(children, body)
	return &ast.Node{Typ: ast.FUNCTION, Data: name, Children: children}
}
func program(stmts ...*ast.Node) *ast.Node {
	return &ast.Node{Typ: ast.PROGRAM, Children: stmts}
}

// Scenario 1: x = 1 + 2; print(x) compiles into a global x=3 and a call to print__i__ with the
// value loaded from x (no optimization runs here), per SPEC_FULL.md §8 scenario 1.
func TestScenarioGlobalAssignAndPrint(t *testing.T) {
	e, m := newTestEmitter(t)
	root := program(
		assign("x", &ast.Node{Typ: ast.BINARY_OP, Data: "+", Children: []*ast.Node{intLit(1), intLit(2)}}),
		exprStmt(call("print", argList(ident("x")))),
	)
	if err := e.EmitProgram(root); err != nil {
		t.Fatalf("EmitProgram: %v", err)
	}
	ir := m.String()
	if !strings.Contains(ir, "@x") {
		t.Error("expected a global named x in the module")
	}
	if !strings.Contains(ir, "i16 3") {
		t.Error("expected the folded constant 3 somewhere in the module")
	}
	if !strings.Contains(ir, "@print__i__") {
		t.Error("expected a call to the mangled print__i__ prototype")
	}
	if !strings.Contains(ir, "@__main__") {
		t.Error("expected the stray top-level call wrapped in a synthesized __main__ function")
	}
}

// Scenario 2: def add(a: int, b: int) -> int: return a + b
func TestScenarioAddFunction(t *testing.T) {
	e, m := newTestEmitter(t)
	body := block(&ast.Node{Typ: ast.RETURN_STATEMENT, Children: []*ast.Node{
		{Typ: ast.BINARY_OP, Data: "+", Children: []*ast.Node{ident("a"), ident("b")}},
	}})
	root := program(fn("add", params(param("a", typeName("int")), param("b", typeName("int"))), typeName("int"), body))

	if err := e.EmitProgram(root); err != nil {
		t.Fatalf("EmitProgram: %v", err)
	}
	addFn := m.NamedFunction("add")
	if addFn.IsNil() {
		t.Fatal("expected function add to exist")
	}
	if addFn.Linkage() != llvm.InternalLinkage {
		t.Error("add should have internal linkage")
	}
	ir := m.String()
	if !strings.Contains(ir, "define internal i16 @add(i16") {
		t.Errorf("unexpected signature for add, got:\n%s", ir)
	}
}

// Scenario 3: def setup() -> None: pin_mode(13, 1) — external linkage, truncated i8 arguments.
func TestScenarioSetupExternalLinkage(t *testing.T) {
	e, m := newTestEmitter(t)
	body := block(exprStmt(call("pin_mode", argList(intLit(13), intLit(1)))))
	root := program(fn("setup", params(), typeName("None"), body))

	if err := e.EmitProgram(root); err != nil {
		t.Fatalf("EmitProgram: %v", err)
	}
	setupFn := m.NamedFunction("setup")
	if setupFn.IsNil() {
		t.Fatal("expected function setup to exist")
	}
	if setupFn.Linkage() != llvm.ExternalLinkage {
		t.Error("setup must keep external linkage")
	}
	ir := m.String()
	if !strings.Contains(ir, "@pin_mode(i8 13, i8 1)") {
		t.Errorf("expected a truncated call to pin_mode, got:\n%s", ir)
	}
}

// Scenario 4: calling an undefined name fails with NameError.
func TestScenarioUndefinedNameFails(t *testing.T) {
	e, _ := newTestEmitter(t)
	root := program(exprStmt(call("foo", argList())))
	err := e.EmitProgram(root)
	if err == nil {
		t.Fatal("expected an error calling an undefined function")
	}
}

// Scenario 5: def f() -> int: return 1.0 fails with a TypeError.
func TestScenarioReturnTypeMismatch(t *testing.T) {
	e, _ := newTestEmitter(t)
	body := block(&ast.Node{Typ: ast.RETURN_STATEMENT, Children: []*ast.Node{floatLit(1.0)}})
	root := program(fn("f", params(), typeName("int"), body))
	err := e.EmitProgram(root)
	if err == nil {
		t.Fatal("expected a TypeError returning a float from an int-typed function")
	}
}

// Scenario 6: a while loop with a constant-true condition and a back-edge to the header.
func TestScenarioWhileLoop(t *testing.T) {
	e, m := newTestEmitter(t)
	loopBody := block(
		exprStmt(call("digital_write", argList(intLit(13), intLit(1)))),
		exprStmt(call("delay", argList(intLit(500)))),
		exprStmt(call("digital_write", argList(intLit(13), intLit(0)))),
		exprStmt(call("delay", argList(intLit(500)))),
	)
	whileStmt := &ast.Node{Typ: ast.WHILE_STATEMENT, Children: []*ast.Node{intLit(1), loopBody}}
	root := program(whileStmt)

	if err := e.EmitProgram(root); err != nil {
		t.Fatalf("EmitProgram: %v", err)
	}
	ir := m.String()
	if !strings.Contains(ir, "@digital_write") {
		t.Error("expected calls to digital_write in the loop body")
	}
	if !strings.Contains(ir, "@delay") {
		t.Error("expected calls to delay in the loop body")
	}
	if !strings.Contains(ir, "br label") {
		t.Error("expected an unconditional back-edge branch")
	}
}
