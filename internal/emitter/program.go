package emitter

import (
	"tinygo.org/x/go-llvm"

	"avrc/internal/ast"
	"avrc/internal/diag"
	"avrc/internal/value"
)

// EmitProgram emits every top-level statement of a parsed compilation unit. A leading bare string
// literal is treated as the module's doc-string and discarded, per splitDoc's rule. Function
// definitions are emitted via EmitFunction. Module-scope assignment is emitted directly, since it
// resolves to a global initializer regardless of where in program order it appears. Every other
// top-level statement -- print calls, bare expressions, top-level if/while, pass -- has no
// meaning at module scope in raw LLVM, so it is collected and wrapped in a synthesized internal
// function, "__main__": a generalization of the teacher's genMain wrapper-function synthesis to a
// language that allows executable statements outside any function body.
func (e *Emitter) EmitProgram(root *ast.Node) error {
	_, stmts, _ := splitDoc(root.Children)

	var moduleStmts []*ast.Node
	for _, n := range stmts {
		e.setLoc(n)
		switch n.Typ {
		case ast.FUNCTION:
			if err := e.EmitFunction(n); err != nil {
				return err
			}
		case ast.ASSIGN_STATEMENT, ast.ANN_ASSIGN_STATEMENT:
			if err := e.EmitStatement(n); err != nil {
				return err
			}
		default:
			moduleStmts = append(moduleStmts, n)
		}
	}

	if len(moduleStmts) == 0 {
		return nil
	}
	if _, exists := e.funcs["__main__"]; exists {
		return &diag.SyntaxError{Desc: "top-level executable statements may appear in only one compilation unit", Loc: e.loc}
	}
	return e.emitModuleInit(moduleStmts)
}

// emitModuleInit synthesizes the internal "__main__" function that carries every top-level
// statement collected by EmitProgram.
func (e *Emitter) emitModuleInit(stmts []*ast.Node) error {
	ftyp := llvm.FunctionType(value.ToBasicType(value.Void), nil, false)
	fn := llvm.AddFunction(e.Module, "__main__", ftyp)
	fn.SetLinkage(llvm.InternalLinkage)
	e.funcs["__main__"] = funcSig{Return: value.Void, LLVM: fn}

	return e.emitFunctionBody(fn, "__main__", value.Void, nil, nil, stmts)
}
