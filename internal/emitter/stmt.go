package emitter

import (
	"tinygo.org/x/go-llvm"

	"avrc/internal/ast"
	"avrc/internal/diag"
	"avrc/internal/value"
)

// emitBlock emits every statement of a BLOCK/STATEMENT_LIST node's children in order.
func (e *Emitter) emitBlock(block *ast.Node) error {
	return e.emitStatements(block.Children)
}

// emitStatements emits a statement sequence, stopping as soon as a RETURN_STATEMENT has set
// e.returned: anything lexically following an unconditional return is unreachable, and emitting it
// would append instructions after the block's terminator, violating the single-terminator
// invariant (SPEC_FULL.md §8, invariant 3).
func (e *Emitter) emitStatements(stmts []*ast.Node) error {
	for _, s := range stmts {
		if e.returned {
			break
		}
		if err := e.EmitStatement(s); err != nil {
			return err
		}
	}
	return nil
}

// EmitStatement dispatches a single statement node to its handler.
func (e *Emitter) EmitStatement(n *ast.Node) error {
	e.setLoc(n)
	switch n.Typ {
	case ast.EXPRESSION_STATEMENT:
		_, err := e.EmitExpression(n.Children[0])
		return err
	case ast.ASSIGN_STATEMENT, ast.ANN_ASSIGN_STATEMENT:
		return e.emitAssign(n.Children[0], n.Children[len(n.Children)-1])
	case ast.RETURN_STATEMENT:
		return e.emitReturn(n)
	case ast.IMPORT_FROM_STATEMENT:
		return e.emitImportFrom(n)
	case ast.PASS_STATEMENT:
		return nil
	case ast.IF_STATEMENT:
		return e.emitIf(n)
	case ast.WHILE_STATEMENT:
		return e.emitWhile(n)
	case ast.FUNCTION:
		return &diag.SyntaxError{Desc: "nested function definitions are not supported", Loc: e.loc}
	default:
		return &diag.NotImplementedError{Desc: "statement of kind " + n.Type(), Loc: e.loc}
	}
}

// targetName resolves an assignment target to its single bound name. Any target that is not a
// bare identifier (tuple-unpacking, attribute or subscript targets) fails NotImplemented per
// SPEC_FULL.md §4.E.
func (e *Emitter) targetName(target *ast.Node) (string, error) {
	if target.Typ != ast.IDENTIFIER {
		return "", &diag.NotImplementedError{Desc: "assignment target " + target.Type(), Loc: e.loc}
	}
	name, _ := target.Data.(string)
	return name, nil
}

// emitAssign handles both Assign and AnnAssign: the stored ValueType always comes from the
// evaluated right-hand side, never from an annotation, per SPEC_FULL.md §4.E.
func (e *Emitter) emitAssign(target, exprNode *ast.Node) error {
	name, err := e.targetName(target)
	if err != nil {
		return err
	}
	v, err := e.EmitExpression(exprNode)
	if err != nil {
		return err
	}
	if v.IsVoid() {
		return &diag.TypeError{Expected: "a value", Found: "void", Loc: e.loc}
	}
	if e.inFunction() {
		return e.assignLocal(name, v)
	}
	return e.assignGlobal(name, v)
}

// assignLocal allocates a slot the first time name is seen in the current function and reuses it
// on every later rebinding, per SPEC_FULL.md §3's invariant that a local's storage is allocated
// once in the function's entry block.
func (e *Emitter) assignLocal(name string, v value.Value) error {
	var slot llvm.Value
	if existing, ok := e.locals.Lookup(name); ok {
		if existing.Type != v.TypeOf() {
			return &diag.TypeError{Expected: existing.Type.String(), Found: v.TypeOf().String(), Loc: e.loc}
		}
		slot = existing.Storage
	} else {
		slot = e.allocaEntry(v.TypeOf(), name)
	}
	if _, err := e.locals.Define(name, v.TypeOf(), slot); err != nil {
		return err
	}
	e.Builder.CreateStore(v.LLVM(), slot)
	return nil
}

// assignGlobal creates (or updates) an internal-linkage, unnamed-address global with the
// assigned value's initializer, per SPEC_FULL.md §4.E. A module-scope assignment's right-hand side
// must fold to an LLVM constant -- there is no runtime entry point that executes top-level
// statements imperatively, only the function bodies of "setup"/"loop" and library/user functions.
func (e *Emitter) assignGlobal(name string, v value.Value) error {
	if !v.LLVM().IsConstant() {
		return &diag.SyntaxError{Desc: "module-scope assignment must be a constant expression", Loc: e.loc}
	}
	if existing, ok := e.Globals.Lookup(name); ok {
		if existing.Type != v.TypeOf() {
			return &diag.TypeError{Expected: existing.Type.String(), Found: v.TypeOf().String(), Loc: e.loc}
		}
		existing.Storage.SetInitializer(v.LLVM())
		return nil
	}
	g := llvm.AddGlobal(e.Module, value.ToBasicType(v.TypeOf()), name)
	g.SetLinkage(llvm.InternalLinkage)
	g.SetUnnamedAddr(true)
	g.SetInitializer(v.LLVM())
	return e.Globals.Define(name, v.TypeOf(), g)
}

// emitReturn terminates the current basic block with a return instruction.
func (e *Emitter) emitReturn(n *ast.Node) error {
	if !e.inFunction() {
		return &diag.SyntaxError{Desc: "'return' outside function", Loc: e.loc}
	}
	if len(n.Children) == 0 {
		if e.fnReturn != value.Void {
			return &diag.TypeError{Expected: e.fnReturn.String(), Found: "void", Loc: e.loc}
		}
		e.Builder.CreateRetVoid()
		e.returned = true
		return nil
	}

	v, err := e.EmitExpression(n.Children[0])
	if err != nil {
		return err
	}
	if v.TypeOf() != e.fnReturn {
		return &diag.TypeError{Expected: e.fnReturn.String(), Found: v.TypeOf().String(), Loc: e.loc}
	}
	if e.fnReturn == value.Void {
		e.Builder.CreateRetVoid()
	} else {
		e.Builder.CreateRet(v.LLVM())
	}
	e.returned = true
	return nil
}

// emitImportFrom recognizes `from X import ...` only where X is the Arduino standard library; no
// symbols are bound, the statement exists purely to let already-declared library names be
// referenced, per SPEC_FULL.md §4.E.
func (e *Emitter) emitImportFrom(n *ast.Node) error {
	module, _ := n.Data.(string)
	if !isArduinoLibrary(module) {
		return &diag.NotImplementedError{Desc: "import from module " + module, Loc: e.loc}
	}
	return nil
}
