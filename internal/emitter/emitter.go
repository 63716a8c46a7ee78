// Package emitter implements the compiler core's Code Emitter (component E): AST -> IR
// translation for expressions, statements and function definitions, including control flow and
// overload dispatch.
//
// Grounded on the teacher's ir/llvm/transform.go gen/genExpression/genDeclaration/genAssign/
// genReturn/genIf/genWhile/genFuncHeader/genFuncBody family, generalized from VSL's integer/float
// expression language to the full ValueType system and overload-by-mangling call resolution
// SPEC_FULL.md §4.E adds. Per the §9 design notes, the cyclic compiler<->codegen references the
// source language used are replaced here by a single owning Emitter struct holding the builder by
// exclusive use and the module by shared reference from its owning context; all mutable
// compile-time context (active function, last source location, returned flag) are explicit fields
// of Emitter, never package-level state.
package emitter

import (
	"strings"

	"tinygo.org/x/go-llvm"

	"avrc/internal/ast"
	"avrc/internal/diag"
	"avrc/internal/proto"
	"avrc/internal/symtab"
	"avrc/internal/value"
)

// reservedFunctionNames cannot be (re)declared by user or library code: "__main__" is the function
// EmitProgram synthesizes for top-level statements, and "main" is kept free as well.
var reservedFunctionNames = map[string]bool{
	"main":     true,
	"__main__": true,
}

// Emitter is the single owning object for one compilation: one LLVM context, one module, one
// builder cursor, exclusively. It is not safe for concurrent use -- SPEC_FULL.md §5 requires a
// single, non-reentrant emission pipeline per module.
type Emitter struct {
	Context llvm.Context
	Module  llvm.Module
	Builder llvm.Builder

	Globals *symtab.GlobalTable

	locals   *symtab.LocalTable // nil at module scope.
	fn       llvm.Value         // the function currently being emitted; IsNil() means module scope.
	fnEntry  llvm.BasicBlock    // fn's entry block; every local alloca is placed here.
	fnName   string
	fnReturn value.Type
	returned bool // set once a RETURN_STATEMENT has been emitted, so block terminators aren't duplicated.

	loc diag.Location

	strings map[string]llvm.Value // interned Str literals, keyed by content.
	funcs   map[string]funcSig     // every declared function (prototype, library or user), by name.
}

// funcSig records a declared function's signature so call emission can coerce arguments and decode
// the return value without re-deriving types from the raw llvm.Value handle.
type funcSig struct {
	Params []value.Type
	Return value.Type
	LLVM   llvm.Value
}

// New constructs an Emitter around an existing LLVM context, module and builder. The caller (the
// compile orchestrator) owns the lifetime of all three.
func New(ctx llvm.Context, m llvm.Module, b llvm.Builder) *Emitter {
	return &Emitter{
		Context: ctx,
		Module:  m,
		Builder: b,
		Globals: symtab.NewGlobalTable(),
		strings: make(map[string]llvm.Value, 16),
		funcs:   make(map[string]funcSig, 32),
	}
}

// InstallPrototypes declares every runtime-provided function from the Prototype Table (component
// D) in the module and registers its signature so later call sites can resolve and coerce against
// it. Must run once, before any library or user code is emitted.
func (e *Emitter) InstallPrototypes() {
	proto.Install(e.Module)
	for _, sig := range proto.Table {
		fn := e.Module.NamedFunction(sig.Name)
		e.funcs[sig.Name] = funcSig{Params: sig.Params, Return: sig.Return, LLVM: fn}
	}
}

// scopes returns the local-then-global lookup composition for the emitter's current position.
func (e *Emitter) scopes() symtab.Scopes {
	return symtab.Scopes{Local: e.locals, Global: e.Globals}
}

// inFunction reports whether the emitter is currently positioned inside a function body.
func (e *Emitter) inFunction() bool {
	return !e.fn.IsNil()
}

// setLoc records n's source position as the most recently seen location, for error reporting.
func (e *Emitter) setLoc(n *ast.Node) {
	if n != nil {
		e.loc = diag.Location{Line: n.Line, Col: n.Pos}
	}
}

// internString returns the read-only global holding s's bytes, creating it on first sight. Every
// Str literal with identical contents dedupes to exactly one global, per SPEC_FULL.md §3's
// invariant and §8's round-trip law.
func (e *Emitter) internString(s string) llvm.Value {
	if g, ok := e.strings[s]; ok {
		return g
	}
	g := e.Builder.CreateGlobalStringPtr(s, "L_STR")
	e.strings[s] = g
	return g
}

// allocaEntry creates a stack slot for a local variable in the entry block of the function
// currently being emitted, per SPEC_FULL.md §3's invariant that every local's storage lives in the
// entry block regardless of which nested block (if/while body) first binds the name. The builder's
// insertion point is restored to its prior position afterwards.
func (e *Emitter) allocaEntry(t value.Type, name string) llvm.Value {
	cur := e.Builder.GetInsertBlock()
	if first := e.fnEntry.FirstInstruction(); !first.IsNil() {
		e.Builder.SetInsertPointBefore(first)
	} else {
		e.Builder.SetInsertPointAtEnd(e.fnEntry)
	}
	slot := e.Builder.CreateAlloca(value.ToBasicType(t), name)
	e.Builder.SetInsertPointAtEnd(cur)
	return slot
}

// isArduinoLibrary reports whether a module name refers to the recognized Arduino standard
// library, per SPEC_FULL.md §4.E's ImportFrom rule: the name must contain "arduino" or equal
// "uno".
func isArduinoLibrary(module string) bool {
	lower := strings.ToLower(module)
	return lower == "uno" || strings.Contains(lower, "arduino")
}

// splitDoc implements the "doc-string" detection design note: if the first statement of body is a
// bare string-literal expression statement, it is a documentation literal and is discarded rather
// than compiled. Applied uniformly before iterating a function body or a module's top-level
// statements.
func splitDoc(body []*ast.Node) (doc string, rest []*ast.Node, hasDoc bool) {
	if len(body) == 0 {
		return "", body, false
	}
	first := body[0]
	if first.Typ == ast.EXPRESSION_STATEMENT && len(first.Children) == 1 {
		lit := first.Children[0]
		if lit.Typ == ast.STRING_LITERAL {
			if s, ok := lit.Data.(string); ok {
				return s, body[1:], true
			}
		}
	}
	return "", body, false
}
