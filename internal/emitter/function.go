package emitter

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"avrc/internal/ast"
	"avrc/internal/diag"
	"avrc/internal/symtab"
	"avrc/internal/value"
)

// EmitFunction emits a FUNCTION node: a new llvm.Value with its own entry block, grounded on the
// teacher's genFuncHeader/genFuncBody split in ir/llvm/transform.go, generalized to the parameter
// and return-type annotation rules of SPEC_FULL.md §4.E. Every parameter must carry a type hint;
// the return type is derived from the function's return annotation, defaulting to Void when absent.
func (e *Emitter) EmitFunction(n *ast.Node) error {
	e.setLoc(n)
	name, _ := n.Data.(string)
	if reservedFunctionNames[name] {
		return &diag.SyntaxError{Desc: fmt.Sprintf("%q is a reserved function name", name), Loc: e.loc}
	}
	if _, exists := e.funcs[name]; exists {
		return &diag.SyntaxError{Desc: fmt.Sprintf("function %q already defined", name), Loc: e.loc}
	}

	params := n.Children[0]
	var returnNode, body *ast.Node
	switch len(n.Children) {
	case 2:
		body = n.Children[1]
	case 3:
		returnNode = n.Children[1]
		body = n.Children[2]
	default:
		return diag.Bug("function %q has %d children", name, len(n.Children))
	}

	paramTypes := make([]value.Type, 0, len(params.Children))
	paramNames := make([]string, 0, len(params.Children))
	for _, p := range params.Children {
		loc := diag.Location{Line: p.Line, Col: p.Pos}
		if len(p.Children) == 0 {
			return &diag.SyntaxError{Desc: "parameter must have a type hint", Loc: loc}
		}
		pt, ok := paramTypeFromAnnotation(p.Children[0])
		if !ok {
			return &diag.SyntaxError{Desc: "unsupported parameter type", Loc: loc}
		}
		pname, _ := p.Data.(string)
		paramTypes = append(paramTypes, pt)
		paramNames = append(paramNames, pname)
	}

	retType := value.Void
	if returnNode != nil {
		rt, ok := typeFromAnnotation(returnNode)
		if !ok || rt == value.Str || rt == value.Bool {
			return &diag.SyntaxError{Desc: "unsupported return type", Loc: e.loc}
		}
		retType = rt
	}

	llvmParams := make([]llvm.Type, len(paramTypes))
	for i, pt := range paramTypes {
		llvmParams[i] = value.ToBasicType(pt)
	}
	ftyp := llvm.FunctionType(value.ToBasicType(retType), llvmParams, false)
	fn := llvm.AddFunction(e.Module, name, ftyp)
	if name != "setup" && name != "loop" {
		fn.SetLinkage(llvm.InternalLinkage)
	}
	e.funcs[name] = funcSig{Params: paramTypes, Return: retType, LLVM: fn}

	return e.emitFunctionBody(fn, name, retType, paramNames, paramTypes, body.Children)
}

// emitFunctionBody emits the prologue (entry block, parameter allocas), the body statements, and a
// synthetic terminator if the body fell off its end without returning. Shared by EmitFunction and
// by EmitProgram's synthesis of an implicit top-level init function, since both need identical
// entry-block and CompileContext discipline.
func (e *Emitter) emitFunctionBody(fn llvm.Value, name string, retType value.Type, paramNames []string, paramTypes []value.Type, body []*ast.Node) error {
	prevFn, prevEntry := e.fn, e.fnEntry
	prevLocals, prevName, prevReturn, prevReturned := e.locals, e.fnName, e.fnReturn, e.returned
	restore := func() {
		e.fn, e.fnEntry = prevFn, prevEntry
		e.locals, e.fnName, e.fnReturn, e.returned = prevLocals, prevName, prevReturn, prevReturned
	}

	entry := llvm.AddBasicBlock(fn, "entry")
	e.fn = fn
	e.fnEntry = entry
	e.fnName = name
	e.fnReturn = retType
	e.locals = symtab.NewLocalTable()
	e.returned = false
	e.Builder.SetInsertPointAtEnd(entry)

	for i, pt := range paramTypes {
		slot := e.allocaEntry(pt, paramNames[i])
		e.Builder.CreateStore(fn.Param(i), slot)
		if _, err := e.locals.Define(paramNames[i], pt, slot); err != nil {
			restore()
			return err
		}
	}

	_, stmts, _ := splitDoc(body)
	if err := e.emitStatements(stmts); err != nil {
		restore()
		return err
	}

	if !e.returned {
		if retType == value.Void {
			e.Builder.CreateRetVoid()
		} else {
			e.Builder.CreateRet(zeroConstant(retType))
		}
	}

	restore()
	return nil
}

// paramTypeFromAnnotation maps a TYPE_NAME node to a parameter's ValueType. Arguments are
// syntactically required to carry a type annotation and only "int" and "float" are accepted,
// per spec.md's argument rule; everything else, including "None", reports ok=false.
func paramTypeFromAnnotation(n *ast.Node) (value.Type, bool) {
	if n.Typ != ast.TYPE_NAME {
		return value.Void, false
	}
	name, _ := n.Data.(string)
	switch name {
	case "int":
		return value.I16, true
	case "float":
		return value.F32, true
	default:
		return value.Void, false
	}
}

// typeFromAnnotation maps a TYPE_NAME node to its ValueType: "None"->Void, "bool"->Bool,
// "int8"->I8, "int"->I16, "float"->F32, "str"->Str. An unrecognized name, or a node that is not a
// TYPE_NAME, reports ok=false. An absent return annotation never reaches this function;
// EmitFunction treats it as Void.
func typeFromAnnotation(n *ast.Node) (value.Type, bool) {
	if n.Typ != ast.TYPE_NAME {
		return value.Void, false
	}
	name, _ := n.Data.(string)
	switch name {
	case "None":
		return value.Void, true
	case "bool":
		return value.Bool, true
	case "int8":
		return value.I8, true
	case "int":
		return value.I16, true
	case "float":
		return value.F32, true
	case "str":
		return value.Str, true
	default:
		return value.Void, false
	}
}

// zeroConstant returns the zero value of an integer or float ValueType, used as the synthetic
// return value when a function body falls off its last statement without an explicit return.
func zeroConstant(t value.Type) llvm.Value {
	switch t {
	case value.Bool, value.I8, value.I16, value.I32:
		return llvm.ConstInt(value.ToBasicType(t), 0, false)
	case value.F32:
		return llvm.ConstFloat(value.ToBasicType(t), 0)
	default:
		panic("emitter: zeroConstant called with non-numeric type " + t.String())
	}
}
