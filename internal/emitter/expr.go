package emitter

import (
	"strconv"

	"tinygo.org/x/go-llvm"

	"avrc/internal/ast"
	"avrc/internal/diag"
	"avrc/internal/mangle"
	"avrc/internal/value"
)

// EmitExpression generates IR for a single expression node and returns the resulting Value.
func (e *Emitter) EmitExpression(n *ast.Node) (value.Value, error) {
	e.setLoc(n)
	switch n.Typ {
	case ast.INTEGER_LITERAL:
		return e.emitIntLiteral(n)
	case ast.FLOAT_LITERAL:
		return e.emitFloatLiteral(n)
	case ast.STRING_LITERAL:
		s, _ := n.Data.(string)
		return value.NewStr(e.internString(s)), nil
	case ast.BOOL_LITERAL:
		b, _ := n.Data.(bool)
		var bit uint64
		if b {
			bit = 1
		}
		return value.NewInt(value.Bool, llvm.ConstInt(llvm.Int1Type(), bit, false)), nil
	case ast.NONE_LITERAL:
		return value.NewVoid(), nil
	case ast.IDENTIFIER:
		return e.emitIdentifier(n)
	case ast.UNARY_OP:
		return e.emitUnary(n)
	case ast.BINARY_OP:
		return e.emitBinary(n)
	case ast.COMPARE:
		return e.emitCompare(n)
	case ast.CALL:
		return e.emitCall(n)
	default:
		return value.Value{}, &diag.NotImplementedError{Desc: "expression of kind " + n.Type(), Loc: e.loc}
	}
}

func (e *Emitter) emitIntLiteral(n *ast.Node) (value.Value, error) {
	raw, _ := n.Data.(int64)
	truncated := uint16(int16(raw))
	return value.NewInt(value.I16, llvm.ConstInt(llvm.Int16Type(), uint64(truncated), true)), nil
}

func (e *Emitter) emitFloatLiteral(n *ast.Node) (value.Value, error) {
	raw, _ := n.Data.(float64)
	return value.NewFloat(llvm.ConstFloat(llvm.FloatType(), float64(float32(raw)))), nil
}

func (e *Emitter) emitIdentifier(n *ast.Node) (value.Value, error) {
	name, _ := n.Data.(string)
	sym, ok := e.scopes().Lookup(name)
	if !ok {
		return value.Value{}, &diag.NameError{Name: name, Loc: e.loc}
	}
	loaded := e.Builder.CreateLoad(sym.Storage, "")
	return value.Wrap(sym.Type, loaded), nil
}

// emitUnary handles the single supported unary operator: arithmetic negation, which SPEC_FULL.md
// §4.E applies at parse-constant level -- it only ever negates a literal, never a general
// sub-expression. Any other unary operator, or negation of a non-literal, fails NotImplemented.
func (e *Emitter) emitUnary(n *ast.Node) (value.Value, error) {
	op, _ := n.Data.(string)
	if op != "-" {
		return value.Value{}, &diag.NotImplementedError{Desc: "unary operator " + op, Loc: e.loc}
	}
	if len(n.Children) != 1 {
		return value.Value{}, diag.Bug("unary op node has %d children, want 1", len(n.Children))
	}
	operand := n.Children[0]
	switch operand.Typ {
	case ast.INTEGER_LITERAL:
		raw, _ := operand.Data.(int64)
		negated := &ast.Node{Typ: ast.INTEGER_LITERAL, Line: operand.Line, Pos: operand.Pos, Data: -raw}
		return e.emitIntLiteral(negated)
	case ast.FLOAT_LITERAL:
		raw, _ := operand.Data.(float64)
		negated := &ast.Node{Typ: ast.FLOAT_LITERAL, Line: operand.Line, Pos: operand.Pos, Data: -raw}
		return e.emitFloatLiteral(negated)
	default:
		return value.Value{}, &diag.NotImplementedError{Desc: "unary negation of a non-literal expression", Loc: e.loc}
	}
}

// emitBinary handles the arithmetic binary operators, applying the integer/float/mixed promotion
// rules of SPEC_FULL.md §4.E: same-family integer ops stay integer (except "/" which always
// widens to F32); same-family float ops stay float except "//" which is NotImplemented for floats;
// mixed int/float promotes the integer operand to F32.
func (e *Emitter) emitBinary(n *ast.Node) (value.Value, error) {
	op, _ := n.Data.(string)
	if len(n.Children) != 2 {
		return value.Value{}, diag.Bug("binary op node has %d children, want 2", len(n.Children))
	}
	lhs, err := e.EmitExpression(n.Children[0])
	if err != nil {
		return value.Value{}, err
	}
	rhs, err := e.EmitExpression(n.Children[1])
	if err != nil {
		return value.Value{}, err
	}

	lFam, rFam := value.FamilyOf(lhs.TypeOf()), value.FamilyOf(rhs.TypeOf())

	switch {
	case lFam == value.FamilyInt && rFam == value.FamilyInt:
		return e.emitIntBinary(op, lhs, rhs)
	case lFam == value.FamilyFloat && rFam == value.FamilyFloat:
		return e.emitFloatBinary(op, lhs, rhs)
	case lFam == value.FamilyInt && rFam == value.FamilyFloat:
		return e.emitFloatBinary(op, e.promoteToFloat(lhs), rhs)
	case lFam == value.FamilyFloat && rFam == value.FamilyInt:
		return e.emitFloatBinary(op, lhs, e.promoteToFloat(rhs))
	default:
		return value.Value{}, &diag.TypeError{
			Expected: "int or float operands",
			Found:    lhs.TypeOf().String() + " and " + rhs.TypeOf().String(),
			Loc:      e.loc,
		}
	}
}

// promoteToFloat converts an integer-family Value to F32 via a signed int-to-float cast.
func (e *Emitter) promoteToFloat(v value.Value) value.Value {
	return value.NewFloat(e.Builder.CreateSIToFP(v.LLVM(), llvm.FloatType(), ""))
}

func (e *Emitter) emitIntBinary(op string, lhs, rhs value.Value) (value.Value, error) {
	wide, ok := value.MergeGroup(lhs.TypeOf(), rhs.TypeOf())
	if !ok {
		return value.Value{}, &diag.TypeError{Expected: lhs.TypeOf().String(), Found: rhs.TypeOf().String(), Loc: e.loc}
	}
	l := e.castIntTo(lhs, wide)
	r := e.castIntTo(rhs, wide)

	switch op {
	case "+":
		return value.NewInt(wide, e.Builder.CreateAdd(l, r, "")), nil
	case "-":
		return value.NewInt(wide, e.Builder.CreateSub(l, r, "")), nil
	case "*":
		return value.NewInt(wide, e.Builder.CreateMul(l, r, "")), nil
	case "//":
		return value.NewInt(wide, e.Builder.CreateSDiv(l, r, "")), nil
	case "%":
		return value.NewInt(wide, e.Builder.CreateSRem(l, r, "")), nil
	case "/":
		lf := e.Builder.CreateSIToFP(l, llvm.FloatType(), "")
		rf := e.Builder.CreateSIToFP(r, llvm.FloatType(), "")
		return value.NewFloat(e.Builder.CreateFDiv(lf, rf, "")), nil
	default:
		return value.Value{}, &diag.NotImplementedError{Desc: "binary operator " + op, Loc: e.loc}
	}
}

func (e *Emitter) emitFloatBinary(op string, lhs, rhs value.Value) (value.Value, error) {
	l, r := lhs.LLVM(), rhs.LLVM()
	switch op {
	case "+":
		return value.NewFloat(e.Builder.CreateFAdd(l, r, "")), nil
	case "-":
		return value.NewFloat(e.Builder.CreateFSub(l, r, "")), nil
	case "*":
		return value.NewFloat(e.Builder.CreateFMul(l, r, "")), nil
	case "/":
		return value.NewFloat(e.Builder.CreateFDiv(l, r, "")), nil
	case "%":
		return value.NewFloat(e.Builder.CreateFRem(l, r, "")), nil
	case "//":
		return value.Value{}, &diag.NotImplementedError{Desc: "floor division of float operands", Loc: e.loc}
	default:
		return value.Value{}, &diag.NotImplementedError{Desc: "binary operator " + op, Loc: e.loc}
	}
}

// castIntTo casts v (integer family) up or down to width t, leaving it unchanged if already t.
// Widening sign-extends (every integer type here is signed); narrowing truncates.
func (e *Emitter) castIntTo(v value.Value, t value.Type) llvm.Value {
	if v.TypeOf() == t {
		return v.LLVM()
	}
	from, to := value.BitWidth(v.TypeOf()), value.BitWidth(t)
	dest := value.ToBasicType(t)
	if to < from {
		return e.Builder.CreateTrunc(v.LLVM(), dest, "")
	}
	return e.Builder.CreateSExt(v.LLVM(), dest, "")
}

// emitCompare handles single comparisons only; a chained comparison (more than two operands) fails
// NotImplemented per SPEC_FULL.md §4.E.
func (e *Emitter) emitCompare(n *ast.Node) (value.Value, error) {
	if len(n.Children) != 2 {
		return value.Value{}, &diag.NotImplementedError{Desc: "chained comparison", Loc: e.loc}
	}
	op, _ := n.Data.(string)

	lhs, err := e.EmitExpression(n.Children[0])
	if err != nil {
		return value.Value{}, err
	}
	rhs, err := e.EmitExpression(n.Children[1])
	if err != nil {
		return value.Value{}, err
	}

	lFam, rFam := value.FamilyOf(lhs.TypeOf()), value.FamilyOf(rhs.TypeOf())
	if lFam == value.FamilyInt && rFam == value.FamilyFloat {
		lhs = e.promoteToFloat(lhs)
		lFam = value.FamilyFloat
	} else if lFam == value.FamilyFloat && rFam == value.FamilyInt {
		rhs = e.promoteToFloat(rhs)
		rFam = value.FamilyFloat
	}

	switch {
	case (lFam == value.FamilyInt || lFam == value.FamilyBool) && lFam == rFam:
		pred, ok := intPredicate(op)
		if !ok {
			return value.Value{}, &diag.NotImplementedError{Desc: "comparison operator " + op, Loc: e.loc}
		}
		return value.NewInt(value.Bool, e.Builder.CreateICmp(pred, lhs.LLVM(), rhs.LLVM(), "")), nil
	case lFam == value.FamilyFloat && rFam == value.FamilyFloat:
		pred, ok := floatPredicate(op)
		if !ok {
			return value.Value{}, &diag.NotImplementedError{Desc: "comparison operator " + op, Loc: e.loc}
		}
		return value.NewInt(value.Bool, e.Builder.CreateFCmp(pred, lhs.LLVM(), rhs.LLVM(), "")), nil
	default:
		return value.Value{}, &diag.TypeError{
			Expected: "comparable int or float operands",
			Found:    lhs.TypeOf().String() + " and " + rhs.TypeOf().String(),
			Loc:      e.loc,
		}
	}
}

func intPredicate(op string) (llvm.IntPredicate, bool) {
	switch op {
	case "==":
		return llvm.IntEQ, true
	case "!=":
		return llvm.IntNE, true
	case "<":
		return llvm.IntSLT, true
	case "<=":
		return llvm.IntSLE, true
	case ">":
		return llvm.IntSGT, true
	case ">=":
		return llvm.IntSGE, true
	default:
		return 0, false
	}
}

func floatPredicate(op string) (llvm.FloatPredicate, bool) {
	switch op {
	case "==":
		return llvm.FloatOEQ, true
	case "!=":
		return llvm.FloatONE, true
	case "<":
		return llvm.FloatOLT, true
	case "<=":
		return llvm.FloatOLE, true
	case ">":
		return llvm.FloatOGT, true
	case ">=":
		return llvm.FloatOGE, true
	default:
		return 0, false
	}
}

// emitCall resolves and emits a function call. Overload resolution per SPEC_FULL.md §4.E: the
// first argument is evaluated, the callee is looked up by its plain name and, failing that, by its
// name mangled with the first argument's type; only then are the remaining arguments evaluated.
func (e *Emitter) emitCall(n *ast.Node) (value.Value, error) {
	name, _ := n.Children[0].Data.(string)
	argNodes := n.Children[1].Children

	var firstArg value.Value
	var haveFirst bool
	if len(argNodes) > 0 {
		v, err := e.EmitExpression(argNodes[0])
		if err != nil {
			return value.Value{}, err
		}
		firstArg, haveFirst = v, true
	}

	sig, resolvedName, ok := e.resolveCall(name, firstArg, haveFirst)
	if !ok {
		return value.Value{}, &diag.NameError{Name: name, Loc: e.loc}
	}

	if len(sig.Params) != len(argNodes) {
		return value.Value{}, &diag.SyntaxError{
			Desc: resolvedName + ": expected " + strconv.Itoa(len(sig.Params)) + " arguments, got " + strconv.Itoa(len(argNodes)),
			Loc:  e.loc,
		}
	}

	args := make([]llvm.Value, len(argNodes))
	for i, argNode := range argNodes {
		var v value.Value
		var err error
		if i == 0 && haveFirst {
			v = firstArg
		} else {
			v, err = e.EmitExpression(argNode)
			if err != nil {
				return value.Value{}, err
			}
		}
		coerced, err := e.coerceArg(v, sig.Params[i])
		if err != nil {
			return value.Value{}, err
		}
		args[i] = coerced
	}

	call := e.Builder.CreateCall(sig.LLVM, args, "")
	return value.Wrap(sig.Return, call), nil
}

// resolveCall tries name unmangled first, then (if a first argument is available) mangled by its
// type, per the overload dispatch rule in SPEC_FULL.md §4.C/§4.E.
func (e *Emitter) resolveCall(name string, firstArg value.Value, haveFirst bool) (funcSig, string, bool) {
	if sig, ok := e.funcs[name]; ok {
		return sig, name, true
	}
	if haveFirst {
		mangled := mangle.Name(name, firstArg.TypeOf())
		if sig, ok := e.funcs[mangled]; ok {
			return sig, mangled, true
		}
	}
	return funcSig{}, name, false
}

// coerceArg converts v to match the declared parameter type paramType: integers are cast/truncated
// to the parameter's width, floats and strings pass through unchanged, and any other pairing fails
// NotImplemented.
func (e *Emitter) coerceArg(v value.Value, paramType value.Type) (llvm.Value, error) {
	switch value.FamilyOf(v.TypeOf()) {
	case value.FamilyInt, value.FamilyBool:
		if value.FamilyOf(paramType) != value.FamilyInt && value.FamilyOf(paramType) != value.FamilyBool {
			return llvm.Value{}, &diag.NotImplementedError{Desc: "coercing int argument to " + paramType.String(), Loc: e.loc}
		}
		return e.castIntTo(v, paramType), nil
	case value.FamilyFloat:
		if paramType != value.F32 {
			return llvm.Value{}, &diag.NotImplementedError{Desc: "coercing float argument to " + paramType.String(), Loc: e.loc}
		}
		return v.LLVM(), nil
	case value.FamilyString:
		if paramType != value.Str {
			return llvm.Value{}, &diag.NotImplementedError{Desc: "coercing string argument to " + paramType.String(), Loc: e.loc}
		}
		return v.LLVM(), nil
	default:
		return llvm.Value{}, &diag.NotImplementedError{Desc: "coercing argument of type " + v.TypeOf().String(), Loc: e.loc}
	}
}

// truthy coerces v to an i1 for use by `if` and `while`, per SPEC_FULL.md §4.E: Bool passes
// through, integers compare != 0, floats compare ordered-not-equal to 0.0, and strings (or
// anything else) are NotImplemented.
func (e *Emitter) truthy(v value.Value) (llvm.Value, error) {
	switch value.FamilyOf(v.TypeOf()) {
	case value.FamilyBool:
		return v.LLVM(), nil
	case value.FamilyInt:
		zero := llvm.ConstInt(v.LLVM().Type(), 0, true)
		return e.Builder.CreateICmp(llvm.IntNE, v.LLVM(), zero, ""), nil
	case value.FamilyFloat:
		zero := llvm.ConstFloat(llvm.FloatType(), 0.0)
		return e.Builder.CreateFCmp(llvm.FloatONE, v.LLVM(), zero, ""), nil
	default:
		return llvm.Value{}, &diag.NotImplementedError{Desc: "truthiness of " + v.TypeOf().String(), Loc: e.loc}
	}
}
