// Package proto implements the compiler core's Prototype Table (component D): the signatures of
// runtime-provided functions so user code can call them. These are declarations only — no body —
// resolved at link time against the prebuilt C/C++ runtime (Serial.cc, Builtins.cc) that ships
// with the downstream avr-gcc toolchain.
//
// Grounded on original_source/src/compiler/prototypes.rs (generate_prototypes), extended to the
// full table SPEC_FULL.md §4.D requires, and expressed the way the teacher declares runtime
// functions lazily in ir/llvm/transform.go's genPrintf/genAtoi/genAtof: llvm.AddFunction with a
// llvm.FunctionType built from the package's value.ToBasicType table.
package proto

import (
	"tinygo.org/x/go-llvm"

	"avrc/internal/value"
)

// Signature describes one prototype entry: its parameter types (in order) and return type.
type Signature struct {
	Name   string
	Params []value.Type
	Return value.Type
}

// Table lists every prototype the Arduino runtime provides, per SPEC_FULL.md §4.D.
var Table = []Signature{
	{"pin_mode", []value.Type{value.I8, value.I8}, value.Void},
	{"digital_write", []value.Type{value.I8, value.I8}, value.Void},
	{"digital_read", []value.Type{value.I8}, value.I16},
	{"analog_write", []value.Type{value.I8, value.I8}, value.Void},
	{"analog_read", []value.Type{value.I8}, value.I16},
	{"pulse_in", []value.Type{value.I8, value.I8}, value.F32},

	{"is_serial_available", nil, value.Bool},
	{"serial_begin", []value.Type{value.I16}, value.Void},
	{"input", nil, value.I16},
	{"flush", nil, value.Void},

	{"delay", []value.Type{value.I32}, value.Void},

	{"sin", []value.Type{value.F32}, value.F32},
	{"cos", []value.Type{value.F32}, value.F32},
	{"tan", []value.Type{value.F32}, value.F32},

	{"print__i__", []value.Type{value.I16}, value.Void},
	{"print__f__", []value.Type{value.F32}, value.Void},
	{"print__s__", []value.Type{value.Str}, value.Void},
	{"println__i__", []value.Type{value.I16}, value.Void},
	{"println__f__", []value.Type{value.F32}, value.Void},
	{"println__s__", []value.Type{value.Str}, value.Void},

	{"int__i__", []value.Type{value.I16}, value.I16},
	{"int__f__", []value.Type{value.F32}, value.I16},
	{"float__i__", []value.Type{value.I16}, value.F32},
	{"float__f__", []value.Type{value.F32}, value.F32},
}

// Install declares every entry of Table in m as an external-linkage function declaration (the
// default llvm.AddFunction linkage). Install must run once per module, before any user or
// standard-library code is emitted, so that call sites can resolve these names via m.NamedFunction
// the same way the teacher's genExpression resolves user-defined functions.
func Install(m llvm.Module) {
	for _, sig := range Table {
		params := make([]llvm.Type, len(sig.Params))
		for i, p := range sig.Params {
			params[i] = value.ToBasicType(p)
		}
		ftyp := llvm.FunctionType(value.ToBasicType(sig.Return), params, false)
		llvm.AddFunction(m, sig.Name, ftyp)
	}
}

// Lookup finds a prototype Signature by name. The emitter does not call it: it resolves call
// sites through the signatures it registered in Emitter.InstallPrototypes.
func Lookup(name string) (Signature, bool) {
	for _, sig := range Table {
		if sig.Name == name {
			return sig, true
		}
	}
	return Signature{}, false
}
