// Package mangle implements the compiler core's Name Mangler (component C): a pure function that
// derives an overload-resolved symbol name from a base name plus the type of the first argument.
//
// Grounded on original_source/src/compiler/mangler.rs (get_mangled_func_name), translated from
// that file's per-argument-kind suffix scheme into the fixed three-suffix scheme SPEC_FULL.md
// §4.C specifies: only the first argument ever participates, because the subset language has no
// true multimethod dispatch.
package mangle

import "avrc/internal/value"

// Name derives the mangled symbol name for base given the ValueType of its first argument. Families
// other than string/integer/float yield no suffix at all: callers try the unmangled name first and
// the mangled name second, so a base name with no applicable suffix simply never resolves via
// mangling and the unmangled lookup is expected to have already succeeded or failed.
func Name(base string, t value.Type) string {
	suffix := Suffix(t)
	if suffix == "" {
		return base
	}
	return base + suffix
}

// Suffix returns the mangling suffix for t: "__s__" for Str, "__i__" for Bool/I8/I16/I32, "__f__"
// for F32, and "" for Void (and anything else, defensively).
func Suffix(t value.Type) string {
	switch value.FamilyOf(t) {
	case value.FamilyString:
		return "__s__"
	case value.FamilyBool, value.FamilyInt:
		return "__i__"
	case value.FamilyFloat:
		return "__f__"
	default:
		return ""
	}
}
