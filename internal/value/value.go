// Package value implements the compiler core's Value & Type Model (component A): a closed
// enumeration of IR value kinds plus a uniform dispatch API the emitter uses to write binary
// operator and comparison logic once per type family instead of once per width.
//
// The source Rust compiler modeled this with an enum carrying per-variant closures (see the
// design notes in SPEC_FULL.md); here it is a tagged struct plus a plain switch over Family,
// matching how the teacher keeps package-level type handles (ir/llvm/transform.go's `i`/`f`
// variables) and branches on them directly rather than through a registered handler table.
package value

import "tinygo.org/x/go-llvm"

// Type is the closed set of value types the emitter can produce.
type Type int

const (
	Void Type = iota
	Bool
	I8
	I16
	I32
	F32
	Str
)

var typeNames = [...]string{"void", "bool", "i8", "i16", "i32", "f32", "str"}

func (t Type) String() string {
	if int(t) < 0 || int(t) >= len(typeNames) {
		return "invalid"
	}
	return typeNames[t]
}

// Family groups Types that share binary-operator and comparison semantics. The uniform dispatch
// API routes on Family rather than on Type so the emitter writes each operator family once.
type Family int

const (
	FamilyVoid Family = iota
	FamilyBool
	FamilyInt   // signed integer, any width: I8, I16, I32.
	FamilyUint  // reserved for a future unsigned integer type; no Type currently maps here.
	FamilyFloat // F32.
	FamilyString
)

// FamilyOf classifies t into its dispatch Family.
func FamilyOf(t Type) Family {
	switch t {
	case Void:
		return FamilyVoid
	case Bool:
		return FamilyBool
	case I8, I16, I32:
		return FamilyInt
	case F32:
		return FamilyFloat
	case Str:
		return FamilyString
	default:
		return FamilyVoid
	}
}

// Value pairs a Type with the opaque LLVM handle the emitter received from the builder. The
// constructors below are the only places a Value may be built. NewInt panics on a non-integer
// Type; no constructor inspects the LLVM handle's own kind, so a handle that does not match the
// declared Type is not detected here.
type Value struct {
	typ Type
	llv llvm.Value
}

// TypeOf returns the ValueType of v.
func (v Value) TypeOf() Type {
	return v.typ
}

// LLVM returns the underlying llvm.Value handle.
func (v Value) LLVM() llvm.Value {
	return v.llv
}

// IsVoid reports whether v carries no runtime value (the result of a void call, or a `None`
// literal).
func (v Value) IsVoid() bool {
	return v.typ == Void
}

// NewVoid constructs the unique Void value.
func NewVoid() Value {
	return Value{typ: Void}
}

// NewInt constructs a Value of the given integer family Type (Bool, I8, I16 or I32) from an
// llvm.Value that must itself be an integer handle. Passing a non-integer Type panics: that is an
// emitter bug, never a user-visible error.
func NewInt(t Type, llv llvm.Value) Value {
	switch t {
	case Bool, I8, I16, I32:
		return Value{typ: t, llv: llv}
	default:
		panic("value: NewInt called with non-integer type " + t.String())
	}
}

// NewFloat constructs an F32 Value from a float-kind llvm.Value.
func NewFloat(llv llvm.Value) Value {
	return Value{typ: F32, llv: llv}
}

// NewStr constructs a Str Value from a pointer-kind llvm.Value addressing interned, read-only
// storage.
func NewStr(llv llvm.Value) Value {
	return Value{typ: Str, llv: llv}
}

// Wrap constructs a Value of type t from an llvm.Value handle, dispatching to the matching
// constructor by Family. Used wherever a Value is rebuilt from a stored Type plus a freshly loaded
// or computed llvm.Value (e.g. loading an identifier, or decoding a call's return value).
func Wrap(t Type, llv llvm.Value) Value {
	switch t {
	case Void:
		return NewVoid()
	case Bool, I8, I16, I32:
		return NewInt(t, llv)
	case F32:
		return NewFloat(llv)
	case Str:
		return NewStr(llv)
	default:
		panic("value: Wrap called with invalid type")
	}
}

// ToBasicType maps a ValueType to its AVR-target LLVM type, per the fixed table in SPEC_FULL.md
// §4.A: Bool->i1, I8->i8, I16->i16, I32->i32, F32->float, Str->i8*.
func ToBasicType(t Type) llvm.Type {
	switch t {
	case Void:
		return llvm.VoidType()
	case Bool:
		return llvm.Int1Type()
	case I8:
		return llvm.Int8Type()
	case I16:
		return llvm.Int16Type()
	case I32:
		return llvm.Int32Type()
	case F32:
		return llvm.FloatType()
	case Str:
		return llvm.PointerType(llvm.Int8Type(), 0)
	default:
		panic("value: ToBasicType called with invalid type")
	}
}

// BitWidth returns the bit width of an integer-family Type (Bool counts as 1 bit), used to decide
// between truncation and sign-extension when casting between integer widths.
func BitWidth(t Type) int {
	switch t {
	case Bool:
		return 1
	case I8:
		return 8
	case I16:
		return 16
	case I32:
		return 32
	default:
		panic("value: BitWidth called with non-integer type " + t.String())
	}
}

// intRank orders the integer family by width, used by MergeGroup to pick the wider operand type.
var intRank = map[Type]int{I8: 1, I16: 2, I32: 3}

// MergeGroup widens two Types within the same Family to their common type, e.g. (I8, I16) -> I16.
// Merging across families (e.g. an integer with a Str) fails: ok is false and the returned Type is
// meaningless.
func MergeGroup(a, b Type) (result Type, ok bool) {
	if a == b {
		return a, true
	}
	fa, fb := FamilyOf(a), FamilyOf(b)
	if fa != fb {
		return Void, false
	}
	switch fa {
	case FamilyInt:
		if intRank[a] >= intRank[b] {
			return a, true
		}
		return b, true
	case FamilyBool, FamilyFloat, FamilyString, FamilyVoid:
		// Only FamilyInt has more than one Type today; same-family-different-Type outside it
		// is unreachable, but fail closed rather than guess.
		return Void, false
	default:
		return Void, false
	}
}
