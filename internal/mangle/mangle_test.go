package mangle

import (
	"testing"

	"avrc/internal/value"
)

// TestName verifies the fixed three-suffix mangling scheme the mangled-name overload lookup relies
// on, table-driven in the style of the teacher's frontend/lexer_test.go.
func TestName(t *testing.T) {
	cases := []struct {
		base string
		typ  value.Type
		want string
	}{
		{"print", value.Str, "print__s__"},
		{"print", value.Bool, "print__i__"},
		{"print", value.I8, "print__i__"},
		{"print", value.I16, "print__i__"},
		{"print", value.I32, "print__i__"},
		{"print", value.F32, "print__f__"},
		{"print", value.Void, "print"},
	}

	for _, c := range cases {
		got := Name(c.base, c.typ)
		if got != c.want {
			t.Errorf("Name(%q, %s) = %q, want %q", c.base, c.typ, got, c.want)
		}
	}
}

// TestNameDeterministic asserts mangling is byte-equal across repeated calls, the law SPEC_FULL.md
// §8 names explicitly.
func TestNameDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		if Name("println", value.I16) != Name("println", value.I16) {
			t.Fatal("mangle.Name is not deterministic")
		}
	}
}
