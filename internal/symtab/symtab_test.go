package symtab

import (
	"testing"

	"tinygo.org/x/go-llvm"

	"avrc/internal/value"
)

func TestLocalTableRebindSameTypeReusesSlot(t *testing.T) {
	lt := NewLocalTable()
	storage := llvm.Value{}
	sym1, err := lt.Define("x", value.I16, storage)
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	sym2, err := lt.Define("x", value.I16, storage)
	if err != nil {
		t.Fatalf("Define (rebind): %v", err)
	}
	if sym1 != sym2 {
		t.Error("rebinding with the same type should reuse the existing Symbol")
	}
}

func TestLocalTableRebindDifferentTypeFails(t *testing.T) {
	lt := NewLocalTable()
	if _, err := lt.Define("x", value.I16, llvm.Value{}); err != nil {
		t.Fatalf("Define: %v", err)
	}
	if _, err := lt.Define("x", value.F32, llvm.Value{}); err == nil {
		t.Fatal("redefining with a different type should fail")
	}
}

func TestGlobalTableDefineAndLookup(t *testing.T) {
	gt := NewGlobalTable()
	if err := gt.Define("g", value.I32, llvm.Value{}); err != nil {
		t.Fatalf("Define: %v", err)
	}
	sym, ok := gt.Lookup("g")
	if !ok {
		t.Fatal("Lookup did not find defined global")
	}
	if sym.Type != value.I32 {
		t.Errorf("Type = %s, want %s", sym.Type, value.I32)
	}
	if _, ok := gt.Lookup("missing"); ok {
		t.Fatal("Lookup found a name that was never defined")
	}
}

func TestScopesLocalShadowsGlobalWithoutMutating(t *testing.T) {
	gt := NewGlobalTable()
	if err := gt.Define("x", value.I16, llvm.Value{}); err != nil {
		t.Fatalf("Define global: %v", err)
	}
	lt := NewLocalTable()
	if _, err := lt.Define("x", value.F32, llvm.Value{}); err != nil {
		t.Fatalf("Define local: %v", err)
	}

	scopes := Scopes{Local: lt, Global: gt}
	sym, ok := scopes.Lookup("x")
	if !ok {
		t.Fatal("Lookup did not find shadowing local")
	}
	if sym.Type != value.F32 {
		t.Errorf("Lookup resolved to %s, want the local's %s", sym.Type, value.F32)
	}

	global, _ := gt.Lookup("x")
	if global.Type != value.I16 {
		t.Error("local shadowing mutated the global symbol's type")
	}
}
