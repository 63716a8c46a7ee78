package value

import "testing"

func TestFamilyOf(t *testing.T) {
	cases := []struct {
		typ  Type
		want Family
	}{
		{Void, FamilyVoid},
		{Bool, FamilyBool},
		{I8, FamilyInt},
		{I16, FamilyInt},
		{I32, FamilyInt},
		{F32, FamilyFloat},
		{Str, FamilyString},
	}
	for _, c := range cases {
		if got := FamilyOf(c.typ); got != c.want {
			t.Errorf("FamilyOf(%s) = %v, want %v", c.typ, got, c.want)
		}
	}
}

func TestMergeGroupSameFamily(t *testing.T) {
	cases := []struct {
		a, b, want Type
	}{
		{I8, I8, I8},
		{I8, I16, I16},
		{I16, I8, I16},
		{I16, I32, I32},
		{I32, I8, I32},
	}
	for _, c := range cases {
		got, ok := MergeGroup(c.a, c.b)
		if !ok {
			t.Fatalf("MergeGroup(%s, %s): ok = false, want true", c.a, c.b)
		}
		if got != c.want {
			t.Errorf("MergeGroup(%s, %s) = %s, want %s", c.a, c.b, got, c.want)
		}
	}
}

func TestMergeGroupCrossFamilyFails(t *testing.T) {
	if _, ok := MergeGroup(I16, F32); ok {
		t.Fatal("MergeGroup(I16, F32): ok = true, want false")
	}
	if _, ok := MergeGroup(Str, I16); ok {
		t.Fatal("MergeGroup(Str, I16): ok = true, want false")
	}
}

func TestBitWidth(t *testing.T) {
	cases := map[Type]int{Bool: 1, I8: 8, I16: 16, I32: 32}
	for typ, want := range cases {
		if got := BitWidth(typ); got != want {
			t.Errorf("BitWidth(%s) = %d, want %d", typ, got, want)
		}
	}
}

func TestBitWidthPanicsOnNonInteger(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("BitWidth(F32) did not panic")
		}
	}()
	BitWidth(F32)
}
