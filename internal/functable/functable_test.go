package functable

import (
	"testing"

	"cc0/internal/types"
)

func TestDeclareAndLookup(t *testing.T) {
	ft := New()
	idx, slots := ft.Declare("add", 0, types.Int, []types.Type{types.Int, types.Double}, 0)
	if idx != 0 {
		t.Fatalf("first declared function should have index 0, got %d", idx)
	}
	if slots != 3 { // int(1) + double(2)
		t.Fatalf("param slots = %d, want 3", slots)
	}

	got, ok := ft.Lookup("add")
	if !ok || got != 0 {
		t.Fatalf("Lookup(add) = (%d, %v), want (0, true)", got, ok)
	}

	ret, params := ft.Signature(0)
	if ret != types.Int || len(params) != 2 {
		t.Fatalf("Signature(0) = (%v, %v)", ret, params)
	}
}

func TestDeclareOrderIsFunctionIndex(t *testing.T) {
	ft := New()
	ft.Declare("f", 0, types.Void, nil, 0)
	idx, _ := ft.Declare("g", 1, types.Void, nil, 0)
	if idx != 1 {
		t.Fatalf("second function should get index 1, got %d", idx)
	}
}

func TestIsDeclared(t *testing.T) {
	ft := New()
	if ft.IsDeclared("f") {
		t.Fatal("f should not be declared yet")
	}
	ft.Declare("f", 0, types.Void, nil, 0)
	if !ft.IsDeclared("f") {
		t.Fatal("f should be declared after Declare")
	}
}

func TestEntryMetadata(t *testing.T) {
	ft := New()
	ft.Declare("main", 3, types.Void, nil, 0)
	e := ft.Entry(0)
	if e.NameConstIdx != 3 || e.Name != "main" || e.Level != 0 {
		t.Fatalf("unexpected entry: %+v", e)
	}
}
