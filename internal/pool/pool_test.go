package pool

import (
	"testing"

	"cc0/internal/token"
)

func TestInternDedupesBySpelling(t *testing.T) {
	p := New()
	i1 := p.Intern(KindInt, "42")
	i2 := p.Intern(KindInt, "42")
	if i1 != i2 {
		t.Fatalf("re-interning the same spelling should return the same index: %d != %d", i1, i2)
	}
	if p.Len() != 1 {
		t.Fatalf("pool should have 1 entry after a duplicate intern, got %d", p.Len())
	}
}

func TestInternPreservesInsertionOrder(t *testing.T) {
	p := New()
	p.Intern(KindString, "a")
	p.Intern(KindString, "b")
	p.Intern(KindString, "a")
	p.Intern(KindString, "c")
	entries := p.Entries()
	got := []string{entries[0].Text, entries[1].Text, entries[2].Text}
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Entries() = %v, want %v", got, want)
		}
	}
}

func TestInternTokenKindTagging(t *testing.T) {
	p := New()

	idTok := token.Token{Kind: token.Identifier, Lit: token.Literal{StringVal: "x"}, Spelling: "x"}
	idx := p.InternToken(idTok)
	if p.Entries()[idx].Kind != KindString {
		t.Error("identifier should intern as KindString")
	}

	hexTok := token.Token{Kind: token.Hexadecimal, Spelling: "0x1A"}
	idx = p.InternToken(hexTok)
	if p.Entries()[idx].Kind != KindInt {
		t.Error("hexadecimal literal should intern as KindInt")
	}
	if p.Entries()[idx].Text != "0x1A" {
		t.Errorf("hexadecimal literal text = %q, want %q", p.Entries()[idx].Text, "0x1A")
	}

	dblTok := token.Token{Kind: token.DoubleValue, Spelling: "3.25"}
	idx = p.InternToken(dblTok)
	if p.Entries()[idx].Kind != KindDouble {
		t.Error("double literal should intern as KindDouble")
	}
}

func TestInternTokenPanicsOnUnsupportedKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("InternToken on an uninternable kind should panic")
		}
	}()
	p := New()
	p.InternToken(token.Token{Kind: token.Plus})
}
