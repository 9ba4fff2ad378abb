package token

import "testing"

func TestKindString(t *testing.T) {
	if Plus.String() != "+" {
		t.Errorf("Plus.String() = %q, want %q", Plus.String(), "+")
	}
	if Identifier.String() != "identifier" {
		t.Errorf("Identifier.String() = %q", Identifier.String())
	}
	unknown := Kind(9999)
	if unknown.String() != "Kind(9999)" {
		t.Errorf("unknown Kind.String() = %q", unknown.String())
	}
}

func TestPositionString(t *testing.T) {
	p := Position{Line: 3, Column: 7}
	want := "Line: 3 Column: 7"
	if got := p.String(); got != want {
		t.Errorf("Position.String() = %q, want %q", got, want)
	}
}

func TestKeywordsTable(t *testing.T) {
	for word, kind := range Keywords {
		if kind.String() != word {
			t.Errorf("Keywords[%q] = %v, whose String() is %q", word, kind, kind.String())
		}
	}
}
