package lexer

import (
	"testing"

	"cc0/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, tk := range toks {
		ks[i] = tk.Kind
	}
	return ks
}

func assertKinds(t *testing.T, src string, want ...token.Kind) {
	t.Helper()
	s := NewScanner(src)
	toks := s.ScanTokens()
	if err := s.Err(); err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	want = append(want, token.EOF)
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v vs %v)", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token[%d] = %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestKeywordsAndPunctuation(t *testing.T) {
	assertKinds(t, "void main ( ) { }",
		token.Void, token.Identifier, token.LParen, token.RParen, token.LBrace, token.RBrace)
}

func TestTwoCharOperators(t *testing.T) {
	assertKinds(t, "== != <= >= < >",
		token.Equal, token.NotEqual, token.LessEqual, token.GreaterEqual, token.Less, token.Greater)
}

func TestCommentsAreSkipped(t *testing.T) {
	assertKinds(t, "int x; // trailing comment\nint y;",
		token.Int, token.Identifier, token.Semicolon, token.Int, token.Identifier, token.Semicolon)
}

func TestUnsignedIntegerLiteral(t *testing.T) {
	s := NewScanner("42")
	toks := s.ScanTokens()
	if toks[0].Kind != token.UnsignedInteger || toks[0].Lit.Int32Val != 42 {
		t.Fatalf("unexpected token: %+v", toks[0])
	}
}

func TestHexadecimalLiteral(t *testing.T) {
	s := NewScanner("0x1A")
	toks := s.ScanTokens()
	if toks[0].Kind != token.Hexadecimal || toks[0].Lit.Int32Val != 26 {
		t.Fatalf("unexpected token: %+v", toks[0])
	}
}

func TestDoubleLiteral(t *testing.T) {
	s := NewScanner("3.25")
	toks := s.ScanTokens()
	if toks[0].Kind != token.DoubleValue || toks[0].Lit.DoubleVal != 3.25 {
		t.Fatalf("unexpected token: %+v", toks[0])
	}
}

func TestCharLiteral(t *testing.T) {
	s := NewScanner("'a'")
	toks := s.ScanTokens()
	if toks[0].Kind != token.CharValue || toks[0].Lit.CharVal != 'a' {
		t.Fatalf("unexpected token: %+v", toks[0])
	}
}

func TestStringLiteralWithEscape(t *testing.T) {
	s := NewScanner(`"hi\n"`)
	toks := s.ScanTokens()
	if toks[0].Kind != token.StringValue || toks[0].Lit.StringVal != "hi\n" {
		t.Fatalf("unexpected token: %+v", toks[0])
	}
}

func TestUnterminatedStringIsAnError(t *testing.T) {
	s := NewScanner(`"hi`)
	s.ScanTokens()
	if s.Err() == nil {
		t.Fatal("unterminated string literal should produce a lex error")
	}
}

func TestUnexpectedCharacterIsAnError(t *testing.T) {
	s := NewScanner("int x = 1 & 2;")
	s.ScanTokens()
	if s.Err() == nil {
		t.Fatal("'&' is not part of c0's grammar and should be a lex error")
	}
}

func TestIdentifierVsKeyword(t *testing.T) {
	s := NewScanner("while whiletrue")
	toks := s.ScanTokens()
	if toks[0].Kind != token.While {
		t.Fatalf("token[0] = %v, want While", toks[0].Kind)
	}
	if toks[1].Kind != token.Identifier {
		t.Fatalf("token[1] = %v, want Identifier (longest-match should not split at 'while')", toks[1].Kind)
	}
}
