package cursor

import (
	"testing"

	"cc0/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Start: token.Position{Line: 1, Column: 1}, End: token.Position{Line: 1, Column: 2}}
}

func TestPeekAndNext(t *testing.T) {
	toks := []token.Token{tok(token.Int), tok(token.Identifier), tok(token.EOF)}
	c := New(toks)

	if c.Peek().Kind != token.Int {
		t.Fatalf("Peek() = %v, want Int", c.Peek().Kind)
	}
	if c.Next().Kind != token.Int {
		t.Fatal("Next() should return and consume Int")
	}
	if c.Peek().Kind != token.Identifier {
		t.Fatalf("Peek() after one Next() = %v, want Identifier", c.Peek().Kind)
	}
}

func TestPeekAtClampsToEnd(t *testing.T) {
	toks := []token.Token{tok(token.Int), tok(token.EOF)}
	c := New(toks)
	if c.PeekAt(0).Kind != token.Int {
		t.Fatal("PeekAt(0) should equal Peek()")
	}
	if c.PeekAt(50).Kind != token.EOF {
		t.Fatal("PeekAt beyond the stream should clamp to the last (EOF) token")
	}
}

func TestNextAtEndReturnsEOFRepeatedly(t *testing.T) {
	toks := []token.Token{tok(token.EOF)}
	c := New(toks)
	if c.Next().Kind != token.EOF {
		t.Fatal("Next() on a single-EOF stream should return EOF")
	}
	if c.Next().Kind != token.EOF {
		t.Fatal("Next() past the end should keep returning EOF, not panic")
	}
}

func TestUnreadRewindsExactlyOne(t *testing.T) {
	toks := []token.Token{tok(token.Int), tok(token.Identifier), tok(token.EOF)}
	c := New(toks)
	first := c.Next()
	c.Unread()
	second := c.Next()
	if first.Kind != second.Kind {
		t.Fatalf("Unread() then Next() should replay the same token: %v != %v", first.Kind, second.Kind)
	}
}

func TestUnreadAtStartPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Unread() at the start of the stream should panic")
		}
	}()
	c := New([]token.Token{tok(token.EOF)})
	c.Unread()
}

func TestAtEnd(t *testing.T) {
	toks := []token.Token{tok(token.Int), tok(token.EOF)}
	c := New(toks)
	if c.AtEnd() {
		t.Fatal("AtEnd() should be false before reaching EOF")
	}
	c.Next()
	if !c.AtEnd() {
		t.Fatal("AtEnd() should be true once positioned on EOF")
	}
}
