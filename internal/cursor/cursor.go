// Package cursor implements TokenCursor: a buffered forward/backward scan
// over an already-tokenized source, used by the translator for lookahead
// during declaration-vs-definition disambiguation.
package cursor

import "cc0/internal/token"

// Cursor walks a fixed token vector. unread rewinds by one and is the
// basis for arbitrary-depth lookahead: a caller can peek, decide it
// guessed wrong, and unread back to where it started.
type Cursor struct {
	tokens []token.Token
	pos    int // index of the next token next() will return
}

func New(tokens []token.Token) *Cursor {
	return &Cursor{tokens: tokens}
}

// Peek returns the next token without consuming it.
func (c *Cursor) Peek() token.Token {
	return c.tokens[c.pos]
}

// PeekAt returns the token n positions ahead of the cursor (PeekAt(0) ==
// Peek), without consuming anything. Used for the 3-token lookahead the
// function-vs-declaration grammar requires.
func (c *Cursor) PeekAt(n int) token.Token {
	i := c.pos + n
	if i >= len(c.tokens) {
		i = len(c.tokens) - 1
	}
	return c.tokens[i]
}

// Next advances and returns the consumed token, or the EOF token if the
// cursor has already reached the end.
func (c *Cursor) Next() token.Token {
	t := c.tokens[c.pos]
	if c.pos < len(c.tokens)-1 {
		c.pos++
	}
	return t
}

// Unread rewinds the cursor by one token. It panics if the cursor is
// already at the start: rewinding before the first token is always a
// translator programming error, never a user-facing condition.
func (c *Cursor) Unread() {
	if c.pos == 0 {
		panic("cursor: unread at start of token stream")
	}
	c.pos--
}

// Position returns the end-position of the last consumed token, used to
// anchor diagnostics when the error is detected just past the offending
// token (e.g. "expected ';' but found end of declaration").
func (c *Cursor) Position() token.Position {
	if c.pos == 0 {
		return c.tokens[0].Start
	}
	return c.tokens[c.pos-1].End
}

// AtEnd reports whether the cursor is positioned on the EOF token.
func (c *Cursor) AtEnd() bool {
	return c.Peek().Kind == token.EOF
}
