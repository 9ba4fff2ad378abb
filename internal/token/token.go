// Package token defines the token vocabulary produced by the lexer and
// consumed by the translator's TokenCursor.
package token

import "fmt"

// Kind enumerates every token category the translator can see: keywords,
// punctuation, and literal categories.
type Kind int

const (
	// Keywords
	Const Kind = iota
	Void
	Int
	Char
	Double
	If
	Else
	While
	Do
	For
	Switch
	Case
	Default
	Break
	Continue
	Return
	Scan
	Print
	Struct

	// Punctuation
	Semicolon
	Comma
	Colon
	LParen
	RParen
	LBrace
	RBrace
	Plus
	Minus
	Star
	Slash
	Assign // '='
	Equal  // '=='
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual

	// Literal categories
	UnsignedInteger
	Hexadecimal
	DoubleValue
	CharValue
	StringValue
	Identifier

	EOF
)

var names = map[Kind]string{
	Const: "const", Void: "void", Int: "int", Char: "char", Double: "double",
	If: "if", Else: "else", While: "while", Do: "do", For: "for",
	Switch: "switch", Case: "case", Default: "default", Break: "break",
	Continue: "continue", Return: "return", Scan: "scan", Print: "print",
	Struct: "struct",
	Semicolon: ";", Comma: ",", Colon: ":", LParen: "(", RParen: ")",
	LBrace: "{", RBrace: "}", Plus: "+", Minus: "-", Star: "*", Slash: "/",
	Assign: "=", Equal: "==", NotEqual: "!=", Less: "<", LessEqual: "<=",
	Greater: ">", GreaterEqual: ">=",
	UnsignedInteger: "unsigned-integer", Hexadecimal: "hexadecimal",
	DoubleValue: "double-value", CharValue: "char-value",
	StringValue: "string-value", Identifier: "identifier", EOF: "EOF",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps spelling to keyword kind, used by the lexer.
var Keywords = map[string]Kind{
	"const": Const, "void": Void, "int": Int, "char": Char, "double": Double,
	"if": If, "else": Else, "while": While, "do": Do, "for": For,
	"switch": Switch, "case": Case, "default": Default, "break": Break,
	"continue": Continue, "return": Return, "scan": Scan, "print": Print,
	"struct": Struct,
}

// Position is a 1-based line/column location in the source text.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("Line: %d Column: %d", p.Line, p.Column)
}

// LiteralKind tags which field of Literal is meaningful. Kept as an
// explicit sum tag rather than an untyped interface{} payload so the
// translator and the binary emitter never need to type-switch on `any`.
type LiteralKind int

const (
	LitNone LiteralKind = iota
	LitInt32
	LitDouble
	LitChar
	LitString
)

// Literal is the typed payload a token may carry.
type Literal struct {
	Kind      LiteralKind
	Int32Val  int32
	DoubleVal float64
	CharVal   byte
	StringVal string
}

// Token is a lexeme with its source span and (for literal/identifier
// kinds) its typed payload. Spelling is the token's raw source text, for
// every kind (the lexer's synthetic EOF token has an empty Spelling).
type Token struct {
	Kind    Kind
	Start   Position
	End     Position
	Lit     Literal
	Spelling string // raw source text; used as the ConstantPool dedup key
}
