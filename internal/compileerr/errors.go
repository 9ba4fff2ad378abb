// Package compileerr defines the translator's closed error taxonomy and
// the CompilationError sum type every core operation can fail with.
package compileerr

import (
	"fmt"

	"cc0/internal/token"
)

// Code is the closed set of diagnosable failures. Each carries a fixed
// message string so the CLI driver and the golden tests agree on wording.
type Code int

const (
	EOF Code = iota
	InvalidInput
	InvalidIdentifier
	IntegerOverflow
	NeedIdentifier
	ConstantNeedValue
	NoSemicolon
	InvalidVariableDeclaration
	IncompleteExpression
	NotDeclared
	AssignToConstant
	DuplicateDeclaration
	NotInitialized
	InvalidAssignment
	InvalidPrint
	InvalidFunctionParamType
	InvalidFunctionParamCount
	InvalidType
	InvalidVariableType
	NoLeftBrace
	NoRightBrace
	StatementSequence
	ErrLoop
	ErrBreak
	ErrContinue
	ErrReturnWrong
	ErrNeedCase
	ErrNeedColon
	ErrDupCase
	ErrInvalidCaseType
	ErrInvalidSwitchType
	ErrInvalidInput
)

var messages = map[Code]string{
	EOF:                        "EOF",
	InvalidInput:                "InvalidInput",
	InvalidIdentifier:           "InvalidIdentifier",
	IntegerOverflow:             "IntegerOverflow",
	NeedIdentifier:              "NeedIdentifier",
	ConstantNeedValue:           "ConstantNeedValue",
	NoSemicolon:                 "NoSemicolon",
	InvalidVariableDeclaration:  "InvalidVariableDeclaration",
	IncompleteExpression:        "IncompleteExpression",
	NotDeclared:                 "NotDeclared",
	AssignToConstant:            "AssignToConstant",
	DuplicateDeclaration:        "DuplicateDeclaration",
	NotInitialized:              "NotInitialized",
	InvalidAssignment:           "InvalidAssignment",
	InvalidPrint:                "InvalidPrint",
	InvalidFunctionParamType:    "InvalidFunctionParamType",
	InvalidFunctionParamCount:   "InvalidFunctionParamCount",
	InvalidType:                 "InvalidType",
	InvalidVariableType:         "InvalidVariableType",
	NoLeftBrace:                 "NoLeftBrace",
	NoRightBrace:                "NoRightBrace",
	StatementSequence:           "StatementSequence",
	ErrLoop:                     "ErrLoop",
	ErrBreak:                    "ErrBreak",
	ErrContinue:                 "ErrContinue",
	ErrReturnWrong:              "ErrReturnWrong",
	ErrNeedCase:                 "ErrNeedCase",
	ErrNeedColon:                "ErrNeedColon",
	ErrDupCase:                  "ErrDupCase",
	ErrInvalidCaseType:          "ErrInvalidCaseType",
	ErrInvalidSwitchType:        "ErrInvalidSwitchType",
	ErrInvalidInput:             "ErrInvalidInput",
}

func (c Code) String() string {
	if s, ok := messages[c]; ok {
		return s
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// CompilationError is the sum type every translator operation fails with:
// a source position plus a closed error code. The first one raised aborts
// translation; there is no recovery.
type CompilationError struct {
	Position token.Position
	Code     Code
}

func New(pos token.Position, code Code) *CompilationError {
	return &CompilationError{Position: pos, Code: code}
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("Line: %d Column: %d Error: %s", e.Position.Line, e.Position.Column, e.Code)
}
