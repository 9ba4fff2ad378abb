package compileerr

import (
	"testing"

	"cc0/internal/token"
)

func TestErrorFormat(t *testing.T) {
	err := New(token.Position{Line: 4, Column: 9}, NotDeclared)
	want := "Line: 4 Column: 9 Error: NotDeclared"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCodeStringUnknown(t *testing.T) {
	c := Code(9999)
	if c.String() != "Code(9999)" {
		t.Errorf("unknown Code.String() = %q", c.String())
	}
}

func TestEveryCodeHasAMessage(t *testing.T) {
	codes := []Code{
		EOF, InvalidInput, InvalidIdentifier, IntegerOverflow, NeedIdentifier,
		ConstantNeedValue, NoSemicolon, InvalidVariableDeclaration,
		IncompleteExpression, NotDeclared, AssignToConstant,
		DuplicateDeclaration, NotInitialized, InvalidAssignment, InvalidPrint,
		InvalidFunctionParamType, InvalidFunctionParamCount, InvalidType,
		InvalidVariableType, NoLeftBrace, NoRightBrace, StatementSequence,
		ErrLoop, ErrBreak, ErrContinue, ErrReturnWrong, ErrNeedCase,
		ErrNeedColon, ErrDupCase, ErrInvalidCaseType, ErrInvalidSwitchType,
		ErrInvalidInput,
	}
	for _, c := range codes {
		if msg, ok := messages[c]; !ok || msg == "" {
			t.Errorf("code %d has no message", int(c))
		}
	}
}
