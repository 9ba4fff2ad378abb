package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cc0/internal/types"
)

func TestDeclareAndLookupGlobal(t *testing.T) {
	tb := New()
	tb.DeclareVar("a", types.Int)
	tb.DeclareVar("b", types.Double)

	assert.True(t, tb.IsVisible("a"))
	assert.True(t, tb.IsVisible("b"))
	assert.False(t, tb.IsVisible("c"))
	assert.Equal(t, types.Int, tb.TypeOf("a"))
	assert.Equal(t, types.Double, tb.TypeOf("b"))
}

func TestSlotWidthAdvancesByType(t *testing.T) {
	tb := New()
	tb.DeclareVar("a", types.Int) // offset 0, width 1
	tb.DeclareVar("b", types.Double) // offset 1, width 2
	tb.DeclareVar("c", types.Char) // offset 3, width 1

	_, offA := tb.Lookup("a")
	_, offB := tb.Lookup("b")
	_, offC := tb.Lookup("c")
	assert.Equal(t, 0, offA)
	assert.Equal(t, 1, offB)
	assert.Equal(t, 3, offC)
	assert.Equal(t, 4, tb.NextSlot())
}

func TestDuplicateDeclarationDetection(t *testing.T) {
	tb := New()
	tb.DeclareVar("x", types.Int)
	assert.True(t, tb.IsDeclaredHere("x"), "x should be visible at the level it was declared")

	tb.PushLevel(0)
	assert.False(t, tb.IsDeclaredHere("x"), "a fresh nested level has no declarations of its own yet")
	assert.True(t, tb.IsVisible("x"), "x from the enclosing level should still resolve")
}

func TestUninitializedThenPromoted(t *testing.T) {
	tb := New()
	tb.DeclareUninit("x", types.Int)
	require.False(t, tb.IsInitialized("x"))
	tb.PromoteToInitialized("x")
	assert.True(t, tb.IsInitialized("x"))
}

func TestConstantFlag(t *testing.T) {
	tb := New()
	tb.DeclareConst("pi", types.Double)
	assert.True(t, tb.IsConstant("pi"))
	tb.DeclareVar("x", types.Int)
	assert.False(t, tb.IsConstant("x"))
}

// TestDisplayLevelEncoding verifies the LOADA display-level rule: a
// reference to a global from inside a function body gets display level
// 1, while a reference to anything (including another global) made from
// the global level itself, or to a local from inside its own function,
// gets display level 0.
func TestDisplayLevelEncoding(t *testing.T) {
	tb := New()
	tb.DeclareVar("g", types.Int)

	levelAtGlobal, _ := tb.Lookup("g")
	assert.Equal(t, 0, levelAtGlobal, "referencing a global from start-code (level 0) must use display level 0")

	tb.PushLevel(0)
	tb.DeclareVar("local", types.Int)

	levelForGlobalFromFunc, _ := tb.Lookup("g")
	assert.Equal(t, 1, levelForGlobalFromFunc, "referencing a global from inside a function body must use display level 1")

	levelForLocal, _ := tb.Lookup("local")
	assert.Equal(t, 0, levelForLocal, "referencing a local from its own function body must use display level 0")
}

func TestPushPopLevelDiscardsNestedSymbols(t *testing.T) {
	tb := New()
	tb.DeclareVar("g", types.Int)
	tb.PushLevel(0)
	tb.DeclareVar("inner", types.Int)
	require.True(t, tb.IsVisible("inner"))
	tb.PopLevel()
	assert.False(t, tb.IsVisible("inner"), "popping a level must discard its symbols")
	assert.True(t, tb.IsVisible("g"), "popping a nested level must not disturb the global level")
}

func TestPopGlobalLevelPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("popping the global level should panic")
		}
	}()
	tb := New()
	tb.PopLevel()
}

func TestSiblingBlocksReuseFrameOffsets(t *testing.T) {
	tb := New()
	tb.PushLevel(0) // function body
	tb.DeclareVar("p", types.Int)
	base := tb.NextSlot()

	tb.PushLevel(base)
	tb.DeclareVar("a", types.Int)
	tb.PopLevel()

	tb.PushLevel(base)
	tb.DeclareVar("b", types.Int)
	_, offB := tb.Lookup("b")
	tb.PopLevel()

	assert.Equal(t, base, offB, "a sibling block should be able to reuse the same frame offset as the previous one")
}
