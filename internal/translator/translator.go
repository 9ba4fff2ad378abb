// Package translator implements the single-pass syntax-directed
// translator: a recursive-descent parser fused with a semantic analyzer
// and a bytecode emitter. It is the heart of the compiler; every other
// package in this module is either a data structure it manipulates
// (cursor, pool, symbols, functable, bytecode) or a consumer of its
// output (asm, objfile).
package translator

import (
	"cc0/internal/bytecode"
	"cc0/internal/compileerr"
	"cc0/internal/cursor"
	"cc0/internal/functable"
	"cc0/internal/ir"
	"cc0/internal/pool"
	"cc0/internal/symbols"
	"cc0/internal/token"
	"cc0/internal/types"
)

// Translator drives the whole compilation. It owns no global mutable
// "current instruction vector" field; instead each codegen method takes
// an explicit destination vector (dst *[]bytecode.Instruction) to append
// into. This is the same "currently selected instruction target" the
// spec describes, expressed as an explicit parameter rather than mutable
// state, which keeps the binary-operator staging discipline (scratch
// vectors for a right operand) a matter of passing a different dst
// instead of save/restore bookkeeping.
type Translator struct {
	cur   *cursor.Cursor
	pool  *pool.Pool
	syms  *symbols.Tables
	funcs *functable.Table

	startCode []bytecode.Instruction
	functions []ir.Function

	loopStack []*loopCtx
}

type loopCtx struct {
	breaks    []int
	continues []int
	isSwitch  bool
}

// Translate compiles a complete token stream (as produced by the lexer,
// with its trailing EOF token) into a Program. The first error aborts
// translation; there is no recovery.
func Translate(tokens []token.Token) (*ir.Program, *compileerr.CompilationError) {
	t := &Translator{
		cur:   cursor.New(tokens),
		pool:  pool.New(),
		syms:  symbols.New(),
		funcs: functable.New(),
	}
	if err := t.program(); err != nil {
		return nil, err
	}
	return &ir.Program{
		Constants: t.pool.Entries(),
		Start:     t.startCode,
		Functions: t.functions,
	}, nil
}

func (t *Translator) program() *compileerr.CompilationError {
	for !t.cur.AtEnd() {
		tok := t.cur.Peek()
		switch tok.Kind {
		case token.Const:
			if err := t.constDeclaration(&t.startCode); err != nil {
				return err
			}
		case token.Int, token.Char, token.Double, token.Void:
			if t.looksLikeFunctionDef() {
				if err := t.functionDefinition(); err != nil {
					return err
				}
			} else {
				if err := t.varDeclaration(&t.startCode); err != nil {
					return err
				}
			}
		default:
			return t.errHere(compileerr.InvalidInput)
		}
	}
	return nil
}

// looksLikeFunctionDef implements the 3-token lookahead the grammar
// needs to tell a function definition from a variable declaration: a
// type keyword followed by an identifier followed by '(' starts a
// function definition.
func (t *Translator) looksLikeFunctionDef() bool {
	return t.cur.PeekAt(1).Kind == token.Identifier && t.cur.PeekAt(2).Kind == token.LParen
}

func (t *Translator) errHere(code compileerr.Code) *compileerr.CompilationError {
	return compileerr.New(t.cur.Peek().Start, code)
}

func (t *Translator) errAt(pos token.Position, code compileerr.Code) *compileerr.CompilationError {
	return compileerr.New(pos, code)
}

func (t *Translator) expect(kind token.Kind, code compileerr.Code) (token.Token, *compileerr.CompilationError) {
	if t.cur.Peek().Kind != kind {
		return token.Token{}, t.errHere(code)
	}
	return t.cur.Next(), nil
}

func typeFromKeyword(kind token.Kind) (types.Type, bool) {
	switch kind {
	case token.Int:
		return types.Int, true
	case token.Double:
		return types.Double, true
	case token.Char:
		return types.Char, true
	case token.Void:
		return types.Void, true
	default:
		return 0, false
	}
}

// declarations parses the leading run of const/var declarations allowed
// at the top of any block, per the c0 grammar restriction that all
// declarations in a scope precede its statements. Function definitions
// never appear here: only Program parses those, at level 0.
func (t *Translator) declarations(dst *[]bytecode.Instruction) *compileerr.CompilationError {
	for {
		tok := t.cur.Peek()
		switch tok.Kind {
		case token.Const:
			if err := t.constDeclaration(dst); err != nil {
				return err
			}
		case token.Int, token.Char, token.Double:
			if t.looksLikeFunctionDef() {
				return nil
			}
			if err := t.varDeclaration(dst); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// constDeclaration parses `const TYPE ident = expr (, ident = expr)* ;`.
func (t *Translator) constDeclaration(dst *[]bytecode.Instruction) *compileerr.CompilationError {
	t.cur.Next() // consume 'const'
	typTok := t.cur.Peek()
	typ, ok := typeFromKeyword(typTok.Kind)
	if !ok || typ == types.Void {
		return t.errHere(compileerr.InvalidVariableType)
	}
	t.cur.Next()

	for {
		nameTok, err := t.expect(token.Identifier, compileerr.NeedIdentifier)
		if err != nil {
			return err
		}
		if t.syms.IsDeclaredHere(nameTok.Lit.StringVal) {
			return t.errAt(nameTok.Start, compileerr.DuplicateDeclaration)
		}
		if _, err := t.expect(token.Assign, compileerr.ConstantNeedValue); err != nil {
			return err
		}
		if err := t.emitDeclInit(dst, nameTok, typ, true); err != nil {
			return err
		}
		if t.cur.Peek().Kind != token.Comma {
			break
		}
		t.cur.Next()
	}
	if _, err := t.expect(token.Semicolon, compileerr.NoSemicolon); err != nil {
		return err
	}
	return nil
}

// varDeclaration parses `TYPE ident [= expr] (, ident [= expr])* ;`.
func (t *Translator) varDeclaration(dst *[]bytecode.Instruction) *compileerr.CompilationError {
	typTok := t.cur.Peek()
	typ, ok := typeFromKeyword(typTok.Kind)
	if !ok || typ == types.Void {
		return t.errHere(compileerr.InvalidVariableType)
	}
	t.cur.Next()

	for {
		nameTok, err := t.expect(token.Identifier, compileerr.NeedIdentifier)
		if err != nil {
			return err
		}
		if t.syms.IsDeclaredHere(nameTok.Lit.StringVal) {
			return t.errAt(nameTok.Start, compileerr.DuplicateDeclaration)
		}
		if t.cur.Peek().Kind == token.Assign {
			t.cur.Next()
			if err := t.emitDeclInit(dst, nameTok, typ, false); err != nil {
				return err
			}
		} else {
			if t.syms.Level() == 0 {
				t.syms.DeclareUninit(nameTok.Lit.StringVal, typ)
				t.emit(dst, bytecode.New1(bytecode.SNEW, int64(typ.Width())))
			} else {
				t.syms.DeclareUninit(nameTok.Lit.StringVal, typ)
			}
		}
		if t.cur.Peek().Kind != token.Comma {
			break
		}
		t.cur.Next()
	}
	if _, err := t.expect(token.Semicolon, compileerr.NoSemicolon); err != nil {
		return err
	}
	return nil
}

// emitDeclInit declares nameTok (as Const or Var) and, for a global
// declaration, reserves its storage with SNEW before evaluating the
// initializer. Locals need no reservation instruction: their slot is
// simply part of the function's activation frame.
func (t *Translator) emitDeclInit(dst *[]bytecode.Instruction, nameTok token.Token, typ types.Type, isConst bool) *compileerr.CompilationError {
	isGlobal := t.syms.Level() == 0
	if isConst {
		t.syms.DeclareConst(nameTok.Lit.StringVal, typ)
	} else {
		t.syms.DeclareVar(nameTok.Lit.StringVal, typ)
	}
	if isGlobal {
		t.emit(dst, bytecode.New1(bytecode.SNEW, int64(typ.Width())))
	}
	level, offset := t.syms.Lookup(nameTok.Lit.StringVal)
	t.emit(dst, bytecode.New2(bytecode.LOADA, int64(level), int64(offset)))
	rhsType, err := t.expression(dst)
	if err != nil {
		return err
	}
	if err := t.coerce(dst, typ, rhsType, compileerr.InvalidAssignment); err != nil {
		return err
	}
	t.emitStore(dst, typ)
	return nil
}

func (t *Translator) emitStore(dst *[]bytecode.Instruction, typ types.Type) {
	if typ == types.Double {
		t.emit(dst, bytecode.New(bytecode.DSTORE))
	} else {
		t.emit(dst, bytecode.New(bytecode.ISTORE))
	}
}

func (t *Translator) emit(dst *[]bytecode.Instruction, ins bytecode.Instruction) int {
	*dst = append(*dst, ins)
	return len(*dst) - 1
}

// functionDefinition parses and compiles one top-level function. c0
// functions never nest, so every function body begins at symbol-table
// level 1 and its own, fresh instruction vector.
func (t *Translator) functionDefinition() *compileerr.CompilationError {
	typTok := t.cur.Next() // type keyword
	retType, _ := typeFromKeyword(typTok.Kind)

	nameTok, err := t.expect(token.Identifier, compileerr.NeedIdentifier)
	if err != nil {
		return err
	}
	if t.funcs.IsDeclared(nameTok.Lit.StringVal) {
		return t.errAt(nameTok.Start, compileerr.DuplicateDeclaration)
	}

	if _, err := t.expect(token.LParen, compileerr.InvalidFunctionParamCount); err != nil {
		return err
	}
	var paramNames []token.Token
	var paramTypes []types.Type
	if t.cur.Peek().Kind != token.RParen {
		for {
			pTypTok := t.cur.Peek()
			pTyp, ok := typeFromKeyword(pTypTok.Kind)
			if !ok || pTyp == types.Void {
				return t.errHere(compileerr.InvalidVariableType)
			}
			t.cur.Next()
			pNameTok, err := t.expect(token.Identifier, compileerr.NeedIdentifier)
			if err != nil {
				return err
			}
			paramNames = append(paramNames, pNameTok)
			paramTypes = append(paramTypes, pTyp)
			if t.cur.Peek().Kind != token.Comma {
				break
			}
			t.cur.Next()
		}
	}
	if _, err := t.expect(token.RParen, compileerr.InvalidFunctionParamCount); err != nil {
		return err
	}

	nameConstIdx := t.pool.InternToken(nameTok)
	_, paramSlots := t.funcs.Declare(nameTok.Lit.StringVal, nameConstIdx, retType, paramTypes, 0)

	t.syms.PushLevel(0)
	for i, pn := range paramNames {
		t.syms.DeclareVar(pn.Lit.StringVal, paramTypes[i])
	}

	var body []bytecode.Instruction
	if _, err := t.expect(token.LBrace, compileerr.NoLeftBrace); err != nil {
		t.syms.PopLevel()
		return err
	}
	if err := t.declarations(&body); err != nil {
		t.syms.PopLevel()
		return err
	}
	if err := t.statementSequence(&body, retType); err != nil {
		t.syms.PopLevel()
		return err
	}
	if _, err := t.expect(token.RBrace, compileerr.NoRightBrace); err != nil {
		t.syms.PopLevel()
		return err
	}

	if retType == types.Void {
		t.emit(&body, bytecode.New(bytecode.RET))
	}

	t.syms.PopLevel()

	t.functions = append(t.functions, ir.Function{
		Name:         nameTok.Lit.StringVal,
		NameConstIdx: nameConstIdx,
		ParamSlots:   paramSlots,
		Level:        0,
		Code:         body,
	})
	return nil
}

// compoundStatement parses `{ {declaration} {statement} }`, used for if
// / while / do-while / for bodies and nested blocks. It pushes a fresh
// lexical level seeded with the enclosing level's current next_slot, so
// sibling blocks may reuse the same frame offsets.
func (t *Translator) compoundStatement(dst *[]bytecode.Instruction, retType types.Type) *compileerr.CompilationError {
	if _, err := t.expect(token.LBrace, compileerr.NoLeftBrace); err != nil {
		return err
	}
	t.syms.PushLevel(t.syms.NextSlot())
	if err := t.declarations(dst); err != nil {
		t.syms.PopLevel()
		return err
	}
	if err := t.statementSequence(dst, retType); err != nil {
		t.syms.PopLevel()
		return err
	}
	t.syms.PopLevel()
	if _, err := t.expect(token.RBrace, compileerr.NoRightBrace); err != nil {
		return err
	}
	return nil
}

func (t *Translator) statementSequence(dst *[]bytecode.Instruction, retType types.Type) *compileerr.CompilationError {
	for {
		k := t.cur.Peek().Kind
		if k == token.RBrace || k == token.EOF {
			return nil
		}
		if err := t.statement(dst, retType); err != nil {
			return err
		}
	}
}
