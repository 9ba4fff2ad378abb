package translator

import (
	"cc0/internal/bytecode"
	"cc0/internal/compileerr"
	"cc0/internal/token"
	"cc0/internal/types"
)

// expression is the grammar's entry point: expression -> additive. c0
// has no assignment-as-expression and no boolean operators outside
// condition(), so additive is as far down as binary operators go before
// hitting cast/unary/primary.
func (t *Translator) expression(dst *[]bytecode.Instruction) (types.Type, *compileerr.CompilationError) {
	return t.additive(dst)
}

func (t *Translator) additive(dst *[]bytecode.Instruction) (types.Type, *compileerr.CompilationError) {
	lhsType, err := t.multiplicative(dst)
	if err != nil {
		return 0, err
	}
	for {
		var add bool
		switch t.cur.Peek().Kind {
		case token.Plus:
			add = true
		case token.Minus:
			add = false
		default:
			return lhsType, nil
		}
		t.cur.Next()
		lhsType, err = t.applyBinary(dst, lhsType, add, t.multiplicative)
		if err != nil {
			return 0, err
		}
	}
}

func (t *Translator) multiplicative(dst *[]bytecode.Instruction) (types.Type, *compileerr.CompilationError) {
	lhsType, err := t.castExpr(dst)
	if err != nil {
		return 0, err
	}
	for {
		var mul bool
		switch t.cur.Peek().Kind {
		case token.Star:
			mul = true
		case token.Slash:
			mul = false
		default:
			return lhsType, nil
		}
		t.cur.Next()
		lhsType, err = t.applyBinaryMulDiv(dst, lhsType, mul)
		if err != nil {
			return 0, err
		}
	}
}

// applyBinary implements the staging discipline a binary +/- operator
// needs: the right operand is compiled into a scratch vector first, so
// its resulting type is known before deciding whether either side needs
// an I2D widening, and so that widening instruction can be inserted
// ahead of the right operand's own code rather than interleaved with it.
func (t *Translator) applyBinary(dst *[]bytecode.Instruction, lhsType types.Type, add bool, rhsParser func(*[]bytecode.Instruction) (types.Type, *compileerr.CompilationError)) (types.Type, *compileerr.CompilationError) {
	var scratch []bytecode.Instruction
	rhsType, err := rhsParser(&scratch)
	if err != nil {
		return 0, err
	}
	resultType, err := t.widenPair(dst, &scratch, lhsType, rhsType)
	if err != nil {
		return 0, err
	}
	*dst = append(*dst, scratch...)
	if resultType == types.Double {
		if add {
			t.emit(dst, bytecode.New(bytecode.DADD))
		} else {
			t.emit(dst, bytecode.New(bytecode.DSUB))
		}
	} else {
		if add {
			t.emit(dst, bytecode.New(bytecode.IADD))
		} else {
			t.emit(dst, bytecode.New(bytecode.ISUB))
		}
	}
	return resultType, nil
}

func (t *Translator) applyBinaryMulDiv(dst *[]bytecode.Instruction, lhsType types.Type, mul bool) (types.Type, *compileerr.CompilationError) {
	var scratch []bytecode.Instruction
	rhsType, err := t.castExpr(&scratch)
	if err != nil {
		return 0, err
	}
	resultType, err := t.widenPair(dst, &scratch, lhsType, rhsType)
	if err != nil {
		return 0, err
	}
	*dst = append(*dst, scratch...)
	if resultType == types.Double {
		if mul {
			t.emit(dst, bytecode.New(bytecode.DMUL))
		} else {
			t.emit(dst, bytecode.New(bytecode.DDIV))
		}
	} else {
		if mul {
			t.emit(dst, bytecode.New(bytecode.IMUL))
		} else {
			t.emit(dst, bytecode.New(bytecode.IDIV))
		}
	}
	return resultType, nil
}

// widenPair applies the numeric promotion lattice to a binary operator's
// two already-compiled operands: if either side is double, the other
// side (if int or char) is widened with I2D. lhs's widening instruction
// (if any) is appended directly to dst, ahead of wherever the caller is
// about to append the already-compiled rhs scratch vector; rhs's
// widening is appended to the scratch vector itself, right after the
// rhs's own bytecode, so it converts the rhs value on top of the stack.
func (t *Translator) widenPair(dst *[]bytecode.Instruction, rhsScratch *[]bytecode.Instruction, lhsType, rhsType types.Type) (types.Type, *compileerr.CompilationError) {
	if !lhsType.Numeric() || !rhsType.Numeric() {
		return 0, t.errHere(compileerr.InvalidType)
	}
	if lhsType == types.Double || rhsType == types.Double {
		if lhsType != types.Double {
			t.emit(dst, bytecode.New(bytecode.I2D))
		}
		if rhsType != types.Double {
			*rhsScratch = append(*rhsScratch, bytecode.New(bytecode.I2D))
		}
		return types.Double, nil
	}
	return types.Int, nil
}

// castExpr parses zero or more parenthesized-type prefixes and applies
// their conversions in reverse of parse order: `(int)(double)x` parses
// outer-to-inner but must apply the inner (double) conversion first and
// the outer (int) conversion last, working outward.
func (t *Translator) castExpr(dst *[]bytecode.Instruction) (types.Type, *compileerr.CompilationError) {
	var casts []types.Type
	for t.cur.Peek().Kind == token.LParen {
		typTok := t.cur.PeekAt(1)
		typ, ok := typeFromKeyword(typTok.Kind)
		if !ok || typ == types.Void || t.cur.PeekAt(2).Kind != token.RParen {
			break
		}
		t.cur.Next() // (
		t.cur.Next() // type
		t.cur.Next() // )
		casts = append(casts, typ)
	}
	innerType, err := t.unary(dst)
	if err != nil {
		return 0, err
	}
	curType := innerType
	for i := len(casts) - 1; i >= 0; i-- {
		target := casts[i]
		if err := t.applyCast(dst, target, curType); err != nil {
			return 0, err
		}
		curType = target
	}
	return curType, nil
}

// applyCast emits the conversion instruction (if any) needed to turn a
// value of type from on the stack into a value of type to. The c0 cast
// lattice allows any pair among {int, double, char}; void may appear on
// neither side.
func (t *Translator) applyCast(dst *[]bytecode.Instruction, to, from types.Type) *compileerr.CompilationError {
	if to == types.Void || from == types.Void {
		return t.errHere(compileerr.InvalidType)
	}
	if to == from {
		return nil
	}
	switch to {
	case types.Double:
		if from != types.Double {
			t.emit(dst, bytecode.New(bytecode.I2D))
		}
	case types.Int:
		if from == types.Double {
			t.emit(dst, bytecode.New(bytecode.D2I))
		}
		// char -> int needs no conversion: chars are already stored widened.
	case types.Char:
		if from == types.Double {
			t.emit(dst, bytecode.New(bytecode.D2I))
			t.emit(dst, bytecode.New(bytecode.I2C))
		} else {
			t.emit(dst, bytecode.New(bytecode.I2C))
		}
	}
	return nil
}

func (t *Translator) unary(dst *[]bytecode.Instruction) (types.Type, *compileerr.CompilationError) {
	switch t.cur.Peek().Kind {
	case token.Plus:
		t.cur.Next()
		return t.castExpr(dst)
	case token.Minus:
		t.cur.Next()
		typ, err := t.castExpr(dst)
		if err != nil {
			return 0, err
		}
		if !typ.Numeric() {
			return 0, t.errHere(compileerr.InvalidType)
		}
		if typ == types.Double {
			t.emit(dst, bytecode.New(bytecode.DNEG))
		} else {
			t.emit(dst, bytecode.New(bytecode.INEG))
			typ = types.Int // a negated char is an int
		}
		return typ, nil
	default:
		return t.primary(dst)
	}
}

func (t *Translator) primary(dst *[]bytecode.Instruction) (types.Type, *compileerr.CompilationError) {
	tok := t.cur.Peek()
	switch tok.Kind {
	case token.LParen:
		t.cur.Next()
		typ, err := t.expression(dst)
		if err != nil {
			return 0, err
		}
		if _, err := t.expect(token.RParen, compileerr.IncompleteExpression); err != nil {
			return 0, err
		}
		return typ, nil
	case token.UnsignedInteger:
		t.cur.Next()
		t.emit(dst, bytecode.New1(bytecode.IPUSH, int64(tok.Lit.Int32Val)))
		return types.Int, nil
	case token.Hexadecimal:
		t.cur.Next()
		idx := t.pool.InternToken(tok)
		t.emit(dst, bytecode.New1(bytecode.LOADC, int64(idx)))
		return types.Int, nil
	case token.DoubleValue:
		t.cur.Next()
		idx := t.pool.InternToken(tok)
		t.emit(dst, bytecode.New1(bytecode.LOADC, int64(idx)))
		return types.Double, nil
	case token.CharValue:
		t.cur.Next()
		t.emit(dst, bytecode.New1(bytecode.BIPUSH, int64(tok.Lit.CharVal)))
		return types.Char, nil
	case token.Identifier:
		return t.identifierPrimary(dst)
	default:
		return 0, t.errHere(compileerr.IncompleteExpression)
	}
}

func (t *Translator) identifierPrimary(dst *[]bytecode.Instruction) (types.Type, *compileerr.CompilationError) {
	nameTok := t.cur.Next()
	name := nameTok.Lit.StringVal
	if t.cur.Peek().Kind == token.LParen {
		return t.call(dst, nameTok)
	}
	if !t.syms.IsVisible(name) {
		return 0, t.errAt(nameTok.Start, compileerr.NotDeclared)
	}
	if !t.syms.IsInitialized(name) {
		return 0, t.errAt(nameTok.Start, compileerr.NotInitialized)
	}
	level, offset := t.syms.Lookup(name)
	t.emit(dst, bytecode.New2(bytecode.LOADA, int64(level), int64(offset)))
	typ := t.syms.TypeOf(name)
	if typ == types.Double {
		t.emit(dst, bytecode.New(bytecode.DLOAD))
	} else {
		t.emit(dst, bytecode.New(bytecode.ILOAD))
	}
	return typ, nil
}

func (t *Translator) call(dst *[]bytecode.Instruction, nameTok token.Token) (types.Type, *compileerr.CompilationError) {
	name := nameTok.Lit.StringVal
	idx, ok := t.funcs.Lookup(name)
	if !ok {
		return 0, t.errAt(nameTok.Start, compileerr.NotDeclared)
	}
	retType, paramTypes := t.funcs.Signature(idx)

	t.cur.Next() // (
	argc := 0
	if t.cur.Peek().Kind != token.RParen {
		for {
			if argc >= len(paramTypes) {
				return 0, t.errAt(nameTok.Start, compileerr.InvalidFunctionParamCount)
			}
			argType, err := t.expression(dst)
			if err != nil {
				return 0, err
			}
			if !argType.Numeric() || !paramTypes[argc].Numeric() {
				return 0, t.errAt(nameTok.Start, compileerr.InvalidFunctionParamType)
			}
			if err := t.coerce(dst, paramTypes[argc], argType, compileerr.InvalidFunctionParamType); err != nil {
				return 0, err
			}
			argc++
			if t.cur.Peek().Kind != token.Comma {
				break
			}
			t.cur.Next()
		}
	}
	if _, err := t.expect(token.RParen, compileerr.InvalidFunctionParamCount); err != nil {
		return 0, err
	}
	if argc != len(paramTypes) {
		return 0, t.errAt(nameTok.Start, compileerr.InvalidFunctionParamCount)
	}
	t.emit(dst, bytecode.New1(bytecode.CALL, int64(idx)))
	return retType, nil
}

// coerce applies the conversion needed to make a value of type from
// usable where a value of type to is required — assignment, return,
// call arguments, and explicit casts all funnel through the same
// int/double/char lattice, differing only in which CompilationError
// code is appropriate when the pair is not convertible at all.
func (t *Translator) coerce(dst *[]bytecode.Instruction, to, from types.Type, code compileerr.Code) *compileerr.CompilationError {
	if to == types.Void || from == types.Void {
		return t.errHere(code)
	}
	if !to.Numeric() || !from.Numeric() {
		return t.errHere(code)
	}
	if to == from {
		return nil
	}
	switch to {
	case types.Double:
		t.emit(dst, bytecode.New(bytecode.I2D))
	case types.Int:
		if from == types.Double {
			t.emit(dst, bytecode.New(bytecode.D2I))
		}
	case types.Char:
		if from == types.Double {
			t.emit(dst, bytecode.New(bytecode.D2I))
		}
		t.emit(dst, bytecode.New(bytecode.I2C))
	}
	return nil
}

var relFalseJump = map[token.Kind]bytecode.OpCode{
	token.Equal:       bytecode.JNE,
	token.NotEqual:     bytecode.JE,
	token.Less:         bytecode.JGE,
	token.LessEqual:    bytecode.JG,
	token.Greater:      bytecode.JLE,
	token.GreaterEqual: bytecode.JL,
}

// condition compiles `expr relop expr` (or a bare expr, relop '!= 0')
// and emits the ICMP/DCMP pair plus a "jump when the condition is
// false" branch, returning the index of that jump instruction so the
// caller can back-patch its target once the guarded code is compiled.
// positiveJump reverses the sense (used by do-while, whose trailing
// test jumps back to the loop top when TRUE rather than forward when
// false).
func (t *Translator) condition(dst *[]bytecode.Instruction, positiveJump bool) (int, *compileerr.CompilationError) {
	lhsType, err := t.expression(dst)
	if err != nil {
		return 0, err
	}
	relop := t.cur.Peek().Kind
	op, isRel := relFalseJump[relop]
	if !isRel {
		// bare expression: true iff nonzero, i.e. compare against 0.
		t.emit(dst, bytecode.New1(bytecode.IPUSH, 0))
		if lhsType == types.Double {
			t.emit(dst, bytecode.New(bytecode.I2D))
			t.emit(dst, bytecode.New(bytecode.DCMP))
		} else {
			t.emit(dst, bytecode.New(bytecode.ICMP))
		}
		falseJump := bytecode.JE
		if positiveJump {
			falseJump = bytecode.JNE
		}
		idx := t.emit(dst, bytecode.New1(falseJump, 0))
		return idx, nil
	}
	t.cur.Next()
	var scratch []bytecode.Instruction
	rhsType, err := t.expression(&scratch)
	if err != nil {
		return 0, err
	}
	cmpType, err := t.widenPair(dst, &scratch, lhsType, rhsType)
	if err != nil {
		return 0, err
	}
	*dst = append(*dst, scratch...)
	if cmpType == types.Double {
		t.emit(dst, bytecode.New(bytecode.DCMP))
	} else {
		t.emit(dst, bytecode.New(bytecode.ICMP))
	}
	jumpOp := op
	if positiveJump {
		jumpOp = positiveOf(relop)
	}
	idx := t.emit(dst, bytecode.New1(jumpOp, 0))
	return idx, nil
}

// positiveOf returns the "jump when true" opcode for a relop, the
// complement of relFalseJump. Used by do-while, where the trailing test
// re-enters the loop when the condition holds rather than skipping the
// body when it doesn't.
func positiveOf(relop token.Kind) bytecode.OpCode {
	switch relop {
	case token.Equal:
		return bytecode.JE
	case token.NotEqual:
		return bytecode.JNE
	case token.Less:
		return bytecode.JL
	case token.LessEqual:
		return bytecode.JLE
	case token.Greater:
		return bytecode.JG
	case token.GreaterEqual:
		return bytecode.JGE
	default:
		return bytecode.JNE
	}
}

func patch(code []bytecode.Instruction, idx int, target int64) {
	code[idx].X = target
}
