package translator

import (
	"cc0/internal/bytecode"
	"cc0/internal/compileerr"
	"cc0/internal/token"
	"cc0/internal/types"
)

// statement dispatches on the next token's kind to one of the statement
// forms. retType is the enclosing function's declared return type, which
// return-statement compilation needs to know what (if anything) to
// coerce its value to.
func (t *Translator) statement(dst *[]bytecode.Instruction, retType types.Type) *compileerr.CompilationError {
	switch t.cur.Peek().Kind {
	case token.Semicolon:
		t.cur.Next()
		return nil
	case token.LBrace:
		return t.compoundStatement(dst, retType)
	case token.If:
		return t.ifStatement(dst, retType)
	case token.While:
		return t.whileStatement(dst, retType)
	case token.Do:
		return t.doWhileStatement(dst, retType)
	case token.For:
		return t.forStatement(dst, retType)
	case token.Switch:
		return t.switchStatement(dst, retType)
	case token.Break:
		return t.breakStatement(dst)
	case token.Continue:
		return t.continueStatement(dst)
	case token.Return:
		return t.returnStatement(dst, retType)
	case token.Scan:
		return t.scanStatement(dst)
	case token.Print:
		return t.printStatement(dst)
	case token.Identifier:
		return t.assignmentOrCallStatement(dst)
	default:
		return t.errHere(compileerr.StatementSequence)
	}
}

// assignmentOrCallStatement handles the two statement forms that start
// with an identifier: `ident = expr ;` and `ident ( args ) ;`. The
// distinguishing token is whatever follows the identifier.
func (t *Translator) assignmentOrCallStatement(dst *[]bytecode.Instruction) *compileerr.CompilationError {
	nameTok := t.cur.Next()
	name := nameTok.Lit.StringVal

	if t.cur.Peek().Kind == token.LParen {
		if _, err := t.call(dst, nameTok); err != nil {
			return err
		}
		// a bare call statement discards its result; functions returning
		// a value push exactly one slot (or two for double), so pop it.
		fnIdx, _ := t.funcs.Lookup(name)
		retType, _ := t.funcs.Signature(fnIdx)
		if retType != types.Void {
			if retType == types.Double {
				t.emit(dst, bytecode.New(bytecode.POP2))
			} else {
				t.emit(dst, bytecode.New(bytecode.POP))
			}
		}
		_, err := t.expect(token.Semicolon, compileerr.NoSemicolon)
		return err
	}

	if !t.syms.IsVisible(name) {
		return t.errAt(nameTok.Start, compileerr.NotDeclared)
	}
	if t.syms.IsConstant(name) {
		return t.errAt(nameTok.Start, compileerr.AssignToConstant)
	}
	if _, err := t.expect(token.Assign, compileerr.InvalidAssignment); err != nil {
		return err
	}
	level, offset := t.syms.Lookup(name)
	t.emit(dst, bytecode.New2(bytecode.LOADA, int64(level), int64(offset)))
	typ := t.syms.TypeOf(name)
	rhsType, err := t.expression(dst)
	if err != nil {
		return err
	}
	if err := t.coerce(dst, typ, rhsType, compileerr.InvalidAssignment); err != nil {
		return err
	}
	t.emitStore(dst, typ)
	t.syms.PromoteToInitialized(name)
	if _, err := t.expect(token.Semicolon, compileerr.NoSemicolon); err != nil {
		return err
	}
	return nil
}

// ifStatement compiles `if ( condition ) statement [else statement]`.
// The condition's false-jump is back-patched to the else branch (or
// past the whole statement when there is none); the then branch, when
// there is an else, ends with an unconditional jump past it.
func (t *Translator) ifStatement(dst *[]bytecode.Instruction, retType types.Type) *compileerr.CompilationError {
	t.cur.Next() // if
	if _, err := t.expect(token.LParen, compileerr.IncompleteExpression); err != nil {
		return err
	}
	falseJumpIdx, err := t.condition(dst, false)
	if err != nil {
		return err
	}
	if _, err := t.expect(token.RParen, compileerr.IncompleteExpression); err != nil {
		return err
	}
	if err := t.statement(dst, retType); err != nil {
		return err
	}
	if t.cur.Peek().Kind == token.Else {
		t.cur.Next()
		jumpOverElseIdx := t.emit(dst, bytecode.New1(bytecode.JMP, 0))
		patch(*dst, falseJumpIdx, int64(len(*dst)))
		if err := t.statement(dst, retType); err != nil {
			return err
		}
		patch(*dst, jumpOverElseIdx, int64(len(*dst)))
	} else {
		patch(*dst, falseJumpIdx, int64(len(*dst)))
	}
	return nil
}

func (t *Translator) whileStatement(dst *[]bytecode.Instruction, retType types.Type) *compileerr.CompilationError {
	t.cur.Next() // while
	top := len(*dst)
	if _, err := t.expect(token.LParen, compileerr.IncompleteExpression); err != nil {
		return err
	}
	falseJumpIdx, err := t.condition(dst, false)
	if err != nil {
		return err
	}
	if _, err := t.expect(token.RParen, compileerr.IncompleteExpression); err != nil {
		return err
	}
	ctx := &loopCtx{}
	t.loopStack = append(t.loopStack, ctx)
	if err := t.statement(dst, retType); err != nil {
		t.popLoop()
		return err
	}
	t.emit(dst, bytecode.New1(bytecode.JMP, int64(top)))
	end := len(*dst)
	patch(*dst, falseJumpIdx, int64(end))
	t.resolveLoop(dst, ctx, top, end)
	return nil
}

func (t *Translator) doWhileStatement(dst *[]bytecode.Instruction, retType types.Type) *compileerr.CompilationError {
	t.cur.Next() // do
	top := len(*dst)
	ctx := &loopCtx{}
	t.loopStack = append(t.loopStack, ctx)
	if err := t.statement(dst, retType); err != nil {
		t.popLoop()
		return err
	}
	continueTarget := len(*dst)
	if _, err := t.expect(token.While, compileerr.ErrLoop); err != nil {
		t.popLoop()
		return err
	}
	if _, err := t.expect(token.LParen, compileerr.IncompleteExpression); err != nil {
		t.popLoop()
		return err
	}
	// positiveJump: jump back to top when the condition holds.
	trueJumpIdx, err := t.condition(dst, true)
	if err != nil {
		t.popLoop()
		return err
	}
	patch(*dst, trueJumpIdx, int64(top))
	if _, err := t.expect(token.RParen, compileerr.IncompleteExpression); err != nil {
		t.popLoop()
		return err
	}
	if _, err := t.expect(token.Semicolon, compileerr.NoSemicolon); err != nil {
		t.popLoop()
		return err
	}
	end := len(*dst)
	t.resolveLoopWithContinueTarget(dst, ctx, continueTarget, end)
	return nil
}

func (t *Translator) forStatement(dst *[]bytecode.Instruction, retType types.Type) *compileerr.CompilationError {
	t.cur.Next() // for
	if _, err := t.expect(token.LParen, compileerr.IncompleteExpression); err != nil {
		return err
	}
	t.syms.PushLevel(t.syms.NextSlot())
	defer t.syms.PopLevel()

	if t.cur.Peek().Kind != token.Semicolon {
		if err := t.forClauseStatement(dst); err != nil {
			return err
		}
	} else {
		t.cur.Next()
	}

	top := len(*dst)
	var falseJumpIdx = -1
	if t.cur.Peek().Kind != token.Semicolon {
		idx, err := t.condition(dst, false)
		if err != nil {
			return err
		}
		falseJumpIdx = idx
	}
	if _, err := t.expect(token.Semicolon, compileerr.IncompleteExpression); err != nil {
		return err
	}

	var post []bytecode.Instruction
	if t.cur.Peek().Kind != token.RParen {
		if err := t.forClauseStatementInto(&post); err != nil {
			return err
		}
	}
	if _, err := t.expect(token.RParen, compileerr.IncompleteExpression); err != nil {
		return err
	}

	ctx := &loopCtx{}
	t.loopStack = append(t.loopStack, ctx)
	continueTarget := len(*dst)
	*dst = append(*dst, post...)
	if err := t.statement(dst, retType); err != nil {
		t.popLoop()
		return err
	}
	t.emit(dst, bytecode.New1(bytecode.JMP, int64(top)))
	end := len(*dst)
	if falseJumpIdx >= 0 {
		patch(*dst, falseJumpIdx, int64(end))
	}
	t.resolveLoopWithContinueTarget(dst, ctx, continueTarget, end)
	return nil
}

// forClauseStatement compiles a for-loop's init clause, which may be
// either a declaration or an assignment; both helpers consume the
// clause's terminating semicolon themselves. c0 keeps for-init simple:
// a single assignment or declaration, not a comma list of arbitrary
// statements.
func (t *Translator) forClauseStatement(dst *[]bytecode.Instruction) *compileerr.CompilationError {
	switch t.cur.Peek().Kind {
	case token.Int, token.Char, token.Double:
		return t.varDeclaration(dst)
	default:
		return t.assignmentOrCallStatement(dst)
	}
}

// forClauseStatementInto compiles the for-loop's post clause (e.g.
// `i = i + 1`) into a scratch vector rather than dst directly;
// forStatement then appends that code at the loop's continue target,
// ahead of the loop body.
func (t *Translator) forClauseStatementInto(dst *[]bytecode.Instruction) *compileerr.CompilationError {
	nameTok := t.cur.Next()
	name := nameTok.Lit.StringVal
	if !t.syms.IsVisible(name) {
		return t.errAt(nameTok.Start, compileerr.NotDeclared)
	}
	if t.syms.IsConstant(name) {
		return t.errAt(nameTok.Start, compileerr.AssignToConstant)
	}
	if _, err := t.expect(token.Assign, compileerr.InvalidAssignment); err != nil {
		return err
	}
	level, offset := t.syms.Lookup(name)
	t.emit(dst, bytecode.New2(bytecode.LOADA, int64(level), int64(offset)))
	typ := t.syms.TypeOf(name)
	rhsType, err := t.expression(dst)
	if err != nil {
		return err
	}
	if err := t.coerce(dst, typ, rhsType, compileerr.InvalidAssignment); err != nil {
		return err
	}
	t.emitStore(dst, typ)
	t.syms.PromoteToInitialized(name)
	return nil
}

func (t *Translator) popLoop() {
	t.loopStack = t.loopStack[:len(t.loopStack)-1]
}

// resolveLoop patches a loop's break targets to end and its continue
// targets to top (used by while, where "continue" re-tests the
// condition at the top of the loop).
func (t *Translator) resolveLoop(dst *[]bytecode.Instruction, ctx *loopCtx, top, end int) {
	t.resolveLoopWithContinueTarget(dst, ctx, top, end)
}

// resolveLoopWithContinueTarget patches a loop's break targets to end
// and its continue targets to continueTarget, then pops the loop
// context. do-while and for both re-enter at a point other than the
// textual top of the loop, so they pass an explicit continue target.
func (t *Translator) resolveLoopWithContinueTarget(dst *[]bytecode.Instruction, ctx *loopCtx, continueTarget, end int) {
	for _, idx := range ctx.breaks {
		patch(*dst, idx, int64(end))
	}
	for _, idx := range ctx.continues {
		patch(*dst, idx, int64(continueTarget))
	}
	t.popLoop()
}

func (t *Translator) currentLoop() *loopCtx {
	if len(t.loopStack) == 0 {
		return nil
	}
	return t.loopStack[len(t.loopStack)-1]
}

func (t *Translator) breakStatement(dst *[]bytecode.Instruction) *compileerr.CompilationError {
	pos := t.cur.Peek().Start
	t.cur.Next()
	ctx := t.currentLoop()
	if ctx == nil {
		return t.errAt(pos, compileerr.ErrBreak)
	}
	idx := t.emit(dst, bytecode.New1(bytecode.JMP, 0))
	ctx.breaks = append(ctx.breaks, idx)
	_, err := t.expect(token.Semicolon, compileerr.NoSemicolon)
	return err
}

// continueStatement needs a genuine enclosing loop, not just the
// nearest loopCtx: a switch pushes its own context so break works
// uniformly, but continue must skip past it to find a real loop. Since
// switch never records continue targets of its own (its continues
// field stays empty, see switchStatement), we can simply search
// the stack from the top for the first context capable of holding
// continues — in practice the first non-switch context.
func (t *Translator) continueStatement(dst *[]bytecode.Instruction) *compileerr.CompilationError {
	pos := t.cur.Peek().Start
	t.cur.Next()
	var target *loopCtx
	for i := len(t.loopStack) - 1; i >= 0; i-- {
		if !t.loopStack[i].isSwitch {
			target = t.loopStack[i]
			break
		}
	}
	if target == nil {
		return t.errAt(pos, compileerr.ErrContinue)
	}
	idx := t.emit(dst, bytecode.New1(bytecode.JMP, 0))
	target.continues = append(target.continues, idx)
	_, err := t.expect(token.Semicolon, compileerr.NoSemicolon)
	return err
}

func (t *Translator) returnStatement(dst *[]bytecode.Instruction, retType types.Type) *compileerr.CompilationError {
	pos := t.cur.Peek().Start
	t.cur.Next()
	if t.cur.Peek().Kind == token.Semicolon {
		t.cur.Next()
		if retType != types.Void {
			return t.errAt(pos, compileerr.ErrReturnWrong)
		}
		t.emit(dst, bytecode.New(bytecode.RET))
		return nil
	}
	if retType == types.Void {
		return t.errAt(pos, compileerr.ErrReturnWrong)
	}
	valType, err := t.expression(dst)
	if err != nil {
		return err
	}
	if err := t.coerce(dst, retType, valType, compileerr.ErrReturnWrong); err != nil {
		return err
	}
	if retType == types.Double {
		t.emit(dst, bytecode.New(bytecode.DRET))
	} else {
		t.emit(dst, bytecode.New(bytecode.IRET))
	}
	if _, err := t.expect(token.Semicolon, compileerr.NoSemicolon); err != nil {
		return err
	}
	return nil
}

func (t *Translator) scanStatement(dst *[]bytecode.Instruction) *compileerr.CompilationError {
	t.cur.Next() // scan
	if _, err := t.expect(token.LParen, compileerr.InvalidPrint); err != nil {
		return err
	}
	nameTok, err := t.expect(token.Identifier, compileerr.NeedIdentifier)
	if err != nil {
		return err
	}
	name := nameTok.Lit.StringVal
	if !t.syms.IsVisible(name) {
		return t.errAt(nameTok.Start, compileerr.NotDeclared)
	}
	if t.syms.IsConstant(name) {
		return t.errAt(nameTok.Start, compileerr.AssignToConstant)
	}
	if _, err := t.expect(token.RParen, compileerr.InvalidPrint); err != nil {
		return err
	}
	level, offset := t.syms.Lookup(name)
	t.emit(dst, bytecode.New2(bytecode.LOADA, int64(level), int64(offset)))
	typ := t.syms.TypeOf(name)
	switch typ {
	case types.Double:
		t.emit(dst, bytecode.New(bytecode.DSCAN))
		t.emit(dst, bytecode.New(bytecode.DSTORE))
	case types.Char:
		t.emit(dst, bytecode.New(bytecode.CSCAN))
		t.emit(dst, bytecode.New(bytecode.ISTORE))
	default:
		t.emit(dst, bytecode.New(bytecode.ISCAN))
		t.emit(dst, bytecode.New(bytecode.ISTORE))
	}
	t.syms.PromoteToInitialized(name)
	if _, err := t.expect(token.Semicolon, compileerr.NoSemicolon); err != nil {
		return err
	}
	return nil
}

// printStatement compiles `print ( item (, item)* ) ;` where each item
// is either a string literal or a numeric expression. A trailing
// newline instruction is always emitted, matching the driver's
// line-buffered stdout contract.
func (t *Translator) printStatement(dst *[]bytecode.Instruction) *compileerr.CompilationError {
	t.cur.Next() // print
	if _, err := t.expect(token.LParen, compileerr.InvalidPrint); err != nil {
		return err
	}
	if t.cur.Peek().Kind != token.RParen {
		for {
			if t.cur.Peek().Kind == token.StringValue {
				strTok := t.cur.Next()
				idx := t.pool.InternToken(strTok)
				t.emit(dst, bytecode.New1(bytecode.LOADC, int64(idx)))
				t.emit(dst, bytecode.New(bytecode.SPRINT))
			} else {
				typ, err := t.expression(dst)
				if err != nil {
					return err
				}
				switch typ {
				case types.Double:
					t.emit(dst, bytecode.New(bytecode.DPRINT))
				case types.Char:
					t.emit(dst, bytecode.New(bytecode.CPRINT))
				case types.Int:
					t.emit(dst, bytecode.New(bytecode.IPRINT))
				default:
					return t.errHere(compileerr.InvalidPrint)
				}
			}
			// every printable item, including the last, is followed by a
			// space separator; printl alone ends the line.
			t.emit(dst, bytecode.New1(bytecode.BIPUSH, int64(' ')))
			t.emit(dst, bytecode.New(bytecode.CPRINT))
			if t.cur.Peek().Kind != token.Comma {
				break
			}
			t.cur.Next()
		}
	}
	if _, err := t.expect(token.RParen, compileerr.InvalidPrint); err != nil {
		return err
	}
	t.emit(dst, bytecode.New(bytecode.PRINTL))
	if _, err := t.expect(token.Semicolon, compileerr.NoSemicolon); err != nil {
		return err
	}
	return nil
}

// switchStatement compiles `switch ( expr ) { case const : stmts...
// [default : stmts...] }` as a linear chain of equality tests against
// the switch value, since o0 has no dedicated table-jump instruction.
//
// Each `case k:` clause emits `dup; push k; icmp; jne ?` followed by its
// statements and then an unconditional trailing jump ("fall-out") that
// skips the remaining clauses once this one's body has run. The jne is
// resolved immediately, to the instruction right after that trailing
// jump — nothing else can intervene, since the next clause's compare
// sequence starts there. The trailing jump itself stays pending in
// fallouts until the next label's body-start is known (right after its
// own jne for a case, or immediately for a bare default), at which
// point every pending fallout resolves there at once. A bare default
// is always the switch's last clause, so its body needs no trailing
// jump of its own; likewise a switch with no default at all simply
// resolves any still-pending fallouts to the instruction right after
// the last case. The duplicated discriminant is never popped: each
// case's own dup/icmp/jne consumes only the pushed comparison value,
// leaving the original switch value underneath for the next
// comparison (or, once the switch is done, simply abandoned on the
// stack, matching the reference compiler).
//
// It pushes its own loopCtx so break works the same as in a loop; any
// continue inside a switch must reach past it to a genuine enclosing
// loop (see continueStatement), so this context's continues field is
// simply left empty and never consulted.
func (t *Translator) switchStatement(dst *[]bytecode.Instruction, retType types.Type) *compileerr.CompilationError {
	t.cur.Next() // switch
	if _, err := t.expect(token.LParen, compileerr.IncompleteExpression); err != nil {
		return err
	}
	switchType, err := t.expression(dst)
	if err != nil {
		return err
	}
	if switchType != types.Int && switchType != types.Char {
		return t.errHere(compileerr.ErrInvalidSwitchType)
	}
	if _, err := t.expect(token.RParen, compileerr.IncompleteExpression); err != nil {
		return err
	}
	if _, err := t.expect(token.LBrace, compileerr.NoLeftBrace); err != nil {
		return err
	}

	ctx := &loopCtx{isSwitch: true}
	t.loopStack = append(t.loopStack, ctx)

	seenCases := map[string]bool{}
	sawDefault := false
	var fallouts []int // pending trailing jumps awaiting the next label's body-start

	resolveFallouts := func(target int) {
		for _, idx := range fallouts {
			patch(*dst, idx, int64(target))
		}
		fallouts = fallouts[:0]
	}

	for t.cur.Peek().Kind == token.Case || t.cur.Peek().Kind == token.Default {
		if t.cur.Peek().Kind == token.Case {
			t.cur.Next() // case
			litTok := t.cur.Peek()
			if !constIntValid(litTok) {
				t.popLoop()
				return t.errHere(compileerr.ErrInvalidCaseType)
			}
			if seenCases[litTok.Spelling] {
				t.popLoop()
				return t.errHere(compileerr.ErrDupCase)
			}
			seenCases[litTok.Spelling] = true
			t.cur.Next()
			if _, err := t.expect(token.Colon, compileerr.ErrNeedColon); err != nil {
				t.popLoop()
				return err
			}
			// duplicate the switch value, push the case label by its own
			// literal form (hex constants are interned like any other
			// constant reference; plain integers and chars push direct),
			// and compare.
			t.emit(dst, bytecode.New(bytecode.DUP))
			switch litTok.Kind {
			case token.Hexadecimal:
				idx := t.pool.InternToken(litTok)
				t.emit(dst, bytecode.New1(bytecode.LOADC, int64(idx)))
			case token.CharValue:
				t.emit(dst, bytecode.New1(bytecode.BIPUSH, int64(litTok.Lit.CharVal)))
			default:
				t.emit(dst, bytecode.New1(bytecode.IPUSH, int64(litTok.Lit.Int32Val)))
			}
			t.emit(dst, bytecode.New(bytecode.ICMP))
			jneIdx := t.emit(dst, bytecode.New1(bytecode.JNE, 0))
			// this clause's body-start is known now: every fallout
			// pending from an earlier clause jumps out to here.
			resolveFallouts(len(*dst))
			for t.cur.Peek().Kind != token.Case && t.cur.Peek().Kind != token.Default && t.cur.Peek().Kind != token.RBrace {
				if err := t.statement(dst, retType); err != nil {
					t.popLoop()
					return err
				}
			}
			falloutIdx := t.emit(dst, bytecode.New1(bytecode.JMP, 0))
			fallouts = append(fallouts, falloutIdx)
			// the false branch lands right after the fallout jump, at
			// the start of the next clause's compare sequence.
			patch(*dst, jneIdx, int64(len(*dst)))
		} else {
			if sawDefault {
				t.popLoop()
				return t.errHere(compileerr.ErrDupCase)
			}
			sawDefault = true
			t.cur.Next()
			if _, err := t.expect(token.Colon, compileerr.ErrNeedColon); err != nil {
				t.popLoop()
				return err
			}
			// default has no comparison of its own; its body-start is
			// simply here, right away. default is always the terminal
			// clause, so its body needs no trailing fall-out jump.
			resolveFallouts(len(*dst))
			for t.cur.Peek().Kind != token.Case && t.cur.Peek().Kind != token.Default && t.cur.Peek().Kind != token.RBrace {
				if err := t.statement(dst, retType); err != nil {
					t.popLoop()
					return err
				}
			}
			break
		}
	}
	// any fallouts still pending (a switch with no default) resolve to
	// the instruction right after the last case.
	resolveFallouts(len(*dst))

	if _, err := t.expect(token.RBrace, compileerr.NoRightBrace); err != nil {
		t.popLoop()
		return err
	}

	end := len(*dst)
	for _, idx := range ctx.breaks {
		patch(*dst, idx, int64(end))
	}
	t.popLoop()
	return nil
}

// constIntValid reports whether tok is a literal a case label may
// carry: an unsigned integer, a hexadecimal constant, or a char.
func constIntValid(tok token.Token) bool {
	switch tok.Kind {
	case token.UnsignedInteger, token.Hexadecimal, token.CharValue:
		return true
	default:
		return false
	}
}
