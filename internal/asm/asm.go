// Package asm renders a compiled Program as the textual instruction
// listing format: one line per constant-pool entry, one per start-code
// instruction, and one per function, followed by its body.
package asm

import (
	"fmt"
	"strings"

	"cc0/internal/bytecode"
	"cc0/internal/ir"
	"cc0/internal/pool"
)

// Printer accumulates a textual listing the same way the teacher's
// formatter builds its output: a running strings.Builder and a small
// amount of per-section bookkeeping, rather than a tree of string
// concatenations.
type Printer struct {
	output strings.Builder
}

func NewPrinter() *Printer {
	return &Printer{}
}

// Print renders the full listing: a ".constants" section, a ".start"
// section, a ".functions" section with one metadata line per function,
// and one ".F<idx>" body section per compiled function.
func (p *Printer) Print(prog *ir.Program) string {
	p.output.Reset()
	p.printConstants(prog.Constants)
	p.printStart(prog.Start)
	p.printFunctions(prog.Functions)
	return p.output.String()
}

func (p *Printer) printConstants(entries []pool.Entry) {
	p.output.WriteString(".constants:\n")
	for i, e := range entries {
		fmt.Fprintf(&p.output, "%d %s %s\n", i, kindName(e.Kind), quoteIfString(e))
	}
}

func kindName(k pool.Kind) string {
	switch k {
	case pool.KindString:
		return "S"
	case pool.KindInt:
		return "I"
	case pool.KindDouble:
		return "D"
	default:
		return "?"
	}
}

func quoteIfString(e pool.Entry) string {
	if e.Kind == pool.KindString {
		return fmt.Sprintf("%q", e.Text)
	}
	return e.Text
}

func (p *Printer) printStart(code []bytecode.Instruction) {
	p.output.WriteString(".start:\n")
	p.printCode(code)
}

func (p *Printer) printFunctions(fns []ir.Function) {
	p.output.WriteString(".functions:\n")
	for _, fn := range fns {
		fmt.Fprintf(&p.output, "%d %d %d\n", fn.NameConstIdx, fn.ParamSlots, fn.Level)
	}
	for i, fn := range fns {
		fmt.Fprintf(&p.output, "\n.F%d:\n", i)
		p.printCode(fn.Code)
	}
}

func (p *Printer) printCode(code []bytecode.Instruction) {
	for i, ins := range code {
		p.writeInstruction(i, ins)
	}
}

func (p *Printer) writeInstruction(offset int, ins bytecode.Instruction) {
	fmt.Fprintf(&p.output, "%d\t%s", offset, ins.Op)
	switch ins.Op.OperandCount() {
	case 1:
		fmt.Fprintf(&p.output, " %d", ins.X)
	case 2:
		fmt.Fprintf(&p.output, " %d, %d", ins.X, ins.Y)
	}
	p.output.WriteByte('\n')
}
