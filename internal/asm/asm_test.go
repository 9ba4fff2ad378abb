package asm

import (
	"strings"
	"testing"

	"cc0/internal/bytecode"
	"cc0/internal/ir"
	"cc0/internal/pool"
)

func TestPrintSections(t *testing.T) {
	prog := &ir.Program{
		Constants: []pool.Entry{
			{Kind: pool.KindString, Text: "main"},
			{Kind: pool.KindInt, Text: "7"},
		},
		Start: []bytecode.Instruction{
			bytecode.New1(bytecode.SNEW, 1),
		},
		Functions: []ir.Function{
			{
				Name:         "main",
				NameConstIdx: 0,
				ParamSlots:   0,
				Level:        0,
				Code: []bytecode.Instruction{
					bytecode.New(bytecode.RET),
				},
			},
		},
	}
	out := NewPrinter().Print(prog)

	if !strings.Contains(out, ".constants:\n") {
		t.Error("missing .constants: section header")
	}
	if !strings.Contains(out, `0 S "main"`) {
		t.Errorf("expected a quoted string constant line, got:\n%s", out)
	}
	if !strings.Contains(out, "1 I 7") {
		t.Errorf("expected an unquoted int constant line, got:\n%s", out)
	}
	if !strings.Contains(out, ".start:\n") {
		t.Error("missing .start: section header")
	}
	if !strings.Contains(out, ".functions:\n") {
		t.Error("missing .functions: section header")
	}
	// .functions: entries carry no leading index column.
	if !strings.Contains(out, "\n0 0 0\n") {
		t.Errorf("expected function metadata line '0 0 0' with no leading index, got:\n%s", out)
	}
	// per-function body is headed by its index, not its name.
	if !strings.Contains(out, "\n.F0:\n") {
		t.Errorf("expected function body header '.F0:', got:\n%s", out)
	}
	if strings.Contains(out, "\nmain:\n") {
		t.Error("function body should not be headed by its name")
	}
}

func TestInstructionLinesAreTabSeparated(t *testing.T) {
	prog := &ir.Program{
		Start: []bytecode.Instruction{
			bytecode.New1(bytecode.IPUSH, 5),
			bytecode.New2(bytecode.LOADA, 1, 2),
		},
	}
	out := NewPrinter().Print(prog)
	if !strings.Contains(out, "0\tipush 5\n") {
		t.Errorf("expected tab-separated offset/mnemonic, got:\n%s", out)
	}
	if !strings.Contains(out, "1\tloada 1, 2\n") {
		t.Errorf("expected two-operand instruction rendering, got:\n%s", out)
	}
}

func TestInstructionIndicesRestartPerFunction(t *testing.T) {
	prog := &ir.Program{
		Start: []bytecode.Instruction{
			bytecode.New(bytecode.NOP),
			bytecode.New(bytecode.NOP),
		},
		Functions: []ir.Function{
			{Code: []bytecode.Instruction{bytecode.New(bytecode.RET)}},
		},
	}
	out := NewPrinter().Print(prog)
	if !strings.Contains(out, "0\tret\n") {
		t.Errorf("function body instruction indices should restart at 0, got:\n%s", out)
	}
}
