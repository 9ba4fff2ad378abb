// Package bytecode defines the o0 virtual machine's instruction set: a
// stack machine with absolute instruction-offset jumps and 1- or 2-slot
// activation-frame operands.
package bytecode

// OpCode is an o0 instruction opcode. Values match the wire encoding used
// by the binary object format so the emitter can write byte(op) directly.
type OpCode byte

const (
	NOP    OpCode = 0x00
	BIPUSH OpCode = 0x01
	IPUSH  OpCode = 0x02
	POP    OpCode = 0x04
	POP2   OpCode = 0x05
	POPN   OpCode = 0x06
	DUP    OpCode = 0x07
	DUP2   OpCode = 0x08
	LOADC  OpCode = 0x09
	LOADA  OpCode = 0x0A
	NEW    OpCode = 0x0B
	SNEW   OpCode = 0x0C

	ILOAD OpCode = 0x10
	DLOAD OpCode = 0x11
	ALOAD OpCode = 0x12

	ISTORE OpCode = 0x20
	DSTORE OpCode = 0x21
	ASTORE OpCode = 0x22

	IASTORE OpCode = 0x28
	DASTORE OpCode = 0x29
	AASTORE OpCode = 0x2A

	IADD OpCode = 0x30
	DADD OpCode = 0x31
	ISUB OpCode = 0x34
	DSUB OpCode = 0x35
	IMUL OpCode = 0x38
	DMUL OpCode = 0x39
	IDIV OpCode = 0x3C
	DDIV OpCode = 0x3D

	INEG OpCode = 0x40
	DNEG OpCode = 0x41

	ICMP OpCode = 0x44
	DCMP OpCode = 0x45

	I2D OpCode = 0x60
	D2I OpCode = 0x61
	I2C OpCode = 0x62

	JMP OpCode = 0x70
	JE  OpCode = 0x71
	JNE OpCode = 0x72
	JL  OpCode = 0x73
	JGE OpCode = 0x74
	JG  OpCode = 0x75
	JLE OpCode = 0x76

	CALL OpCode = 0x80

	RET  OpCode = 0x88
	IRET OpCode = 0x89
	DRET OpCode = 0x8A
	ARET OpCode = 0x8B

	IPRINT OpCode = 0xA0
	DPRINT OpCode = 0xA1
	CPRINT OpCode = 0xA2
	SPRINT OpCode = 0xA3
	PRINTL OpCode = 0xAF

	ISCAN OpCode = 0xB0
	DSCAN OpCode = 0xB1
	CSCAN OpCode = 0xB2
)

var mnemonics = map[OpCode]string{
	NOP: "nop", BIPUSH: "bipush", IPUSH: "ipush", POP: "pop", POP2: "pop2",
	POPN: "popn", DUP: "dup", DUP2: "dup2", LOADC: "loadc", LOADA: "loada",
	NEW: "new", SNEW: "snew",
	ILOAD: "iload", DLOAD: "dload", ALOAD: "aload",
	ISTORE: "istore", DSTORE: "dstore", ASTORE: "astore",
	IASTORE: "iastore", DASTORE: "dastore", AASTORE: "aastore",
	IADD: "iadd", DADD: "dadd", ISUB: "isub", DSUB: "dsub",
	IMUL: "imul", DMUL: "dmul", IDIV: "idiv", DDIV: "ddiv",
	INEG: "ineg", DNEG: "dneg", ICMP: "icmp", DCMP: "dcmp",
	I2D: "i2d", D2I: "d2i", I2C: "i2c",
	JMP: "jmp", JE: "je", JNE: "jne", JL: "jl", JGE: "jge", JG: "jg", JLE: "jle",
	CALL: "call",
	RET:  "ret", IRET: "iret", DRET: "dret", ARET: "aret",
	IPRINT: "iprint", DPRINT: "dprint", CPRINT: "cprint", SPRINT: "sprint", PRINTL: "printl",
	ISCAN: "iscan", DSCAN: "dscan", CSCAN: "cscan",
}

func (op OpCode) String() string {
	if s, ok := mnemonics[op]; ok {
		return s
	}
	return "???"
}

// OperandCount reports how many operands an instruction of this opcode
// carries, 0, 1, or 2. Used by the asm printer to decide how many
// operands to render; the binary encoder additionally needs each
// operand's wire width, given by OperandWidths.
func (op OpCode) OperandCount() int {
	switch op {
	case BIPUSH, IPUSH, POPN, LOADC, SNEW, CALL, JMP, JE, JNE, JL, JGE, JG, JLE:
		return 1
	case LOADA:
		return 2
	default:
		return 0
	}
}

// OperandWidths reports the wire byte-width of each operand this
// opcode carries, in order. The binary object format's operand widths
// are opcode-specific rather than a uniform word size: bipush packs a
// single signed byte, ipush and snew a 4-byte int, loadc and the jump
// family a 2-byte index/offset, loada a 2-byte display level followed
// by a 4-byte frame offset, and new takes no operand at all.
func (op OpCode) OperandWidths() []int {
	switch op {
	case BIPUSH:
		return []int{1}
	case IPUSH, POPN, SNEW:
		return []int{4}
	case LOADC, CALL, JMP, JE, JNE, JL, JGE, JG, JLE:
		return []int{2}
	case LOADA:
		return []int{2, 4}
	default:
		return nil
	}
}

// Absent is the sentinel value for an instruction operand that is not
// used, matching the "absent" default described for (opcode, x, y).
const Absent int64 = -1 << 62

// Instruction is one (opcode, x, y) triple. X and Y default to Absent.
type Instruction struct {
	Op OpCode
	X  int64
	Y  int64
}

func New(op OpCode) Instruction {
	return Instruction{Op: op, X: Absent, Y: Absent}
}

func New1(op OpCode, x int64) Instruction {
	return Instruction{Op: op, X: x, Y: Absent}
}

func New2(op OpCode, x, y int64) Instruction {
	return Instruction{Op: op, X: x, Y: y}
}
