// Package ir holds the translator's output artifacts: the constant pool,
// the global start-code vector, and one instruction vector per function.
// Both the textual listing emitter and the binary object emitter consume
// only this package, never the translator itself.
package ir

import (
	"cc0/internal/bytecode"
	"cc0/internal/pool"
)

// Function is one compiled function body plus its FunctionTable metadata.
type Function struct {
	Name         string
	NameConstIdx int
	ParamSlots   int
	Level        int
	Code         []bytecode.Instruction
}

// Program is everything a compilation produces.
type Program struct {
	Constants []pool.Entry
	Start     []bytecode.Instruction
	Functions []Function
}
