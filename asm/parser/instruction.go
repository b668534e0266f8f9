package parser

import (
	"fmt"
	"strings"

	"go.creack.net/robotwar/op"
)

// Instruction is a single decoded line.
// Operands are kept as upper-cased raw tokens, the vm resolves them when loading.
type Instruction struct {
	OpCode   op.OpCode // OpCode reference.
	Operands []string  // Operands.
	Line     int       // Source line.
	Alias    string    // Alias it was written with, empty if none.
}

// Operand returns the i-th operand, or "" when it is missing.
func (ins Instruction) Operand(i int) string {
	if i < 0 || i >= len(ins.Operands) {
		return ""
	}
	return ins.Operands[i]
}

// PrettyPrint renders the instruction in its canonical form.
func (ins Instruction) PrettyPrint() string {
	out := "\t" + ins.OpCode.Name
	if len(ins.Operands) == 0 {
		return out
	}
	return fmt.Sprintf("%- 8s %s", out, strings.Join(ins.Operands, " "))
}

func (ins Instruction) String() string {
	out := "<" + ins.OpCode.Name
	if len(ins.Operands) == 0 {
		return out + ">"
	}
	return out + " (" + strings.Join(ins.Operands, ", ") + ")>"
}
