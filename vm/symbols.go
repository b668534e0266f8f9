package vm

import (
	"go.creack.net/robotwar/asm/parser"
	"go.creack.net/robotwar/op"
)

// OperandKind tells where an operand lives.
type OperandKind int

// OperandKind values.
const (
	OperandNone    OperandKind = iota // Missing operand, reads 0, can't be written.
	OperandLiteral                    // Numeric literal.
	OperandSystem                     // System register.
	OperandUser                       // User variable.
	OperandLabel                      // Label, Index is the target instruction.
)

func (k OperandKind) String() string {
	switch k {
	case OperandNone:
		return "none"
	case OperandLiteral:
		return "literal"
	case OperandSystem:
		return "system"
	case OperandUser:
		return "user"
	case OperandLabel:
		return "label"
	default:
		return "unknown"
	}
}

// Operand is a resolved instruction operand.
type Operand struct {
	Kind  OperandKind
	Value float64 // Literal value.
	Index int     // Register, user slot or instruction index, depending on Kind.
	Raw   string  // As written, upper-cased.
}

type instruction struct {
	code op.Code
	a, b Operand
	line int
}

// image is the resolved form of a program: every operand bound to its slot.
// Shared between clones of a robot, never mutated.
type image struct {
	code []instruction
	vars []string // User variable names, by slot.
}

// load runs the symbol pass over the program.
// Every operand that is neither a literal, a system register nor a label
// becomes a user variable, in order of first appearance.
func load(prog *parser.Program) *image {
	img := &image{}
	if prog == nil {
		return img
	}
	slots := map[string]int{}
	// Jump targets look up labels first, so a label may share a register name.
	resolve := func(raw string, present, target bool) Operand {
		if !present {
			return Operand{Kind: OperandNone}
		}
		if v, ok := parser.ParseNumber(raw); ok {
			return Operand{Kind: OperandLiteral, Value: v, Raw: raw}
		}
		if idx, ok := prog.Label(raw); ok && target {
			return Operand{Kind: OperandLabel, Index: idx, Raw: raw}
		}
		if reg, ok := op.LookupRegister(raw); ok {
			return Operand{Kind: OperandSystem, Index: int(reg), Raw: raw}
		}
		if idx, ok := prog.Label(raw); ok {
			return Operand{Kind: OperandLabel, Index: idx, Raw: raw}
		}
		slot, ok := slots[raw]
		if !ok {
			slot = len(img.vars)
			slots[raw] = slot
			img.vars = append(img.vars, raw)
		}
		return Operand{Kind: OperandUser, Index: slot, Raw: raw}
	}

	img.code = make([]instruction, 0, len(prog.Instructions))
	for _, ins := range prog.Instructions {
		a, b := ins.Operand(0), ins.Operand(1)
		jump := ins.OpCode.Code.IsJump()
		img.code = append(img.code, instruction{
			code: ins.OpCode.Code,
			a:    resolve(a, len(ins.Operands) > 0, jump),
			b:    resolve(b, len(ins.Operands) > 1, false),
			line: ins.Line,
		})
	}
	return img
}
